package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/jvaldezcruz/assetdesk-backend/internal/approvals"
	"github.com/jvaldezcruz/assetdesk-backend/pkg/db/models"
	"github.com/jvaldezcruz/assetdesk-backend/pkg/enums"
)

type stubApprovalService struct {
	approveInput *approvals.DecisionInput
	rejectInput  *approvals.DecisionInput
	result       *models.ApprovalRequest
}

func (s *stubApprovalService) Request(_ context.Context, _ approvals.RequestInput) (*models.ApprovalRequest, error) {
	return s.result, nil
}

func (s *stubApprovalService) Approve(_ context.Context, input approvals.DecisionInput) (*models.ApprovalRequest, error) {
	s.approveInput = &input
	return s.result, nil
}

func (s *stubApprovalService) Reject(_ context.Context, input approvals.DecisionInput) (*models.ApprovalRequest, error) {
	s.rejectInput = &input
	return s.result, nil
}

func (s *stubApprovalService) Cancel(_ context.Context, _, _ uuid.UUID) (*models.ApprovalRequest, error) {
	return s.result, nil
}

func (s *stubApprovalService) Get(_ context.Context, _ uuid.UUID) (*models.ApprovalRequest, error) {
	return s.result, nil
}

func (s *stubApprovalService) List(_ context.Context, _ approvals.ListParams) (*approvals.ListResult, error) {
	return &approvals.ListResult{Items: []models.ApprovalRequest{*s.result}}, nil
}

func sampleApproval() *models.ApprovalRequest {
	return &models.ApprovalRequest{
		ID:         uuid.New(),
		EmployeeID: uuid.New(),
		ResourceID: uuid.New(),
		Status:     enums.ApprovalStatusPending,
		CreatedAt:  time.Now(),
	}
}

// Route construction must not touch the service; the router wires handlers
// before every backend is up, and a nil service only matters once a request
// actually arrives.
func TestApprovalDecisionHandlersConstructWithNilService(t *testing.T) {
	logg := testLogger()
	if ApprovalApprove(nil, logg) == nil {
		t.Fatal("approve handler not built")
	}
	if ApprovalReject(nil, logg) == nil {
		t.Fatal("reject handler not built")
	}
}

func TestApprovalDecisionRoutesToMatchingMethod(t *testing.T) {
	logg := testLogger()
	actorID := uuid.New()

	t.Run("approve", func(t *testing.T) {
		stub := &stubApprovalService{result: sampleApproval()}
		requestID := uuid.New()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/approvals/"+requestID.String()+"/approve", strings.NewReader(`{"note":"looks fine"}`))
		ctx := actorContext(req.Context(), actorID, "manager")
		req = req.WithContext(withURLParam(ctx, "requestId", requestID.String()))
		rec := httptest.NewRecorder()
		ApprovalApprove(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}
		if stub.approveInput == nil || stub.approveInput.RequestID != requestID {
			t.Fatalf("approve input = %+v", stub.approveInput)
		}
		if stub.approveInput.Note != "looks fine" {
			t.Fatalf("note = %q", stub.approveInput.Note)
		}
		if stub.rejectInput != nil {
			t.Fatal("reject must not run on the approve route")
		}
	})

	t.Run("reject", func(t *testing.T) {
		stub := &stubApprovalService{result: sampleApproval()}
		requestID := uuid.New()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/approvals/"+requestID.String()+"/reject", strings.NewReader(`{"note":"no budget"}`))
		ctx := actorContext(req.Context(), actorID, "manager")
		req = req.WithContext(withURLParam(ctx, "requestId", requestID.String()))
		rec := httptest.NewRecorder()
		ApprovalReject(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}
		if stub.rejectInput == nil || stub.rejectInput.RequestID != requestID {
			t.Fatalf("reject input = %+v", stub.rejectInput)
		}
		if stub.approveInput != nil {
			t.Fatal("approve must not run on the reject route")
		}
	})
}

package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/jvaldezcruz/assetdesk-backend/internal/employees"
	"github.com/jvaldezcruz/assetdesk-backend/pkg/db/models"
	"github.com/jvaldezcruz/assetdesk-backend/pkg/enums"
)

type stubEmployeeService struct {
	createInput     *employees.CreateInput
	deactivatedID   *uuid.UUID
	deactivateActor *uuid.UUID
	listParams      *employees.ListParams
	result          *models.Employee
}

func (s *stubEmployeeService) Create(_ context.Context, input employees.CreateInput) (*models.Employee, error) {
	s.createInput = &input
	return s.result, nil
}

func (s *stubEmployeeService) Get(_ context.Context, _ uuid.UUID) (*models.Employee, error) {
	return s.result, nil
}

func (s *stubEmployeeService) Update(_ context.Context, _ uuid.UUID, _ employees.UpdateInput) (*models.Employee, error) {
	return s.result, nil
}

func (s *stubEmployeeService) Deactivate(_ context.Context, id uuid.UUID, actorID *uuid.UUID) (*models.Employee, error) {
	s.deactivatedID = &id
	s.deactivateActor = actorID
	return s.result, nil
}

func (s *stubEmployeeService) List(_ context.Context, params employees.ListParams) (*employees.ListResult, error) {
	s.listParams = &params
	return &employees.ListResult{Items: []models.Employee{*s.result}, Cursor: "next"}, nil
}

func sampleEmployee() *models.Employee {
	return &models.Employee{
		ID:     uuid.New(),
		Name:   "Dana Smith",
		Email:  "dana@example.com",
		Role:   enums.EmployeeRoleEmployee,
		Status: enums.EmployeeStatusActive,
	}
}

func TestEmployeeCreate(t *testing.T) {
	logg := testLogger()
	actorID := uuid.New()

	t.Run("success", func(t *testing.T) {
		stub := &stubEmployeeService{result: sampleEmployee()}
		body := `{"name":"Dana Smith","email":"dana@example.com","department":"IT","role":"manager"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/employees", strings.NewReader(body))
		req = req.WithContext(actorContext(req.Context(), actorID, "admin"))
		rec := httptest.NewRecorder()
		EmployeeCreate(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}
		if stub.createInput == nil || stub.createInput.Role != enums.EmployeeRoleManager {
			t.Fatalf("create input = %+v", stub.createInput)
		}
		if stub.createInput.ActorID == nil || *stub.createInput.ActorID != actorID {
			t.Fatalf("actor = %v", stub.createInput.ActorID)
		}
	})

	t.Run("invalid email", func(t *testing.T) {
		stub := &stubEmployeeService{result: sampleEmployee()}
		req := httptest.NewRequest(http.MethodPost, "/api/v1/employees", strings.NewReader(`{"name":"Dana","email":"not-an-email"}`))
		req = req.WithContext(actorContext(req.Context(), actorID, "admin"))
		rec := httptest.NewRecorder()
		EmployeeCreate(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		if stub.createInput != nil {
			t.Fatal("service must not run on invalid payload")
		}
	})

	t.Run("unknown role", func(t *testing.T) {
		stub := &stubEmployeeService{result: sampleEmployee()}
		req := httptest.NewRequest(http.MethodPost, "/api/v1/employees", strings.NewReader(`{"name":"Dana","email":"dana@example.com","role":"ceo"}`))
		req = req.WithContext(actorContext(req.Context(), actorID, "admin"))
		rec := httptest.NewRecorder()
		EmployeeCreate(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for unknown role, got %d", rec.Code)
		}
	})
}

func TestEmployeeDeactivate(t *testing.T) {
	logg := testLogger()
	actorID := uuid.New()
	employeeID := uuid.New()

	stub := &stubEmployeeService{result: sampleEmployee()}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/employees/"+employeeID.String()+"/deactivate", nil)
	ctx := actorContext(req.Context(), actorID, "admin")
	req = req.WithContext(withURLParam(ctx, "employeeId", employeeID.String()))
	rec := httptest.NewRecorder()
	EmployeeDeactivate(stub, logg).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if stub.deactivatedID == nil || *stub.deactivatedID != employeeID {
		t.Fatalf("deactivated = %v, want %s", stub.deactivatedID, employeeID)
	}
	if stub.deactivateActor == nil || *stub.deactivateActor != actorID {
		t.Fatalf("actor = %v, want %s", stub.deactivateActor, actorID)
	}
}

func TestEmployeeListFilters(t *testing.T) {
	logg := testLogger()
	stub := &stubEmployeeService{result: sampleEmployee()}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/employees?status=active&role=manager&limit=10", nil)
	req = req.WithContext(actorContext(req.Context(), uuid.New(), "employee"))
	rec := httptest.NewRecorder()
	EmployeeList(stub, logg).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	params := stub.listParams
	if params == nil || params.Limit != 10 {
		t.Fatalf("params = %+v", params)
	}
	if params.Status == nil || *params.Status != enums.EmployeeStatusActive {
		t.Fatalf("status filter = %v", params.Status)
	}
	if params.Role == nil || *params.Role != enums.EmployeeRoleManager {
		t.Fatalf("role filter = %v", params.Role)
	}

	var envelope struct {
		Data struct {
			Items  []employeeResponse `json:"items"`
			Cursor string             `json:"cursor"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(envelope.Data.Items) != 1 || envelope.Data.Cursor != "next" {
		t.Fatalf("page = %+v", envelope.Data)
	}
}

package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/jvaldezcruz/assetdesk-backend/api/middleware"
	"github.com/jvaldezcruz/assetdesk-backend/api/validators"
	"github.com/jvaldezcruz/assetdesk-backend/pkg/enums"
	pkgerrors "github.com/jvaldezcruz/assetdesk-backend/pkg/errors"
)

const (
	defaultListLimit = 25
	maxListLimit     = 100
)

// actorFrom reads the authenticated employee and role seeded by the auth
// middleware.
func actorFrom(r *http.Request) (*uuid.UUID, enums.EmployeeRole, error) {
	raw := middleware.EmployeeIDFromContext(r.Context())
	if raw == "" {
		return nil, "", pkgerrors.New(pkgerrors.CodeUnauthorized, "employee context missing")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid employee context")
	}
	role := enums.EmployeeRole(middleware.RoleFromContext(r.Context()))
	return &id, role, nil
}

func listLimit(r *http.Request) (int, error) {
	return validators.ParseQueryInt(r, "limit", defaultListLimit, 1, maxListLimit)
}

type listResponse[T any] struct {
	Items  []T    `json:"items"`
	Cursor string `json:"cursor,omitempty"`
}

package employees

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jvaldezcruz/assetdesk-backend/pkg/db/models"
	"github.com/jvaldezcruz/assetdesk-backend/pkg/enums"
	pkgerrors "github.com/jvaldezcruz/assetdesk-backend/pkg/errors"
	"github.com/jvaldezcruz/assetdesk-backend/pkg/logger"
	pkgpagination "github.com/jvaldezcruz/assetdesk-backend/pkg/pagination"
)

type auditSink interface {
	Record(ctx context.Context, entries ...models.AuditLog) error
}

// CreateInput captures a new employee record.
type CreateInput struct {
	Name       string
	Email      string
	Department string
	Title      string
	Role       enums.EmployeeRole
	ActorID    *uuid.UUID
}

// UpdateInput captures the mutable employee fields.
type UpdateInput struct {
	Name       *string
	Department *string
	Title      *string
	Role       *enums.EmployeeRole
	ActorID    *uuid.UUID
}

// ListParams filters the employee listing.
type ListParams struct {
	Status *enums.EmployeeStatus
	Role   *enums.EmployeeRole
	Limit  int
	Cursor string
}

// ListResult is one page of employees plus the next cursor.
type ListResult struct {
	Items  []models.Employee
	Cursor string
}

// Service exposes employee directory operations.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Employee, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Employee, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Employee, error)
	Deactivate(ctx context.Context, id uuid.UUID, actorID *uuid.UUID) (*models.Employee, error)
	List(ctx context.Context, params ListParams) (*ListResult, error)
}

type service struct {
	repo  *Repository
	audit auditSink
	logg  *logger.Logger
}

// NewService builds the employee directory service.
func NewService(repo *Repository, audit auditSink, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("employee repository required")
	}
	if audit == nil {
		return nil, fmt.Errorf("audit sink required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, audit: audit, logg: logg}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Employee, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a valid email is required")
	}
	role := input.Role
	if role == "" {
		role = enums.EmployeeRoleEmployee
	}
	if !role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
	}

	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup email")
	}
	if existing != nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
	}

	employee := &models.Employee{
		ID:         uuid.New(),
		Name:       name,
		Email:      email,
		Department: strings.TrimSpace(input.Department),
		Title:      strings.TrimSpace(input.Title),
		Role:       role,
		Status:     enums.EmployeeStatusActive,
	}
	if err := s.repo.Create(ctx, employee); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create employee")
	}

	s.recordAudit(ctx, models.AuditLog{
		EntityType: "employee",
		EntityID:   employee.ID,
		ActorID:    input.ActorID,
		Field:      "status",
		NewValue:   employee.Status.String(),
	})
	return employee, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Employee, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "employee id is required")
	}
	employee, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup employee")
	}
	if employee == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "employee not found")
	}
	return employee, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Employee, error) {
	employee, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	var entries []models.AuditLog
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		entries = append(entries, auditChange(employee.ID, input.ActorID, "name", employee.Name, name))
		employee.Name = name
	}
	if input.Department != nil {
		dept := strings.TrimSpace(*input.Department)
		entries = append(entries, auditChange(employee.ID, input.ActorID, "department", employee.Department, dept))
		employee.Department = dept
	}
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		entries = append(entries, auditChange(employee.ID, input.ActorID, "title", employee.Title, title))
		employee.Title = title
	}
	if input.Role != nil {
		if !input.Role.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
		}
		entries = append(entries, auditChange(employee.ID, input.ActorID, "role", employee.Role.String(), input.Role.String()))
		employee.Role = *input.Role
	}

	if err := s.repo.Update(ctx, employee); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update employee")
	}
	s.recordAudit(ctx, entries...)
	return employee, nil
}

// Deactivate marks an employee inactive. Blocked while the employee still
// holds active assignments so equipment cannot go dark.
func (s *service) Deactivate(ctx context.Context, id uuid.UUID, actorID *uuid.UUID) (*models.Employee, error) {
	employee, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if employee.Status == enums.EmployeeStatusInactive {
		return employee, nil
	}

	holding, err := s.repo.HasActiveAssignments(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check active assignments")
	}
	if holding {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "employee still holds active assignments")
	}

	old := employee.Status
	employee.Status = enums.EmployeeStatusInactive
	if err := s.repo.Update(ctx, employee); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deactivate employee")
	}

	s.recordAudit(ctx, auditChange(employee.ID, actorID, "status", old.String(), employee.Status.String()))
	return employee, nil
}

func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	limit := pkgpagination.NormalizeLimit(params.Limit)
	query := listQuery{
		status: params.Status,
		role:   params.Role,
		limit:  pkgpagination.LimitWithBuffer(params.Limit),
	}
	if params.Cursor != "" {
		cursor, err := pkgpagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.cursor = cursor
	}

	rows, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list employees")
	}

	nextCursor := ""
	if len(rows) > limit {
		rows = rows[:limit]
		nextCursor = pkgpagination.EncodeCursor(pkgpagination.Cursor{
			CreatedAt: rows[limit-1].CreatedAt,
			ID:        rows[limit-1].ID,
		})
	}
	return &ListResult{Items: rows, Cursor: nextCursor}, nil
}

func (s *service) recordAudit(ctx context.Context, entries ...models.AuditLog) {
	if len(entries) == 0 {
		return
	}
	if err := s.audit.Record(ctx, entries...); err != nil {
		s.logg.Warn(ctx, "audit record failed for employee change: "+err.Error())
	}
}

func auditChange(entityID uuid.UUID, actorID *uuid.UUID, field, oldValue, newValue string) models.AuditLog {
	return models.AuditLog{
		EntityType: "employee",
		EntityID:   entityID,
		ActorID:    actorID,
		Field:      field,
		OldValue:   oldValue,
		NewValue:   newValue,
	}
}

package capacity

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jvaldezcruz/assetdesk-backend/internal/allocation"
	"github.com/jvaldezcruz/assetdesk-backend/pkg/db/models"
	"github.com/jvaldezcruz/assetdesk-backend/pkg/enums"
	pkgerrors "github.com/jvaldezcruz/assetdesk-backend/pkg/errors"
	"github.com/jvaldezcruz/assetdesk-backend/pkg/types"
)

// ItemCounts breaks an item-backed resource down by item status.
type ItemCounts struct {
	Total       int `json:"total"`
	Available   int `json:"available"`
	Assigned    int `json:"assigned"`
	Maintenance int `json:"maintenance"`
	Lost        int `json:"lost"`
	Damaged     int `json:"damaged"`
}

// Availability is the read-only capacity view for one resource. Exactly one
// of Items or Units is set depending on the allocation mode. For unbounded
// quantity resources Capacity and Available are nil.
type Availability struct {
	ResourceID     uuid.UUID            `json:"resourceId"`
	AllocationMode enums.AllocationMode `json:"allocationMode"`
	Items          *ItemCounts          `json:"items,omitempty"`
	Units          *UnitCounts          `json:"units,omitempty"`
}

// UnitCounts is the quantity-backed availability view.
type UnitCounts struct {
	Capacity  *int `json:"capacity"`
	Used      int  `json:"used"`
	Available *int `json:"available"`
}

// Service computes availability snapshots without taking locks; the numbers
// are advisory and the allocation path re-validates inside its transaction.
type Service interface {
	Availability(ctx context.Context, resourceID uuid.UUID) (*Availability, error)
}

type service struct {
	repo *Repository
}

// NewService builds the capacity calculator.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("capacity repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Availability(ctx context.Context, resourceID uuid.UUID) (*Availability, error) {
	if resourceID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "resource id is required")
	}
	resource, err := s.repo.FindResource(ctx, resourceID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup resource")
	}
	if resource == nil {
		rej := allocation.Reject(allocation.CodeResourceNotFound, "resource does not exist")
		return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, rej, rej.Message)
	}

	view := &Availability{
		ResourceID:     resource.ID,
		AllocationMode: resource.AllocationMode,
	}
	if resource.AllocationMode == enums.AllocationModeExclusive {
		counts, err := s.itemCounts(ctx, resource)
		if err != nil {
			return nil, err
		}
		view.Items = counts
		return view, nil
	}

	units, err := s.unitCounts(ctx, resource)
	if err != nil {
		return nil, err
	}
	view.Units = units
	return view, nil
}

func (s *service) itemCounts(ctx context.Context, resource *models.Resource) (*ItemCounts, error) {
	byStatus, err := s.repo.CountItemsByStatus(ctx, resource.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count items")
	}
	counts := &ItemCounts{
		Available:   byStatus[enums.ItemStatusAvailable],
		Assigned:    byStatus[enums.ItemStatusAssigned],
		Maintenance: byStatus[enums.ItemStatusMaintenance],
		Lost:        byStatus[enums.ItemStatusLost],
		Damaged:     byStatus[enums.ItemStatusDamaged],
	}
	for _, n := range byStatus {
		counts.Total += n
	}
	return counts, nil
}

func (s *service) unitCounts(ctx context.Context, resource *models.Resource) (*UnitCounts, error) {
	used, err := s.repo.SumActiveUnits(ctx, resource.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum active units")
	}

	units := &UnitCounts{Used: used}
	if limit, bounded := types.CapacityFromQuantity(resource.Quantity).Limit(); bounded {
		units.Capacity = &limit
		available := limit - used
		if available < 0 {
			available = 0
		}
		units.Available = &available
	}
	return units, nil
}

package allocation

import (
	"github.com/google/uuid"

	"github.com/jvaldezcruz/assetdesk-backend/pkg/enums"
	"github.com/jvaldezcruz/assetdesk-backend/pkg/types"
)

// Request is a proposed assignment, as received from the caller.
type Request struct {
	ResourceID        uuid.UUID
	EmployeeID        uuid.UUID
	ItemID            *uuid.UUID
	RequestedCategory *enums.AssignmentCategory
	// Quantity of units requested; zero means one.
	Quantity int
}

// ItemState is the current state of the requested item, if it was found.
type ItemState struct {
	ID                  uuid.UUID
	Status              enums.ItemStatus
	HasActiveAssignment bool
}

// Snapshot is the resource-side state the decision runs against. The caller
// is responsible for reading it inside the same transaction that commits the
// assignment, so the decision and the write are atomic.
type Snapshot struct {
	ResourceFound  bool
	EmployeeFound  bool
	ResourceStatus enums.ResourceStatus
	AllocationMode enums.AllocationMode
	TypeName       string
	Capacity       types.Capacity

	// ActiveUnits is the sum of quantities across active non-item
	// assignments; for seat grants every row counts one unit.
	ActiveUnits    int
	EmployeeActive bool
	AvailableItems int

	// Shape flags for the mixed-usage invariant: a resource is either
	// item-backed or quantity-backed for its lifetime, never both.
	HasItemBackedActive bool
	HasQuantityActive   bool

	// Item is nil when no item was requested or the requested id does not
	// exist under this resource.
	Item *ItemState
}

// Decision is an accepted request with its resolved category and quantity.
type Decision struct {
	Category enums.AssignmentCategory
	Quantity int
}

type ruleKey struct {
	mode  enums.AllocationMode
	class TypeClass
}

type checkFn func(req Request, snap Snapshot) *Rejection

// ruleTable holds the constraint set per (allocation mode, type class). The
// legacy system ran a mode pass and then a redundant type-keyed pass; here
// both collapse into one chain per key, with every historical rejection code
// still reachable.
var ruleTable = map[ruleKey][]checkFn{}

func init() {
	exclusiveChecks := []checkFn{
		checkNoQuantityRows,
		checkExclusiveQuantity,
		checkItemPresence,
		checkItemAssignable,
	}
	sharedChecks := []checkFn{
		checkNoItemRows,
		checkSharedQuantity,
		checkDuplicateHolder,
		checkCapacity,
	}
	for _, class := range []TypeClass{TypeClassHardware, TypeClassSoftware, TypeClassCloud, TypeClassCustom} {
		ruleTable[ruleKey{enums.AllocationModeExclusive, class}] = exclusiveChecks
		ruleTable[ruleKey{enums.AllocationModeShared, class}] = sharedChecks
	}
}

// Decide validates a proposed assignment against the snapshot and either
// accepts it with a resolved category or rejects it with a coded reason.
// It is a pure function: it reads state, commits nothing.
func Decide(req Request, snap Snapshot) (Decision, *Rejection) {
	if !snap.ResourceFound {
		return Decision{}, Reject(CodeResourceNotFound, "resource does not exist")
	}
	if !snap.EmployeeFound {
		return Decision{}, Reject(CodeEmployeeNotFound, "employee does not exist")
	}
	if snap.ResourceStatus != enums.ResourceStatusActive {
		return Decision{}, RejectWithDetails(CodeResourceInactive, "resource is not active", map[string]any{
			"resource_status": snap.ResourceStatus.String(),
		})
	}
	if req.Quantity < 0 {
		return Decision{}, Reject(CodeInvalidQuantity, "quantity must be positive")
	}

	class := ClassifyType(snap.TypeName)
	checks, ok := ruleTable[ruleKey{snap.AllocationMode, class}]
	if !ok {
		return Decision{}, Reject(CodeResourceInactive, "resource has no applicable allocation rules")
	}
	for _, check := range checks {
		if rej := check(req, snap); rej != nil {
			return Decision{}, rej
		}
	}

	return Decision{
		Category: ResolveCategory(class, req.RequestedCategory),
		Quantity: normalizeQuantity(req.Quantity),
	}, nil
}

func normalizeQuantity(q int) int {
	if q == 0 {
		return 1
	}
	return q
}

func checkNoQuantityRows(_ Request, snap Snapshot) *Rejection {
	if snap.HasQuantityActive {
		return Reject(CodeMixedAllocation, "resource already has quantity-tracked assignments")
	}
	return nil
}

func checkNoItemRows(_ Request, snap Snapshot) *Rejection {
	if snap.HasItemBackedActive {
		return Reject(CodeMixedAllocation, "resource already has item-backed assignments")
	}
	return nil
}

func checkExclusiveQuantity(req Request, _ Snapshot) *Rejection {
	if normalizeQuantity(req.Quantity) != 1 {
		return Reject(CodeInvalidQuantity, "item-backed assignments carry exactly one unit")
	}
	return nil
}

func checkSharedQuantity(req Request, _ Snapshot) *Rejection {
	q := normalizeQuantity(req.Quantity)
	if q == 1 {
		return nil
	}
	if req.RequestedCategory == nil || *req.RequestedCategory != enums.AssignmentCategoryPooled {
		return Reject(CodeInvalidQuantity, "multi-unit grants require a pooled assignment")
	}
	return nil
}

func checkItemPresence(req Request, snap Snapshot) *Rejection {
	if req.ItemID != nil {
		return nil
	}
	if snap.AvailableItems == 0 {
		return Reject(CodeNoAvailableItems, "resource has no available items")
	}
	return Reject(CodeItemRequired, "an item reference is required for this resource")
}

func checkItemAssignable(req Request, snap Snapshot) *Rejection {
	if req.ItemID == nil {
		return nil
	}
	if snap.Item == nil {
		return Reject(CodeItemNotAvailable, "item does not exist under this resource")
	}
	if snap.Item.HasActiveAssignment || snap.Item.Status == enums.ItemStatusAssigned {
		return Reject(CodeItemAlreadyAssigned, "item already has an active assignment")
	}
	if snap.Item.Status != enums.ItemStatusAvailable {
		return RejectWithDetails(CodeItemNotAvailable, "item is not available", map[string]any{
			"item_status": snap.Item.Status.String(),
		})
	}
	return nil
}

func checkDuplicateHolder(_ Request, snap Snapshot) *Rejection {
	if snap.EmployeeActive {
		return Reject(CodeAlreadyAssigned, "employee already holds an active assignment on this resource")
	}
	return nil
}

func checkCapacity(req Request, snap Snapshot) *Rejection {
	limit, bounded := snap.Capacity.Limit()
	if !bounded {
		return nil
	}
	requested := normalizeQuantity(req.Quantity)
	if snap.ActiveUnits+requested > limit {
		return RejectWithDetails(CodeCapacityReached, "resource capacity reached", map[string]any{
			"current_assignments": snap.ActiveUnits,
			"max_capacity":        limit,
		})
	}
	return nil
}

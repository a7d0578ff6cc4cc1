package allocation

import "github.com/jvaldezcruz/assetdesk-backend/pkg/enums"

// allowedTransitions is the assignment status machine. RETURNED and LOST are
// terminal; a damaged assignment can still be closed out as returned once the
// unit comes back from repair.
var allowedTransitions = map[enums.AssignmentStatus][]enums.AssignmentStatus{
	enums.AssignmentStatusActive: {
		enums.AssignmentStatusReturned,
		enums.AssignmentStatusLost,
		enums.AssignmentStatusDamaged,
	},
	enums.AssignmentStatusDamaged: {
		enums.AssignmentStatusReturned,
	},
}

// ValidateTransition checks a status move against the machine.
func ValidateTransition(from, to enums.AssignmentStatus) *Rejection {
	for _, candidate := range allowedTransitions[from] {
		if candidate == to {
			return nil
		}
	}
	return RejectWithDetails(CodeInvalidStatusTransition, "status transition not allowed", map[string]any{
		"from": from.String(),
		"to":   to.String(),
	})
}

// MirrorItemStatus returns the item status that keeps the item in step with
// its assignment after a transition.
func MirrorItemStatus(to enums.AssignmentStatus) (enums.ItemStatus, bool) {
	switch to {
	case enums.AssignmentStatusReturned:
		return enums.ItemStatusAvailable, true
	case enums.AssignmentStatusLost:
		return enums.ItemStatusLost, true
	case enums.AssignmentStatusDamaged:
		return enums.ItemStatusDamaged, true
	default:
		return "", false
	}
}

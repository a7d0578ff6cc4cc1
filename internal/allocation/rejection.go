package allocation

import "fmt"

// RejectionCode enumerates every reason the engine can refuse a request.
type RejectionCode string

const (
	CodeResourceNotFound        RejectionCode = "RESOURCE_NOT_FOUND"
	CodeEmployeeNotFound        RejectionCode = "EMPLOYEE_NOT_FOUND"
	CodeAssignmentNotFound      RejectionCode = "ASSIGNMENT_NOT_FOUND"
	CodeResourceInactive        RejectionCode = "RESOURCE_INACTIVE"
	CodeItemRequired            RejectionCode = "ITEM_REQUIRED"
	CodeNoAvailableItems        RejectionCode = "NO_AVAILABLE_ITEMS"
	CodeItemAlreadyAssigned     RejectionCode = "ITEM_ALREADY_ASSIGNED"
	CodeItemNotAvailable        RejectionCode = "ITEM_NOT_AVAILABLE"
	CodeAlreadyAssigned         RejectionCode = "ALREADY_ASSIGNED"
	CodeCapacityReached         RejectionCode = "CAPACITY_REACHED"
	CodeInvalidStatusTransition RejectionCode = "INVALID_STATUS_TRANSITION"
	CodeMixedAllocation         RejectionCode = "MIXED_ALLOCATION"
	CodeInvalidQuantity         RejectionCode = "INVALID_QUANTITY"
)

// Rejection is a structured refusal. It is an error so it can travel through
// ordinary error returns, but callers are expected to unwrap it and map the
// code rather than show the raw message.
type Rejection struct {
	Code    RejectionCode
	Message string
	Details map[string]any
}

func (r *Rejection) Error() string {
	return fmt.Sprintf("%s: %s", r.Code, r.Message)
}

// Reject builds a rejection with no diagnostic fields.
func Reject(code RejectionCode, message string) *Rejection {
	return &Rejection{Code: code, Message: message}
}

// RejectWithDetails attaches diagnostic fields such as current assignment
// count and max capacity.
func RejectWithDetails(code RejectionCode, message string, details map[string]any) *Rejection {
	return &Rejection{Code: code, Message: message, Details: details}
}

// AsRejection extracts a Rejection from an error chain.
func AsRejection(err error) (*Rejection, bool) {
	if err == nil {
		return nil, false
	}
	for {
		if rej, ok := err.(*Rejection); ok {
			return rej, true
		}
		type unwrapper interface{ Unwrap() error }
		u, ok := err.(unwrapper)
		if !ok {
			return nil, false
		}
		err = u.Unwrap()
		if err == nil {
			return nil, false
		}
	}
}

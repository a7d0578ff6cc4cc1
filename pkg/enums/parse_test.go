package enums

import "testing"

func TestParseAcceptsAnyCase(t *testing.T) {
	t.Parallel()

	if mode, err := ParseAllocationMode("EXCLUSIVE"); err != nil || mode != AllocationModeExclusive {
		t.Fatalf("ParseAllocationMode(EXCLUSIVE) = %v, %v", mode, err)
	}
	if category, err := ParseAssignmentCategory("Pooled"); err != nil || category != AssignmentCategoryPooled {
		t.Fatalf("ParseAssignmentCategory(Pooled) = %v, %v", category, err)
	}
	if status, err := ParseAssignmentStatus("returned"); err != nil || status != AssignmentStatusReturned {
		t.Fatalf("ParseAssignmentStatus(returned) = %v, %v", status, err)
	}
	if role, err := ParseEmployeeRole("ADMIN"); err != nil || role != EmployeeRoleAdmin {
		t.Fatalf("ParseEmployeeRole(ADMIN) = %v, %v", role, err)
	}
}

func TestStringReturnsCanonicalForm(t *testing.T) {
	t.Parallel()

	stringers := map[string]string{
		EmployeeRoleManager.String():    "manager",
		EmployeeStatusInactive.String(): "inactive",
		EventAssignmentCreated.String(): "assignment_created",
		AggregateAssignment.String():    "assignment",
		AssignmentStatusLost.String():   "lost",
	}
	for got, want := range stringers {
		if got != want {
			t.Fatalf("String() = %q, want %q", got, want)
		}
	}
}

func TestParseRejectsUnknownValues(t *testing.T) {
	t.Parallel()

	if _, err := ParseAllocationMode("timeshare"); err == nil {
		t.Fatal("expected error for unknown allocation mode")
	}
	if _, err := ParseEmployeeRole("ceo"); err == nil {
		t.Fatal("expected error for unknown role")
	}
	if _, err := ParseAssignmentStatus(""); err == nil {
		t.Fatal("expected error for empty status")
	}
}

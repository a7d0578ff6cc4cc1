package allocation

import (
	"testing"

	"github.com/jvaldezcruz/assetdesk-backend/pkg/enums"
)

func TestValidateTransitionAllowed(t *testing.T) {
	allowed := [][2]enums.AssignmentStatus{
		{enums.AssignmentStatusActive, enums.AssignmentStatusReturned},
		{enums.AssignmentStatusActive, enums.AssignmentStatusLost},
		{enums.AssignmentStatusActive, enums.AssignmentStatusDamaged},
		{enums.AssignmentStatusDamaged, enums.AssignmentStatusReturned},
	}
	for _, pair := range allowed {
		if rej := ValidateTransition(pair[0], pair[1]); rej != nil {
			t.Errorf("transition %s -> %s rejected: %v", pair[0], pair[1], rej)
		}
	}
}

func TestValidateTransitionTerminalStates(t *testing.T) {
	targets := []enums.AssignmentStatus{
		enums.AssignmentStatusActive,
		enums.AssignmentStatusReturned,
		enums.AssignmentStatusLost,
		enums.AssignmentStatusDamaged,
	}
	for _, to := range targets {
		if rej := ValidateTransition(enums.AssignmentStatusReturned, to); rej == nil {
			t.Errorf("returned -> %s should be rejected", to)
		} else if rej.Code != CodeInvalidStatusTransition {
			t.Errorf("returned -> %s code = %s", to, rej.Code)
		}
		if rej := ValidateTransition(enums.AssignmentStatusLost, to); rej == nil {
			t.Errorf("lost -> %s should be rejected", to)
		}
	}
}

func TestValidateTransitionDamagedCannotBeLost(t *testing.T) {
	if rej := ValidateTransition(enums.AssignmentStatusDamaged, enums.AssignmentStatusLost); rej == nil {
		t.Fatal("damaged -> lost should be rejected")
	}
}

func TestMirrorItemStatus(t *testing.T) {
	cases := map[enums.AssignmentStatus]enums.ItemStatus{
		enums.AssignmentStatusReturned: enums.ItemStatusAvailable,
		enums.AssignmentStatusLost:     enums.ItemStatusLost,
		enums.AssignmentStatusDamaged:  enums.ItemStatusDamaged,
	}
	for to, want := range cases {
		got, ok := MirrorItemStatus(to)
		if !ok || got != want {
			t.Errorf("MirrorItemStatus(%s) = %s,%v, want %s", to, got, ok, want)
		}
	}
	if _, ok := MirrorItemStatus(enums.AssignmentStatusActive); ok {
		t.Fatal("active should not mirror")
	}
}

package world

import (
	"errors"
	"strings"
	"testing"
)

func TestParseUnitType(t *testing.T) {
	tests := []struct {
		in      string
		want    UnitType
		wantErr bool
	}{
		{in: "King", want: UnitKing},
		{in: "king", want: UnitKing},
		{in: " GENERAL ", want: UnitGeneral},
		{in: "Peasant", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseUnitType(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidUnitType) {
					t.Errorf("expected ErrInvalidUnitType, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestParseUnitStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    UnitStatus
		wantErr bool
	}{
		{in: "alive", want: StatusAlive},
		{in: "Alive", want: StatusAlive},
		{in: "DEAD", want: StatusDead},
		{in: "wounded", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseUnitStatus(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidStatus) {
					t.Errorf("expected ErrInvalidStatus, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestUnit_Mutators(t *testing.T) {
	m := newTestMap(t)
	capital, _ := m.Node("Capital")
	u, _ := m.NewUnit("Lancelot", UnitGeneral, capital, 60, "Camelot")

	t.Run("set status", func(t *testing.T) {
		if err := u.SetStatus(StatusDead); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if u.Status() != StatusDead {
			t.Errorf("expected Dead, got %q", u.Status())
		}
		if _, ok := m.FindUnit("Lancelot"); !ok {
			t.Error("expected dead unit to remain registered")
		}
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		if err := u.SetStatus(UnitStatus("alive")); !errors.Is(err, ErrInvalidStatus) {
			t.Errorf("expected ErrInvalidStatus, got %v", err)
		}
	})

	t.Run("current action", func(t *testing.T) {
		u.SetCurrentAction("marching")
		if u.CurrentAction() != "marching" {
			t.Errorf("expected 'marching', got %q", u.CurrentAction())
		}
		u.SetCurrentAction("")
		if u.CurrentAction() != "" {
			t.Errorf("expected empty action, got %q", u.CurrentAction())
		}
	})

	t.Run("string", func(t *testing.T) {
		s := u.String()
		if !strings.Contains(s, "Lancelot") || !strings.Contains(s, "at Capital") {
			t.Errorf("unexpected String(): %q", s)
		}
	})

	t.Run("unowned unit does not lock", func(t *testing.T) {
		loose, _ := m.NewUnit("Loose", UnitKing, nil, 1, "X")
		loose.SetCurrentAction("idle")
		if !strings.Contains(loose.String(), "unplaced") {
			t.Errorf("expected unplaced in String(), got %q", loose.String())
		}
	})
}

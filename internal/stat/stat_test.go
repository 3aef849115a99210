package stat

import (
	"testing"

	apperrors "creaturelab/internal/platform/errors"
)

var manaBounds = Bounds{Floor: 0, Ceiling: 50}

func mustNew(t *testing.T, initial int, b Bounds) Value {
	t.Helper()
	v, err := New("mana", initial, b)
	if err != nil {
		t.Fatalf("new stat: %v", err)
	}
	return v
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		initial int
		bounds  Bounds
		wantErr bool
	}{
		{"floor", 0, manaBounds, false},
		{"ceiling", 50, manaBounds, false},
		{"below floor", -1, manaBounds, true},
		{"above ceiling", 51, manaBounds, true},
		{"zero below raised floor", 0, Bounds{Floor: 5, Ceiling: 30}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New("mana", tt.initial, tt.bounds)
			if tt.wantErr {
				if apperrors.CodeOf(err) != apperrors.CodeStatOutOfRange {
					t.Fatalf("expected out of range error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestRestoreAllowsEmptyBelowFloor(t *testing.T) {
	v, err := Restore("rage", 0, Bounds{Floor: 5, Ceiling: 30})
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if v.Current() != 0 {
		t.Fatalf("expected empty stat, got %d", v.Current())
	}
	if _, err := Restore("rage", 31, Bounds{Floor: 5, Ceiling: 30}); err == nil {
		t.Fatal("expected error above ceiling")
	}
}

func TestIncreaseSaturatesAtCeiling(t *testing.T) {
	tests := []struct {
		name    string
		initial int
		amount  int
		want    int
	}{
		{"within range", 10, 5, 15},
		{"overflow clamps", 45, 20, 50},
		{"idempotent at ceiling", 50, 10, 50},
		{"zero amount", 7, 0, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := mustNew(t, tt.initial, manaBounds)
			if err := v.Increase(tt.amount); err != nil {
				t.Fatalf("increase: %v", err)
			}
			if v.Current() != tt.want {
				t.Errorf("Increase(%d) from %d = %d, want %d", tt.amount, tt.initial, v.Current(), tt.want)
			}
		})
	}
}

func TestDecreaseSaturatesAtZero(t *testing.T) {
	v, err := New("rage", 10, Bounds{Floor: 5, Ceiling: 30})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := v.Decrease(7); err != nil {
		t.Fatalf("decrease: %v", err)
	}
	if v.Current() != 3 {
		t.Fatalf("expected 3, got %d", v.Current())
	}
	if err := v.Decrease(100); err != nil {
		t.Fatalf("decrease: %v", err)
	}
	if v.Current() != 0 {
		t.Fatalf("expected 0, got %d", v.Current())
	}
}

func TestNegativeAmountsRejected(t *testing.T) {
	v := mustNew(t, 10, manaBounds)
	ops := map[string]func(int) error{
		"increase": v.Increase,
		"decrease": v.Decrease,
		"spend":    v.Spend,
	}
	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			err := op(-1)
			if apperrors.CodeOf(err) != apperrors.CodeNegativeAmount {
				t.Fatalf("expected negative amount error, got %v", err)
			}
			if v.Current() != 10 {
				t.Fatalf("stat changed to %d", v.Current())
			}
		})
	}
}

func TestSpend(t *testing.T) {
	v := mustNew(t, 7, manaBounds)
	if err := v.Spend(5); err != nil {
		t.Fatalf("spend: %v", err)
	}
	if v.Current() != 2 {
		t.Fatalf("expected 2, got %d", v.Current())
	}

	err := v.Spend(5)
	if apperrors.KindOf(err) != apperrors.KindInsufficientResource {
		t.Fatalf("expected insufficient resource, got %v", err)
	}
	if v.Current() != 2 {
		t.Fatalf("failed spend changed stat to %d", v.Current())
	}
}

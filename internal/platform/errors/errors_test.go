package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestIsMatchesByCode(t *testing.T) {
	err := New(CodeElfLowMana, "mana is too low to cast spell [0]")
	wrapped := fmt.Errorf("cast spell: %w", err)

	if !stderrors.Is(wrapped, New(CodeElfLowMana, "")) {
		t.Fatal("expected wrapped error to match by code")
	}
	if stderrors.Is(wrapped, New(CodeDragonLowFirePower, "")) {
		t.Fatal("expected different code not to match")
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"validation", New(CodeCreatureEmptyName, "x"), KindValidation},
		{"resource", New(CodeDragonLowFirePower, "x"), KindInsufficientResource},
		{"rage", New(CodeOrcLowRage, "x"), KindRageState},
		{"not found", fmt.Errorf("get: %w", New(CodeNotFound, "x")), KindNotFound},
		{"plain error", stderrors.New("boom"), KindUnknown},
		{"nil", nil, KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf(%v) = %q, want %q", tt.err, got, tt.want)
			}
		})
	}
}

func TestWrapUnwraps(t *testing.T) {
	cause := stderrors.New("disk full")
	err := Wrap(CodeUnknown, "save creature", cause)
	if !stderrors.Is(err, cause) {
		t.Fatal("expected cause in chain")
	}
}

func TestMessageOmitsCause(t *testing.T) {
	err := Wrap(CodeActionInvalid, "invalid request body", stderrors.New("unexpected EOF"))
	if err.Error() != "invalid request body" {
		t.Fatalf("unexpected message %q", err.Error())
	}

	meta := WithMetadata(CodeInsufficientResource, "mana too low [2]", map[string]string{"stat": "mana"})
	if meta.Metadata["stat"] != "mana" || meta.Kind() != KindInsufficientResource {
		t.Fatalf("unexpected error %+v", meta)
	}
}

func TestKindHTTPStatus(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{KindValidation, http.StatusBadRequest},
		{KindInsufficientResource, http.StatusConflict},
		{KindRageState, http.StatusConflict},
		{KindNotFound, http.StatusNotFound},
		{KindUnknown, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := tt.kind.HTTPStatus(); got != tt.want {
			t.Errorf("%q.HTTPStatus() = %d, want %d", tt.kind, got, tt.want)
		}
	}
}

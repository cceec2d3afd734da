package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"testing"

	"github.com/matzehuels/antnest/pkg/archive"
	"github.com/matzehuels/antnest/pkg/colony"
	"github.com/matzehuels/antnest/pkg/nest"
)

func TestClassify(t *testing.T) {
	_, statErr := os.Stat("/does/not/exist")

	tests := []struct {
		name string
		err  error
		want Code
	}{
		{"disconnected", fmt.Errorf("build: %w", nest.ErrDisconnected), ErrCodeDisconnected},
		{"too many agents", fmt.Errorf("%w: 2000000", nest.ErrTooManyAgents), ErrCodeInvalidNest},
		{"missing source", nest.ErrMissingSource, ErrCodeMissingSource},
		{"capacity", fmt.Errorf("room A: %w", nest.ErrInvalidCapacity), ErrCodeInvalidCapacity},
		{"unknown room", nest.ErrUnknownNode, ErrCodeInvalidNest},
		{"invariant", colony.ErrInvariant, ErrCodeInvariant},
		{"run", archive.ErrNotFound, ErrCodeNotFound},
		{"file", statErr, ErrCodeFileNotFound},
		{"deadline", context.DeadlineExceeded, ErrCodeTimeout},
		{"coded", New(ErrCodeUnsupported, "nope"), ErrCodeUnsupported},
		{"plain", errors.New("boom"), ErrCodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err)
			if got.Code != tt.want {
				t.Errorf("Classify().Code = %v, want %v", got.Code, tt.want)
			}
			if !errors.Is(got, tt.err) && got != tt.err {
				t.Error("Classify() should keep the original error in the chain")
			}
		})
	}

	if Classify(nil) != nil {
		t.Error("Classify(nil) should be nil")
	}
}

func TestClassifyKeepsMessage(t *testing.T) {
	err := fmt.Errorf("room X: %w", nest.ErrInvalidCapacity)
	if got := UserMessage(Classify(err)); got != err.Error() {
		t.Errorf("UserMessage() = %q, want %q", got, err.Error())
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{ErrCodeInvalidInput, http.StatusBadRequest},
		{ErrCodeDisconnected, http.StatusUnprocessableEntity},
		{ErrCodeInvalidNest, http.StatusUnprocessableEntity},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeBackend, http.StatusServiceUnavailable},
		{ErrCodeInvariant, http.StatusInternalServerError},
		{"", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := HTTPStatus(tt.code); got != tt.want {
			t.Errorf("HTTPStatus(%q) = %d, want %d", tt.code, got, tt.want)
		}
	}
}

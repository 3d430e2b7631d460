package services_test

import (
	"errors"
	"testing"

	"crate/internal/services"
)

func TestWrapTagsMarker(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrIntegrity, "catalog", "merge", "loser missing", base)
	if !errors.Is(err, services.ErrIntegrity) {
		t.Fatalf("expected integrity marker, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
}

func TestWrapDefaultsToTransient(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
	if err.Error() != "transient failure: service failure" {
		t.Fatalf("unexpected message: %s", err.Error())
	}
}

func TestIsHard(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"integrity", services.Wrap(services.ErrIntegrity, "catalog", "merge", "", nil), true},
		{"validation", services.Wrap(services.ErrValidation, "dedup", "scan", "", nil), true},
		{"not found", services.Wrap(services.ErrNotFound, "fetch", "search", "", nil), false},
		{"transient", services.Wrap(services.ErrTransient, "fetch", "search", "", nil), false},
		{"nil", nil, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := services.IsHard(tc.err); got != tc.want {
				t.Fatalf("IsHard(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}

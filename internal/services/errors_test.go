package services_test

import (
	"errors"
	"strings"
	"testing"

	"reposter/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternal, "RepublishPosts", "post status", "failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrExternal) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"RepublishPosts", "post status", "failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsMarker(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected fallback detail, got %q", err.Error())
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{services.Wrap(services.ErrValidation, "s", "op", "bad", nil), "validation"},
		{services.Wrap(services.ErrConfiguration, "s", "op", "bad", nil), "configuration"},
		{services.Wrap(services.ErrNotFound, "s", "op", "missing", nil), "not_found"},
		{services.Wrap(services.ErrExternal, "s", "op", "remote", nil), "external"},
		{services.Wrap(services.ErrTransient, "s", "op", "retry", nil), "transient"},
		{errors.New("plain"), "unclassified"},
	}
	for _, tc := range cases {
		if got := services.Classify(tc.err); got != tc.want {
			t.Errorf("Classify(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}

package services

import (
	"context"
	"errors"
	"testing"
)

func TestWrapTagsMarker(t *testing.T) {
	base := errors.New("boom")
	err := Wrap(ErrExternalTool, "captioning", "describe frame", "frame 12", base)
	if !errors.Is(err, ErrExternalTool) {
		t.Fatalf("expected ErrExternalTool marker, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped base error, got %v", err)
	}
	want := "external tool error: captioning: describe frame: frame 12: boom"
	if err.Error() != want {
		t.Errorf("error = %q, want %q", err.Error(), want)
	}
}

func TestWrapNilMarkerDefaultsToTransient(t *testing.T) {
	err := Wrap(nil, "stage", "", "", nil)
	if !errors.Is(err, ErrTransient) {
		t.Fatalf("expected ErrTransient, got %v", err)
	}
}

func TestWrapEmptyDetail(t *testing.T) {
	err := Wrap(ErrInput, "", "", "", nil)
	want := "input error: service failure"
	if err.Error() != want {
		t.Errorf("error = %q, want %q", err.Error(), want)
	}
}

func TestRecoverable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"configuration", Wrap(ErrConfiguration, "match", "setup", "", nil), false},
		{"validation", Wrap(ErrValidation, "plan", "check", "", nil), false},
		{"input", Wrap(ErrInput, "timeline", "build", "", nil), false},
		{"external tool", Wrap(ErrExternalTool, "video", "sample", "", nil), true},
		{"transient", Wrap(ErrTransient, "vision", "describe", "", nil), true},
		{"not found", Wrap(ErrNotFound, "plan", "open", "", nil), true},
		{"plain error", errors.New("boom"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Recoverable(tt.err); got != tt.want {
				t.Errorf("Recoverable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestContextAnnotations(t *testing.T) {
	ctx := WithRunID(context.Background(), "run-123")
	ctx = WithStage(ctx, "matching")
	ctx = WithSource(ctx, "video.webm")

	if id, ok := RunIDFromContext(ctx); !ok || id != "run-123" {
		t.Errorf("RunIDFromContext = %q, %v", id, ok)
	}
	if stage, ok := StageFromContext(ctx); !ok || stage != "matching" {
		t.Errorf("StageFromContext = %q, %v", stage, ok)
	}
	if src, ok := SourceFromContext(ctx); !ok || src != "video.webm" {
		t.Errorf("SourceFromContext = %q, %v", src, ok)
	}
}

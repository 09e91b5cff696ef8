package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		spec    string
		wantErr bool
	}{
		{spec: "0 0 * * *"},
		{spec: "0 0 0 * * ?"},
		{spec: "*/5 * * * *"},
		{spec: "@daily"},
		{spec: "@every 1h"},
		{spec: "", wantErr: true},
		{spec: "61 * * * *", wantErr: true},
		{spec: "every day", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			t.Parallel()
			err := Validate(tt.spec)
			if tt.wantErr && err == nil {
				t.Errorf("expected error for %q", tt.spec)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error for %q: %v", tt.spec, err)
			}
		})
	}
}

func TestNext(t *testing.T) {
	t.Parallel()

	from := time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)
	got, err := Next("0 0 * * *", from)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	if _, err := Next("bad", from); err == nil {
		t.Error("expected error for invalid expression")
	}
}

func TestScheduler(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("run without jobs fails", func(t *testing.T) {
		t.Parallel()
		err := New(logger).Run(context.Background())
		if !errors.Is(err, ErrNoJobs) {
			t.Errorf("expected ErrNoJobs, got %v", err)
		}
	})

	t.Run("add rejects invalid expression", func(t *testing.T) {
		t.Parallel()
		if err := New(logger).Add("crawl", "nope", func(context.Context) {}); err == nil {
			t.Error("expected error for invalid expression")
		}
	})

	t.Run("runs job until context is cancelled", func(t *testing.T) {
		t.Parallel()
		s := New(logger)
		var runs atomic.Int32
		if err := s.Add("crawl", "@every 1s", func(context.Context) { runs.Add(1) }); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 2500*time.Millisecond)
		defer cancel()
		if err := s.Run(ctx); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if runs.Load() < 1 {
			t.Errorf("expected at least one run, got %d", runs.Load())
		}
	})
}

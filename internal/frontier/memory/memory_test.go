package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/nao1215/linkspider/internal/frontier"
	"github.com/nao1215/linkspider/internal/frontier/frontiertest"
	"github.com/nao1215/linkspider/internal/model"
)

func TestStoreConformance(t *testing.T) {
	t.Parallel()

	frontiertest.Run(t, func(_ *testing.T) frontier.Store {
		return New()
	})
}

func TestStoreFoldsUnicodeCase(t *testing.T) {
	t.Parallel()

	s := New()
	ctx := context.Background()
	if err := s.Save(ctx, model.NewPendingPage("http://example.com/STRASSE")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := s.Exists(ctx, "http://example.com/straße")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got {
		t.Error("expected case folding to match ß with SS")
	}
}

func TestStoreClosed(t *testing.T) {
	t.Parallel()

	s := New()
	if err := s.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx := context.Background()
	if _, err := s.Exists(ctx, "http://example.com"); !errors.Is(err, frontier.ErrStoreClosed) {
		t.Errorf("expected ErrStoreClosed, got %v", err)
	}
	if err := s.Save(ctx, model.NewPendingPage("http://example.com")); !errors.Is(err, frontier.ErrStoreClosed) {
		t.Errorf("expected ErrStoreClosed, got %v", err)
	}
	if _, err := s.PickOneAndLock(ctx); !errors.Is(err, frontier.ErrStoreClosed) {
		t.Errorf("expected ErrStoreClosed, got %v", err)
	}
}

package lockfile

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func TestSecondAcquireFailsFast(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "submit.lock")
	first := New(path)
	if err := first.Acquire(context.Background(), false); err != nil {
		t.Fatalf("first Acquire returned error: %v", err)
	}
	defer first.Release()

	second := New(path)
	if err := second.Acquire(context.Background(), false); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}
}

func TestWaitAcquiresAfterRelease(t *testing.T) {
	path := filepath.Join(t.TempDir(), "submit.lock")
	first := New(path)
	if err := first.Acquire(context.Background(), false); err != nil {
		t.Fatalf("first Acquire returned error: %v", err)
	}

	go func() {
		time.Sleep(50 * time.Millisecond)
		_ = first.Release()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	second := New(path)
	if err := second.Acquire(ctx, true); err != nil {
		t.Fatalf("waiting Acquire returned error: %v", err)
	}
	if err := second.Release(); err != nil {
		t.Fatalf("Release returned error: %v", err)
	}
}

func TestWaitHonorsContext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "submit.lock")
	first := New(path)
	if err := first.Acquire(context.Background(), false); err != nil {
		t.Fatalf("first Acquire returned error: %v", err)
	}
	defer first.Release()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	if err := New(path).Acquire(ctx, true); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestReleaseUnheldIsNoop(t *testing.T) {
	if err := New(filepath.Join(t.TempDir(), "x.lock")).Release(); err != nil {
		t.Fatalf("Release returned error: %v", err)
	}
}

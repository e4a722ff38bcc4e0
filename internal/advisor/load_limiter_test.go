package advisor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/JonMunkholm/advisor/internal/catalog"
	"github.com/JonMunkholm/advisor/internal/source"
)

func TestLoadLimiter_AcquireRelease(t *testing.T) {
	limiter := NewLoadLimiter(2, time.Second)
	ctx := context.Background()

	if got := limiter.MaxConcurrent(); got != 2 {
		t.Errorf("MaxConcurrent() = %d, want 2", got)
	}

	for i := 0; i < 2; i++ {
		if err := limiter.Acquire(ctx); err != nil {
			t.Fatalf("Acquire #%d failed: %v", i+1, err)
		}
	}
	if got := limiter.Active(); got != 2 {
		t.Errorf("Active() = %d, want 2", got)
	}

	limiter.Release()
	limiter.Release()
	if got := limiter.Active(); got != 0 {
		t.Errorf("Active() after release = %d, want 0", got)
	}
}

func TestLoadLimiter_RejectsWhenFull(t *testing.T) {
	limiter := NewLoadLimiter(1, 50*time.Millisecond)
	ctx := context.Background()

	if err := limiter.Acquire(ctx); err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	defer limiter.Release()

	if err := limiter.Acquire(ctx); !errors.Is(err, ErrTooManyLoads) {
		t.Errorf("Acquire() on full limiter = %v, want ErrTooManyLoads", err)
	}
}

func TestLoadLimiter_ContextCancelled(t *testing.T) {
	limiter := NewLoadLimiter(1, time.Minute)
	if err := limiter.Acquire(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer limiter.Release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := limiter.Acquire(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Acquire() with cancelled context = %v, want context.Canceled", err)
	}
}

func TestLoadLimiter_WaitForDrain(t *testing.T) {
	limiter := NewLoadLimiter(2, time.Second)
	if err := limiter.Acquire(context.Background()); err != nil {
		t.Fatal(err)
	}

	done := make(chan error, 1)
	go func() {
		done <- limiter.WaitForDrain(context.Background())
	}()

	select {
	case err := <-done:
		t.Fatalf("WaitForDrain returned early: %v", err)
	case <-time.After(20 * time.Millisecond):
	}

	limiter.Release()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("WaitForDrain() = %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("WaitForDrain did not return after release")
	}

	// Slots are usable again once drained.
	if err := limiter.Acquire(context.Background()); err != nil {
		t.Errorf("Acquire after drain = %v", err)
	}
}

func TestLoadLimiter_Defaults(t *testing.T) {
	limiter := NewLoadLimiter(0, 0)
	if limiter.MaxConcurrent() != DefaultMaxConcurrentLoads || limiter.maxWait != DefaultLoadWait {
		t.Errorf("defaults = %d, %v", limiter.MaxConcurrent(), limiter.maxWait)
	}
}

// blockingSource holds Read open until release is closed.
type blockingSource struct {
	started chan struct{}
	release chan struct{}
}

func (s *blockingSource) Name() string { return "blocking" }

func (s *blockingSource) Read(ctx context.Context) (*source.Batch, error) {
	close(s.started)
	<-s.release
	return &source.Batch{Courses: []catalog.Course{{ID: "CS100", Title: "Intro"}}}, nil
}

func TestService_LoadLimited(t *testing.T) {
	svc := NewService(Options{Limiter: NewLoadLimiter(1, 20*time.Millisecond)})

	slow := &blockingSource{started: make(chan struct{}), release: make(chan struct{})}
	done := make(chan error, 1)
	go func() {
		_, err := svc.Load(context.Background(), slow)
		done <- err
	}()
	<-slow.started

	_, err := svc.Load(context.Background(), &stubSource{batch: &source.Batch{}})
	if !errors.Is(err, ErrTooManyLoads) {
		t.Errorf("concurrent Load() = %v, want ErrTooManyLoads", err)
	}

	close(slow.release)
	if err := <-done; err != nil {
		t.Fatalf("slow Load() = %v", err)
	}
	if err := svc.WaitForLoads(context.Background()); err != nil {
		t.Errorf("WaitForLoads() = %v", err)
	}
	if svc.Len() != 1 {
		t.Errorf("Len() = %d, want 1", svc.Len())
	}
}

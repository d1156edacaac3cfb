package portal

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestWorkflowSingleSubmission(t *testing.T) {
	w := NewWorkflow(nil)
	started := make(chan struct{})
	release := make(chan struct{})

	done := make(chan error, 1)
	go func() {
		done <- w.Submit(context.Background(), Mutation{Run: func(context.Context) error {
			close(started)
			<-release
			return nil
		}})
	}()
	<-started

	if !w.Submitting() {
		t.Error("Submitting() = false during a mutation")
	}
	called := false
	err := w.Submit(context.Background(), Mutation{Run: func(context.Context) error {
		called = true
		return nil
	}})
	if !errors.Is(err, ErrSubmitting) || called {
		t.Fatalf("second Submit = %v, called %v", err, called)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first Submit = %v", err)
	}
	if w.Submitting() {
		t.Error("Submitting() stuck after completion")
	}
}

func TestWorkflowBanners(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC)}
	refetches := 0
	w := NewWorkflow(func(context.Context) error {
		refetches++
		return nil
	}, WithClock(clock.Now))
	ctx := context.Background()

	if err := w.Submit(ctx, CreateComplaint.Mutation(func(context.Context) error { return nil })); err != nil {
		t.Fatal(err)
	}
	if b := w.Banner(); b.Kind != BannerSuccess || b.Message != CreateComplaint.Success {
		t.Fatalf("banner = %+v", b)
	}
	if refetches != 1 {
		t.Errorf("refetches = %d", refetches)
	}

	clock.Advance(BannerDuration - time.Millisecond)
	if w.Banner().Kind != BannerSuccess {
		t.Error("success banner cleared early")
	}
	clock.Advance(time.Millisecond)
	if b := w.Banner(); b.Kind != BannerNone {
		t.Errorf("success banner still shown after %v: %+v", BannerDuration, b)
	}

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"server message", &APIError{Status: 409, Message: "Une demande en attente existe déjà."}, "Une demande en attente existe déjà."},
		{"server without message", &APIError{Status: 500}, CreateRequest.Fallback},
		{"transport", errors.New("connection refused"), CreateRequest.Fallback},
		{"validation", invalid("montant", "Le montant doit être un nombre positif."), "Le montant doit être un nombre positif."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := w.Submit(ctx, CreateRequest.Mutation(func(context.Context) error { return tt.err }))
			if !errors.Is(err, tt.err) {
				t.Fatalf("Submit = %v", err)
			}
			clock.Advance(time.Minute)
			if b := w.Banner(); b.Kind != BannerError || b.Message != tt.want {
				t.Errorf("banner = %+v, want %q", b, tt.want)
			}
		})
	}
	if refetches != 1 {
		t.Errorf("failed submissions refetched: %d", refetches)
	}
}

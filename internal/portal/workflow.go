package portal

import (
	"context"
	"sync"
	"time"
)

// BannerDuration is how long a success banner stays visible.
const BannerDuration = 3 * time.Second

// BannerKind tells success and failure banners apart.
type BannerKind int

const (
	BannerNone BannerKind = iota
	BannerSuccess
	BannerError
)

// Banner is the message shown above a form.
type Banner struct {
	Kind    BannerKind
	Message string
	shownAt time.Time
}

// Mutation is one submission of a form.
type Mutation struct {
	// Run validates the form and sends it. A *ValidationError aborts before
	// the network is reached.
	Run func(ctx context.Context) error
	// Success is shown when Run succeeds.
	Success string
	// Fallback is shown when Run fails without a server message.
	Fallback string
}

// Workflow serializes the mutations of one form: at most one is in flight,
// successes trigger a refetch, failures keep the form as it is.
type Workflow struct {
	refetch func(context.Context) error
	now     func() time.Time

	mu         sync.Mutex
	submitting bool
	banner     Banner
}

// WorkflowOption configures a Workflow.
type WorkflowOption func(*Workflow)

// WithClock replaces time.Now, for banner expiry.
func WithClock(now func() time.Time) WorkflowOption {
	return func(w *Workflow) { w.now = now }
}

// NewWorkflow creates a workflow calling refetch after every success.
// refetch may be nil.
func NewWorkflow(refetch func(context.Context) error, opts ...WorkflowOption) *Workflow {
	w := &Workflow{refetch: refetch, now: time.Now}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Submit runs m unless another mutation is in flight, in which case it
// returns ErrSubmitting without calling m.Run.
func (w *Workflow) Submit(ctx context.Context, m Mutation) error {
	w.mu.Lock()
	if w.submitting {
		w.mu.Unlock()
		return ErrSubmitting
	}
	w.submitting = true
	w.banner = Banner{}
	w.mu.Unlock()

	err := m.Run(ctx)

	w.mu.Lock()
	w.submitting = false
	if err != nil {
		w.banner = Banner{Kind: BannerError, Message: UserMessage(err, m.Fallback), shownAt: w.now()}
		w.mu.Unlock()
		return err
	}
	w.banner = Banner{Kind: BannerSuccess, Message: m.Success, shownAt: w.now()}
	w.mu.Unlock()

	if w.refetch != nil {
		// A failed refetch shows on the collection, not on the form.
		_ = w.refetch(ctx)
	}
	return nil
}

// Submitting reports whether a mutation is in flight.
func (w *Workflow) Submitting() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.submitting
}

// Banner returns the current banner. Success banners expire after
// BannerDuration; error banners stay until the next submission.
func (w *Workflow) Banner() Banner {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.banner.Kind == BannerSuccess && w.now().Sub(w.banner.shownAt) >= BannerDuration {
		w.banner = Banner{}
	}
	return w.banner
}

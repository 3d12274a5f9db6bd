package screen

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/Veraticus/hyperclaw/internal/common"
	"github.com/Veraticus/hyperclaw/internal/model"
	"github.com/Veraticus/hyperclaw/internal/review"
	"github.com/Veraticus/hyperclaw/internal/service"
	"github.com/Veraticus/hyperclaw/internal/syncer"
)

// DefaultReviewTags are the quick tags offered on every card.
var DefaultReviewTags = []string{
	"low-volume rally",
	"support breakout",
	"chased the top",
	"counter-trend dip buy",
}

// ReviewState is the review page snapshot: the latest polled fills.
type ReviewState struct {
	Fills []model.Fill
}

// Review runs review sessions over polled fills. The session queue is
// captured from the first successful load; later polls only count fills
// that arrived since.
type Review struct {
	*syncer.Engine[ReviewState]
	backend   service.Backend
	session   *review.Session
	tags      []string
	threshold float64
	newFills  int
	mu        sync.Mutex
}

// ReviewOption configures the review screen.
type ReviewOption func(*Review)

// WithTags sets the quick tags.
func WithTags(tags []string) ReviewOption {
	return func(r *Review) {
		if len(tags) > 0 {
			r.tags = slices.Clone(tags)
		}
	}
}

// WithSwipeThreshold sets the gesture dead zone of every session.
func WithSwipeThreshold(threshold float64) ReviewOption {
	return func(r *Review) {
		r.threshold = threshold
	}
}

// NewReview creates the review screen. limit bounds each fill poll.
func NewReview(backend service.Backend, interval time.Duration, limit int, opts ...ReviewOption) *Review {
	load := func(ctx context.Context) (ReviewState, error) {
		fills, err := backend.Fills(ctx, limit)
		if err != nil {
			return ReviewState{}, err
		}
		return ReviewState{Fills: fills}, nil
	}

	r := &Review{
		Engine:    syncer.New(NameReview, load, ReviewState{}, syncer.WithInterval(interval)),
		backend:   backend,
		tags:      slices.Clone(DefaultReviewTags),
		threshold: review.DefaultSwipeThreshold,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.OnChange(r.absorb)
	return r
}

func (r *Review) absorb(st ReviewState) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.session == nil {
		r.session = review.NewSession(st.Fills, r.backend, review.WithThreshold(r.threshold))
		return
	}

	n := 0
	for _, f := range st.Fills {
		if !r.session.Contains(f.ID) {
			n++
		}
	}
	r.newFills = n
}

// Session returns the active session, or nil before the first load.
func (r *Review) Session() *review.Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.session
}

// Tags returns the quick tags.
func (r *Review) Tags() []string {
	return slices.Clone(r.tags)
}

// NewFills returns how many polled fills are not part of the session.
func (r *Review) NewFills() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.newFills
}

// Restart begins a new session over the polled fills that the current
// session did not contain. It is only allowed once the current session is
// exhausted.
func (r *Review) Restart() error {
	fills := r.Snapshot().Fills

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.session != nil {
		if !r.session.State().Exhausted {
			return common.ValidationError("finish the current fills first")
		}
		prev := r.session
		fills = slices.DeleteFunc(slices.Clone(fills), func(f model.Fill) bool {
			return prev.Contains(f.ID)
		})
	}
	r.session = review.NewSession(fills, r.backend, review.WithThreshold(r.threshold))
	r.newFills = 0
	return nil
}

// Submit dispatches a payload obtained from Session().BeginCommit. The
// caller settles the session with the result.
func (r *Review) Submit(ctx context.Context, payload model.ReviewVerdict) error {
	return r.backend.SubmitReview(ctx, payload)
}

// Settle resolves the in-flight dispatch and refreshes the fills on
// success.
func (r *Review) Settle(ctx context.Context, fillID int64, err error) {
	s := r.Session()
	if s == nil {
		return
	}
	s.Settle(fillID, err)
	if err == nil {
		_ = r.Load(ctx)
	}
}

// Commit dispatches v for the active fill and waits for the outcome.
func (r *Review) Commit(ctx context.Context, v model.Verdict) error {
	s := r.Session()
	if s == nil {
		return common.ErrSessionExhausted
	}
	if err := s.Commit(ctx, v); err != nil {
		return err
	}
	_ = r.Load(ctx)
	return nil
}

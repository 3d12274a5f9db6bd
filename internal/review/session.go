// Package review drives one linear pass over a fixed queue of fills. The
// cursor only advances once the verdict for the active fill has been
// accepted by the backend.
package review

import (
	"context"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/Veraticus/hyperclaw/internal/common"
	"github.com/Veraticus/hyperclaw/internal/metrics"
	"github.com/Veraticus/hyperclaw/internal/model"
	"github.com/Veraticus/hyperclaw/internal/service"
)

// DefaultSwipeThreshold is the horizontal dead zone of a swipe gesture.
const DefaultSwipeThreshold = 50.0

// FallbackMessage is shown when a failed dispatch carries no message.
const FallbackMessage = "review failed"

// State is the engine state: Reviewing(Cursor) or Exhausted.
type State struct {
	Cursor    int
	Exhausted bool
}

// Option configures a Session.
type Option func(*Session)

// WithThreshold sets the swipe dead zone. Non-positive values keep the
// default.
func WithThreshold(threshold float64) Option {
	return func(s *Session) {
		if threshold > 0 {
			s.threshold = threshold
		}
	}
}

// WithClock overrides time.Now for session statistics.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

// Session is one review pass.
type Session struct {
	started        time.Time
	submitter      service.ReviewSubmitter
	now            func() time.Time
	errMsg         string
	pendingVerdict model.Verdict
	fills          []model.Fill
	draft          model.ReviewDraft
	gesture        gesture
	stats          service.ReviewStats
	threshold      float64
	cursor         int
	pendingFill    int64
	mu             sync.Mutex
	pending        bool
}

type gesture struct {
	startX float64
	active bool
}

// NewSession starts a session over a copy of fills, in the given order.
func NewSession(fills []model.Fill, submitter service.ReviewSubmitter, opts ...Option) *Session {
	s := &Session{
		fills:     append([]model.Fill(nil), fills...),
		submitter: submitter,
		threshold: DefaultSwipeThreshold,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.started = s.now()
	s.stats.Total = len(s.fills)
	return s
}

func (s *Session) exhausted() bool {
	return s.cursor >= len(s.fills)
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{Cursor: s.cursor, Exhausted: s.exhausted()}
}

// Current returns the active fill; ok is false once exhausted.
func (s *Session) Current() (model.Fill, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.exhausted() {
		return model.Fill{}, false
	}
	return s.fills[s.cursor], true
}

// Len returns the queue length.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.fills)
}

// Remaining returns the number of fills without a verdict, active included.
func (s *Session) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.fills) - s.cursor
}

// Contains reports whether the queue holds a fill with id.
func (s *Session) Contains(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range s.fills {
		if f.ID == id {
			return true
		}
	}
	return false
}

// Draft returns a copy of the active fill's draft.
func (s *Session) Draft() model.ReviewDraft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft.Clone()
}

// Pending reports whether a verdict dispatch is in flight.
func (s *Session) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Err returns the last dispatch failure message, or "".
func (s *Session) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}

// Threshold returns the swipe dead zone.
func (s *Session) Threshold() float64 {
	return s.threshold
}

// ToggleTag adds or removes tag on the active draft.
func (s *Session) ToggleTag(tag string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.exhausted() {
		return common.ErrSessionExhausted
	}
	s.draft.Toggle(tag)
	return nil
}

// SetNote replaces the active draft's note.
func (s *Session) SetNote(note string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.exhausted() {
		return common.ErrSessionExhausted
	}
	s.draft.SetNote(note)
	return nil
}

// BeginCommit marks a dispatch for the active fill as in flight and returns
// its payload. Settle must follow with the dispatch outcome.
func (s *Session) BeginCommit(v model.Verdict) (model.ReviewVerdict, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.exhausted():
		return model.ReviewVerdict{}, common.ErrSessionExhausted
	case s.pending:
		return model.ReviewVerdict{}, common.ErrCommitPending
	case !v.Valid():
		return model.ReviewVerdict{}, common.ValidationError("verdict must be good or bad")
	}

	fill := s.fills[s.cursor]
	s.pending = true
	s.pendingFill = fill.ID
	s.pendingVerdict = v
	s.gesture = gesture{}
	return s.draft.Verdict(fill.ID, v), nil
}

// Settle resolves the in-flight dispatch for fillID. On success the draft
// is cleared and the cursor advances; on failure both are kept and the
// message is recorded. Outcomes for any other fill are ignored.
func (s *Session) Settle(fillID int64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.pending || fillID != s.pendingFill || s.exhausted() || s.fills[s.cursor].ID != fillID {
		slog.Debug("Ignoring stale review outcome", "fill_id", fillID)
		return
	}

	verdict := s.pendingVerdict
	s.pending = false
	s.pendingFill = 0
	s.pendingVerdict = ""
	metrics.ObserveReview(string(verdict), err)

	if err != nil {
		s.errMsg = common.UserMessage(err, FallbackMessage)
		s.stats.Failed++
		slog.Warn("Review dispatch failed",
			"fill_id", fillID,
			"verdict", verdict,
			"error", err)
		return
	}

	s.errMsg = ""
	s.draft.Reset()
	s.cursor++
	if verdict.IsPositive() {
		s.stats.Good++
	} else {
		s.stats.Bad++
	}
}

// Commit dispatches v for the active fill and waits for the outcome.
func (s *Session) Commit(ctx context.Context, v model.Verdict) error {
	payload, err := s.BeginCommit(v)
	if err != nil {
		return err
	}
	err = s.submitter.SubmitReview(ctx, payload)
	s.Settle(payload.FillID, err)
	return err
}

// BeginGesture samples the start column of a drag on the active card.
func (s *Session) BeginGesture(x float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending || s.exhausted() {
		return
	}
	s.gesture = gesture{startX: x, active: true}
}

// EndGesture samples the end of a drag. It returns a verdict when the drag
// started on an idle card and moved at least the threshold; the start
// sample is always cleared.
func (s *Session) EndGesture(x float64) (model.Verdict, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g := s.gesture
	s.gesture = gesture{}
	if !g.active || s.pending || s.exhausted() {
		return "", false
	}

	dx := x - g.startX
	if math.Abs(dx) < s.threshold {
		return "", false
	}
	return model.VerdictFromDelta(dx), true
}

// Stats summarizes the session so far.
func (s *Session) Stats() service.ReviewStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.stats
	out.Duration = s.now().Sub(s.started)
	return out
}

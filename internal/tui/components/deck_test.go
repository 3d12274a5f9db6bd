package components

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/hyperclaw/internal/model"
	"github.com/Veraticus/hyperclaw/internal/review"
	"github.com/Veraticus/hyperclaw/internal/service"
	tuitest "github.com/Veraticus/hyperclaw/internal/tui/testing"
	"github.com/Veraticus/hyperclaw/internal/tui/themes"
)

var testTags = []string{"breakout", "chased"}

func createTestFills(ids ...int64) []model.Fill {
	fills := make([]model.Fill, 0, len(ids))
	for _, id := range ids {
		fills = append(fills, model.Fill{
			ID:          id,
			Symbol:      "ETH",
			Side:        model.SideSell,
			Status:      "filled",
			Price:       decimal.NewFromInt(3200),
			Size:        decimal.RequireFromString("0.5"),
			RealizedPnL: decimal.RequireFromString("42.1"),
			CreatedAt:   time.Date(2026, 3, 4, 5, 6, 0, 0, time.UTC),
		})
	}
	return fills
}

func renderDeck(m ReviewDeckModel, s *review.Session, newFills int) string {
	return tuitest.StripANSI(m.View(s, testTags, newFills))
}

func TestReviewDeckModel_View(t *testing.T) {
	deck := NewReviewDeckModel(themes.Default)
	backend := service.NewMockBackend()

	tests := []struct {
		setup    func() *review.Session
		name     string
		want     []string
		absent   []string
		newFills int
	}{
		{
			name:  "loading",
			setup: func() *review.Session { return nil },
			want:  []string{"Loading fills..."},
		},
		{
			name:  "active card",
			setup: func() *review.Session { return review.NewSession(createTestFills(7, 8), backend) },
			want:  []string{"Fill 1 of 2", "ETH", "Sell", "#7", "3200", "+42.10", "1 [ ] breakout", "2 [ ] chased", "n to add a note"},
		},
		{
			name: "selected tag and note",
			setup: func() *review.Session {
				s := review.NewSession(createTestFills(7), backend)
				require.NoError(t, s.ToggleTag("chased"))
				require.NoError(t, s.SetNote("too late"))
				return s
			},
			want:   []string{"2 [x] chased", "Note: too late"},
			absent: []string{"n to add a note"},
		},
		{
			name: "pending",
			setup: func() *review.Session {
				s := review.NewSession(createTestFills(7), backend)
				_, err := s.BeginCommit(model.VerdictGood)
				require.NoError(t, err)
				return s
			},
			want: []string{"Submitting verdict..."},
		},
		{
			name: "failed dispatch",
			setup: func() *review.Session {
				s := review.NewSession(createTestFills(7), backend)
				_, err := s.BeginCommit(model.VerdictGood)
				require.NoError(t, err)
				s.Settle(7, errors.New("boom"))
				return s
			},
			want: []string{"review failed", "Fill 1 of 1"},
		},
		{
			name:     "new fills",
			setup:    func() *review.Session { return review.NewSession(createTestFills(7), backend) },
			newFills: 3,
			want:     []string{"3 new fills waiting"},
		},
		{
			name:  "empty",
			setup: func() *review.Session { return review.NewSession(nil, backend) },
			want:  []string{"No fills to review"},
		},
		{
			name: "exhausted",
			setup: func() *review.Session {
				s := review.NewSession(createTestFills(7), backend)
				require.NoError(t, s.Commit(context.Background(), model.VerdictBad))
				return s
			},
			newFills: 2,
			want:     []string{"All caught up", "Bad: 1", "2 new fills waiting. Press r to review them."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := renderDeck(deck, tt.setup(), tt.newFills)
			for _, want := range tt.want {
				assert.Contains(t, out, want)
			}
			for _, absent := range tt.absent {
				assert.NotContains(t, out, absent)
			}
		})
	}
}

func TestReviewDeckModel_EditNote(t *testing.T) {
	deck := NewReviewDeckModel(themes.Default)
	assert.False(t, deck.Editing())

	deck.EditNote("")
	assert.True(t, deck.Editing())

	for _, msg := range tuitest.TypeText("faded") {
		deck, _ = deck.Update(msg)
	}

	deck, cmd := deck.Update(tuitest.KeyEnter())
	assert.False(t, deck.Editing())
	require.NotNil(t, cmd)
	assert.Equal(t, NoteSubmittedMsg{Note: "faded"}, cmd())
}

func TestReviewDeckModel_CancelNote(t *testing.T) {
	deck := NewReviewDeckModel(themes.Default)
	deck.EditNote("draft")

	deck, cmd := deck.Update(tuitest.KeyEsc())
	assert.False(t, deck.Editing())
	require.NotNil(t, cmd)
	assert.Equal(t, NoteCancelledMsg{}, cmd())
}

func TestReviewDeckModel_IgnoresKeysWhenIdle(t *testing.T) {
	deck := NewReviewDeckModel(themes.Default)
	_, cmd := deck.Update(tuitest.KeyPress("g"))
	assert.Nil(t, cmd)
}

func TestReviewDeckModel_Resize(t *testing.T) {
	deck := NewReviewDeckModel(themes.Default)

	deck.Resize(10)
	assert.Equal(t, 60, deck.width)

	deck.Resize(200)
	assert.Equal(t, 72, deck.width)

	deck.Resize(50)
	assert.Equal(t, 50, deck.width)
}

var _ tea.Msg = NoteSubmittedMsg{}

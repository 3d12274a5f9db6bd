package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/hyperclaw/internal/model"
	"github.com/Veraticus/hyperclaw/internal/review"
	"github.com/Veraticus/hyperclaw/internal/tui/themes"
)

// ReviewDeckModel renders the active review card and owns the note editor.
type ReviewDeckModel struct {
	theme     themes.Theme
	noteInput textinput.Model
	spinner   spinner.Model
	width     int
	editing   bool
}

// NewReviewDeckModel creates a review deck.
func NewReviewDeckModel(theme themes.Theme) ReviewDeckModel {
	noteInput := textinput.New()
	noteInput.Placeholder = "What happened on this trade?"
	noteInput.CharLimit = 280

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(theme.Primary)

	return ReviewDeckModel{
		theme:     theme,
		noteInput: noteInput,
		spinner:   s,
		width:     60,
	}
}

// Init starts the pending spinner.
func (m ReviewDeckModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles note editing and spinner ticks.
func (m ReviewDeckModel) Update(msg tea.Msg) (ReviewDeckModel, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if !m.editing {
			return m, nil
		}
		switch msg.Type {
		case tea.KeyEnter:
			note := strings.TrimSpace(m.noteInput.Value())
			m.stopEditing()
			return m, func() tea.Msg { return NoteSubmittedMsg{Note: note} }
		case tea.KeyEsc:
			m.stopEditing()
			return m, func() tea.Msg { return NoteCancelledMsg{} }
		}
		var cmd tea.Cmd
		m.noteInput, cmd = m.noteInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

// EditNote focuses the note editor prefilled with current.
func (m *ReviewDeckModel) EditNote(current string) tea.Cmd {
	m.editing = true
	m.noteInput.SetValue(current)
	m.noteInput.CursorEnd()
	return m.noteInput.Focus()
}

func (m *ReviewDeckModel) stopEditing() {
	m.editing = false
	m.noteInput.Blur()
	m.noteInput.Reset()
}

// Editing reports whether keystrokes belong to the note editor.
func (m ReviewDeckModel) Editing() bool {
	return m.editing
}

// Resize sets the card width.
func (m *ReviewDeckModel) Resize(width int) {
	if width > 20 {
		m.width = min(width, 72)
	}
}

// View renders the deck for session s. newFills is the number of polled
// fills that arrived after the session began.
func (m ReviewDeckModel) View(s *review.Session, tags []string, newFills int) string {
	if s == nil {
		return m.theme.StatusPending.Render("Loading fills...")
	}

	fill, ok := s.Current()
	if !ok {
		return m.renderDone(s, newFills)
	}

	state := s.State()
	header := m.theme.Subtitle.Render(fmt.Sprintf("Fill %d of %d", state.Cursor+1, s.Len()))

	sections := []string{header, m.renderCard(fill, s.Draft(), tags, s.Pending())}
	if msg := s.Err(); msg != "" {
		sections = append(sections, m.theme.StatusError.Render("✗ "+msg))
	}
	if newFills > 0 {
		sections = append(sections, m.theme.StatusInfo.Render(fmt.Sprintf("%d new fills waiting", newFills)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m ReviewDeckModel) renderCard(f model.Fill, draft model.ReviewDraft, tags []string, pending bool) string {
	side := lipgloss.NewStyle().Foreground(m.theme.Profit).Bold(true).Render(string(f.Side))
	if !f.Side.IsBuy() {
		side = lipgloss.NewStyle().Foreground(m.theme.Loss).Bold(true).Render(string(f.Side))
	}

	lines := []string{
		fmt.Sprintf("%s %s  %s", m.theme.Bold.Render(f.Symbol), side, m.theme.Subtitle.Render(fmt.Sprintf("#%d", f.ID))),
		"",
		fmt.Sprintf("Price     %s", f.Price.String()),
		fmt.Sprintf("Size      %s", f.Size.String()),
		fmt.Sprintf("PnL       %s", m.theme.PnL(f.RealizedPnL)),
		fmt.Sprintf("Status    %s", f.Status),
		fmt.Sprintf("Time      %s", f.CreatedAt.Local().Format("2006-01-02 15:04")),
		"",
	}

	for i, tag := range tags {
		mark := "[ ]"
		style := m.theme.Normal
		if draft.HasTag(tag) {
			mark = "[x]"
			style = m.theme.Selected
		}
		lines = append(lines, fmt.Sprintf("%d %s %s", i+1, mark, style.Render(tag)))
	}

	lines = append(lines, "")
	switch {
	case m.editing:
		lines = append(lines, "Note: "+m.noteInput.View())
	case draft.Note() != "":
		lines = append(lines, "Note: "+m.theme.Italic.Render(draft.Note()))
	default:
		lines = append(lines, m.theme.StatusPending.Render("n to add a note"))
	}

	lines = append(lines, "")
	if pending {
		lines = append(lines, m.spinner.View()+" Submitting verdict...")
	} else {
		lines = append(lines, m.theme.Subtitle.Render("← drag or b: bad    g or drag →: good"))
	}

	return m.theme.ActiveCard.Width(m.width).Render(strings.Join(lines, "\n"))
}

func (m ReviewDeckModel) renderDone(s *review.Session, newFills int) string {
	stats := s.Stats()
	lines := []string{
		m.theme.Title.Render("All caught up"),
		fmt.Sprintf("Good: %d   Bad: %d   Failed submissions: %d", stats.Good, stats.Bad, stats.Failed),
	}
	if s.Len() == 0 {
		lines = []string{m.theme.Title.Render("No fills to review")}
	}
	if newFills > 0 {
		lines = append(lines, m.theme.StatusInfo.Render(fmt.Sprintf("%d new fills waiting. Press r to review them.", newFills)))
	}
	return m.theme.RoundedBox.Width(m.width).Render(strings.Join(lines, "\n"))
}

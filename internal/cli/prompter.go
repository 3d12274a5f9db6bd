package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/Veraticus/hyperclaw/internal/common"
	"github.com/Veraticus/hyperclaw/internal/model"
	"github.com/Veraticus/hyperclaw/internal/review"
	"github.com/Veraticus/hyperclaw/internal/service"
)

// ErrInputTerminated is returned when input ends mid-review.
var ErrInputTerminated = errors.New("input terminated")

// Prompter reviews fills one card at a time on a plain terminal.
type Prompter struct {
	writer      io.Writer
	reader      *LineReader
	progressBar *progressbar.ProgressBar
	tags        []string
}

// NewPrompter creates a prompter reading from r and writing to w (stdin and
// stdout when nil). tags are offered as 1-9 toggles.
func NewPrompter(r io.Reader, w io.Writer, tags []string) *Prompter {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	if len(tags) > 9 {
		tags = tags[:9]
	}
	return &Prompter{
		reader: NewLineReader(r),
		writer: w,
		tags:   tags,
	}
}

// Run walks s until it is exhausted or the user stops. Failed dispatches
// are shown and the same fill is offered again.
func (p *Prompter) Run(ctx context.Context, s *review.Session) (service.ReviewStats, error) {
	if s.Len() == 0 {
		p.println(FormatInfo("No fills to review."))
		return s.Stats(), nil
	}

	p.initProgressBar(s.Len())

	for {
		fill, ok := s.Current()
		if !ok {
			break
		}

		p.println(RenderBox(fmt.Sprintf("Fill %d/%d", s.State().Cursor+1, s.Len()), p.formatCard(fill, s.Draft())))
		if msg := s.Err(); msg != "" {
			p.println(FormatError(msg))
		}

		choice, err := p.promptChoice(ctx)
		if err != nil {
			return s.Stats(), err
		}

		switch {
		case choice == "g" || choice == "b":
			v := model.VerdictGood
			if choice == "b" {
				v = model.VerdictBad
			}
			if err := s.Commit(ctx, v); err != nil {
				if errors.Is(err, context.Canceled) {
					return s.Stats(), err
				}
				slog.Debug("Review commit failed", "fill_id", fill.ID, "error", err)
				continue
			}
			p.addProgress()
			p.println(FormatSuccess(fmt.Sprintf("Fill #%d marked %s", fill.ID, v)))
		case choice == "n":
			note, err := p.promptLine(ctx, "Note")
			if err != nil {
				return s.Stats(), err
			}
			if err := s.SetNote(note); err != nil {
				return s.Stats(), err
			}
		case choice == "s":
			p.println(FormatWarning("Stopped reviewing."))
			return s.Stats(), nil
		default:
			i, _ := strconv.Atoi(choice)
			if err := s.ToggleTag(p.tags[i-1]); err != nil {
				return s.Stats(), err
			}
		}
	}

	p.ShowCompletion(s.Stats())
	return s.Stats(), nil
}

// ShowCompletion prints the session summary.
func (p *Prompter) ShowCompletion(stats service.ReviewStats) {
	if p.progressBar != nil {
		if err := p.progressBar.Finish(); err != nil {
			slog.Warn("Failed to finish progress bar", "error", err)
		}
	}

	summary := fmt.Sprintf("%s Statistics:\n", ChartIcon) +
		fmt.Sprintf("  • Fills: %d\n", stats.Total) +
		fmt.Sprintf("  • Good: %d %s\n", stats.Good, GoodIcon) +
		fmt.Sprintf("  • Bad: %d %s\n", stats.Bad, BadIcon) +
		fmt.Sprintf("  • Failed submissions: %d\n", stats.Failed) +
		fmt.Sprintf("  • Time taken: %s\n", stats.Duration.Round(time.Second))

	p.println(RenderBox(ClawIcon+" Review Complete", summary))
}

func (p *Prompter) formatCard(f model.Fill, draft model.ReviewDraft) string {
	side := SuccessStyle.Render(string(f.Side))
	if !f.Side.IsBuy() {
		side = ErrorStyle.Render(string(f.Side))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s  #%d\n", TitleStyle.UnsetMargins().Render(f.Symbol), side, f.ID)
	fmt.Fprintf(&b, "  Price: %s  Size: %s\n", f.Price.String(), f.Size.String())
	fmt.Fprintf(&b, "  Realized PnL: %s\n", FormatPnL(f.RealizedPnL))
	fmt.Fprintf(&b, "  Status: %s  %s\n", f.Status, SubtleStyle.Render(f.CreatedAt.Local().Format("Jan 2 15:04")))

	if len(p.tags) > 0 {
		b.WriteString("\nTags:\n")
		for i, tag := range p.tags {
			if draft.HasTag(tag) {
				fmt.Fprintf(&b, "  [%d] %s\n", i+1, SelectedTagStyle.Render(SuccessIcon+" "+tag))
			} else {
				fmt.Fprintf(&b, "  [%d] %s\n", i+1, tag)
			}
		}
	}
	if note := draft.Note(); note != "" {
		fmt.Fprintf(&b, "\nNote: %s\n", note)
	}

	b.WriteString("\n[G] Good  [B] Bad  [N] Note  [S] Stop")
	return b.String()
}

func (p *Prompter) validChoice(choice string) bool {
	switch choice {
	case "g", "b", "n", "s":
		return true
	}
	i, err := strconv.Atoi(choice)
	return err == nil && i >= 1 && i <= len(p.tags)
}

func (p *Prompter) promptChoice(ctx context.Context) (string, error) {
	for {
		input, err := p.promptLine(ctx, "Choice")
		if err != nil {
			return "", err
		}
		choice := strings.ToLower(input)
		if p.validChoice(choice) {
			return choice, nil
		}
		p.println(FormatError("Invalid choice. Please try again."))
	}
}

func (p *Prompter) promptLine(ctx context.Context, prompt string) (string, error) {
	if _, err := fmt.Fprint(p.writer, FormatPrompt(prompt)); err != nil {
		return "", fmt.Errorf("failed to write prompt: %w", err)
	}
	line, err := p.reader.ReadLine(ctx)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return "", ErrInputTerminated
		}
		return "", err
	}
	return line, nil
}

func (p *Prompter) println(s string) {
	if _, err := fmt.Fprintln(p.writer, s); err != nil {
		slog.Warn("Failed to write output", "error", err)
	}
}

func (p *Prompter) initProgressBar(total int) {
	p.progressBar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(p.writer),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Reviewing fills...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			p.println("")
		}),
	)
}

func (p *Prompter) addProgress() {
	if p.progressBar == nil {
		return
	}
	if err := p.progressBar.Add(1); err != nil {
		slog.Warn("Failed to update progress bar", "error", err)
	}
}

// IsQuit reports whether err ended a review without a failure worth
// reporting.
func IsQuit(err error) bool {
	return errors.Is(err, ErrInputCancelled) ||
		errors.Is(err, ErrInputTerminated) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, common.ErrSessionExhausted)
}

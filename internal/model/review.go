package model

import (
	"slices"
	"strings"
)

// Verdict is the user's qualitative judgment on a fill.
type Verdict string

// Verdict constants. The wire values are the ones the backend accepts.
const (
	VerdictGood Verdict = "good"
	VerdictBad  Verdict = "bad"
)

// VerdictFromDelta maps a horizontal displacement to a verdict: right is
// good, left is bad. The caller is responsible for the dead-zone.
func VerdictFromDelta(dx float64) Verdict {
	if dx > 0 {
		return VerdictGood
	}
	return VerdictBad
}

// IsPositive reports whether the verdict is favorable.
func (v Verdict) IsPositive() bool {
	return v == VerdictGood
}

// Valid reports whether v is one of the known verdicts.
func (v Verdict) Valid() bool {
	return v == VerdictGood || v == VerdictBad
}

// ReviewVerdict is the payload committed for one fill.
type ReviewVerdict struct {
	Verdict Verdict  `json:"verdict"`
	Notes   string   `json:"notes"`
	Tags    []string `json:"tags"`
	FillID  int64    `json:"fillId"`
}

// ReviewDraft is the scratch state attached to the active fill of a
// review session. Tags behave as a set but keep the order they were
// selected in so the payload is stable.
type ReviewDraft struct {
	note string
	tags []string
}

// Toggle adds the tag if absent and removes it if present.
func (d *ReviewDraft) Toggle(tag string) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return
	}
	if i := slices.Index(d.tags, tag); i >= 0 {
		d.tags = slices.Delete(d.tags, i, i+1)
		return
	}
	d.tags = append(d.tags, tag)
}

// HasTag reports whether tag is selected.
func (d ReviewDraft) HasTag(tag string) bool {
	return slices.Contains(d.tags, tag)
}

// Tags returns a copy of the selected tags. It never returns nil so the
// payload always serializes as an array.
func (d ReviewDraft) Tags() []string {
	out := make([]string, len(d.tags))
	copy(out, d.tags)
	return out
}

// SetNote replaces the free-text note.
func (d *ReviewDraft) SetNote(note string) {
	d.note = note
}

// Note returns the free-text note.
func (d ReviewDraft) Note() string {
	return d.note
}

// IsEmpty reports whether nothing has been entered.
func (d ReviewDraft) IsEmpty() bool {
	return len(d.tags) == 0 && d.note == ""
}

// Clone returns an independent copy of the draft.
func (d ReviewDraft) Clone() ReviewDraft {
	return ReviewDraft{note: d.note, tags: d.Tags()}
}

// Reset clears tags and note.
func (d *ReviewDraft) Reset() {
	d.tags = nil
	d.note = ""
}

// Verdict builds the commit payload for fillID from the draft.
func (d ReviewDraft) Verdict(fillID int64, v Verdict) ReviewVerdict {
	return ReviewVerdict{
		FillID:  fillID,
		Verdict: v,
		Tags:    d.Tags(),
		Notes:   d.note,
	}
}

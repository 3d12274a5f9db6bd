package tui

import "github.com/Veraticus/hyperclaw/internal/model"

// changedMsg reports an accepted snapshot on a mounted screen.
type changedMsg struct {
	screen string
}

// actionDoneMsg reports the outcome of a screen mutation.
type actionDoneMsg struct {
	err     error
	screen  string
	action  string
	orderID int64
}

// reviewSettledMsg reports the outcome of a verdict dispatch.
type reviewSettledMsg struct {
	err     error
	verdict model.Verdict
	fillID  int64
}

// noticeMsg sets the status line.
type noticeMsg struct {
	text  string
	isErr bool
}

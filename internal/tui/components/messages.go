package components

import "github.com/Veraticus/hyperclaw/internal/screen"

// NoteSubmittedMsg carries the note typed for the active card.
type NoteSubmittedMsg struct {
	Note string
}

// NoteCancelledMsg is sent when note editing is abandoned.
type NoteCancelledMsg struct{}

// OrderSubmitMsg asks for the order ticket to be placed.
type OrderSubmitMsg struct {
	Form screen.OrderForm
}

// OrderEditDoneMsg is sent when the ticket loses focus without submitting.
type OrderEditDoneMsg struct{}

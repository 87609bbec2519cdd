package dispatch

// Result is what an intent or intent-not-recognized handler may return to
// drive the dialogue session it was triggered from. A nil Result means the
// handler has nothing to say and no outbound message is produced.
type Result interface {
	isResult()
}

// ContinueSession keeps the triggering session open and listens for a
// follow-up utterance.
type ContinueSession struct {
	// Text is spoken to the user before listening again.
	Text string
	// IntentFilter restricts which intents the next utterance may resolve to.
	IntentFilter []string
	// CustomData replaces the session's custom data when non-empty.
	CustomData string
	// SendIntentNotRecognized routes a follow-up not-recognized event back to
	// the app instead of letting the dialogue manager handle it silently.
	SendIntentNotRecognized bool
}

func (ContinueSession) isResult() {}

// EndSession closes the triggering session, optionally speaking a final text.
type EndSession struct {
	Text       string
	CustomData string
}

func (EndSession) isResult() {}

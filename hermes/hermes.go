// Package hermes defines the message structures and topic conventions of the
// Hermes voice-assistant protocol as exchanged over an MQTT-style broker.
// It can be used externally to build additional tooling or integrations.
package hermes

// Topics for the dialogue manager messages emitted by apps.
const (
	TopicDialogueStartSession    = "hermes/dialogueManager/startSession"
	TopicDialogueContinueSession = "hermes/dialogueManager/continueSession"
	TopicDialogueEndSession      = "hermes/dialogueManager/endSession"
	TopicIntentNotRecognized     = "hermes/nlu/intentNotRecognized"
)

// FilterHotwordDetected subscribes to detections from every wakeword model.
const FilterHotwordDetected = "hermes/hotword/+/detected"

// Publishable is implemented by every outbound message that knows the
// topic it must be published on.
type Publishable interface {
	Topic() string
}

// HotwordDetected signals that a wakeword was spotted on a site.
// Published on hermes/hotword/<wakewordId>/detected.
type HotwordDetected struct {
	ModelID            string  `json:"modelId"`
	ModelVersion       string  `json:"modelVersion,omitempty"`
	ModelType          string  `json:"modelType,omitempty"`
	CurrentSensitivity float64 `json:"currentSensitivity,omitempty"`
	SiteID             string  `json:"siteId"`
}

// Intent identifies the recognized intent and the NLU confidence.
type Intent struct {
	IntentName      string  `json:"intentName"`
	ConfidenceScore float64 `json:"confidenceScore"`
}

// SlotValue is the typed value of a slot. Kind follows the Hermes value
// taxonomy ("Custom", "Number", "Duration", ... or "Unknown").
type SlotValue struct {
	Kind  string `json:"kind"`
	Value any    `json:"value"`
}

// SlotRange marks the substring of the input a slot was captured from.
type SlotRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Slot is one structured argument of a recognized intent.
type Slot struct {
	Entity     string     `json:"entity"`
	SlotName   string     `json:"slotName"`
	RawValue   string     `json:"rawValue"`
	Value      SlotValue  `json:"value"`
	Confidence float64    `json:"confidence"`
	Range      *SlotRange `json:"range,omitempty"`
}

// AsrToken is one recognized token of the transcribed utterance.
type AsrToken struct {
	Value      string  `json:"value"`
	Confidence float64 `json:"confidence"`
	RangeStart int     `json:"rangeStart"`
	RangeEnd   int     `json:"rangeEnd"`
}

// NluIntent is a recognized voice command.
// Published on hermes/intent/<intentName>.
type NluIntent struct {
	Input         string       `json:"input"`
	Intent        Intent       `json:"intent"`
	SiteID        string       `json:"siteId"`
	ID            string       `json:"id,omitempty"`
	SessionID     string       `json:"sessionId,omitempty"`
	CustomData    string       `json:"customData,omitempty"`
	Slots         []Slot       `json:"slots,omitempty"`
	AsrTokens     [][]AsrToken `json:"asrTokens,omitempty"`
	AsrConfidence float64      `json:"asrConfidence,omitempty"`
	WakewordID    string       `json:"wakewordId,omitempty"`
}

// SlotValue returns the value of the named slot, or def when the slot is
// absent or its kind is Unknown.
func (m *NluIntent) SlotValue(name string, def any) any {
	for _, slot := range m.Slots {
		if slot.SlotName != name {
			continue
		}
		if slot.Value.Kind == "Unknown" || slot.Value.Value == nil {
			return def
		}
		return slot.Value.Value
	}
	return def
}

// NluIntentNotRecognized signals that the NLU could not resolve an utterance.
// Published on hermes/nlu/intentNotRecognized.
type NluIntentNotRecognized struct {
	Input      string `json:"input"`
	ID         string `json:"id,omitempty"`
	SiteID     string `json:"siteId"`
	SessionID  string `json:"sessionId,omitempty"`
	CustomData string `json:"customData,omitempty"`
}

// --- Outbound dialogue messages ---

// DialogueContinueSession asks the dialogue manager to keep a session open
// and listen for a follow-up utterance.
type DialogueContinueSession struct {
	SessionID               string   `json:"sessionId"`
	CustomData              string   `json:"customData,omitempty"`
	Text                    string   `json:"text,omitempty"`
	IntentFilter            []string `json:"intentFilter,omitempty"`
	SendIntentNotRecognized bool     `json:"sendIntentNotRecognized"`
	SiteID                  string   `json:"siteId,omitempty"`
}

// Topic implements Publishable.
func (DialogueContinueSession) Topic() string { return TopicDialogueContinueSession }

// DialogueEndSession asks the dialogue manager to close a session, optionally
// speaking a final text.
type DialogueEndSession struct {
	SessionID  string `json:"sessionId"`
	Text       string `json:"text,omitempty"`
	CustomData string `json:"customData,omitempty"`
	SiteID     string `json:"siteId,omitempty"`
}

// Topic implements Publishable.
func (DialogueEndSession) Topic() string { return TopicDialogueEndSession }

// SessionInit describes how a new dialogue session starts.
type SessionInit struct {
	Type                    string   `json:"type"` // "action" or "notification"
	Text                    string   `json:"text,omitempty"`
	CanBeEnqueued           bool     `json:"canBeEnqueued,omitempty"`
	IntentFilter            []string `json:"intentFilter,omitempty"`
	SendIntentNotRecognized bool     `json:"sendIntentNotRecognized,omitempty"`
}

// Notification builds a SessionInit that just speaks a text and closes.
func Notification(text string) SessionInit {
	return SessionInit{Type: "notification", Text: text}
}

// DialogueStartSession opens a new dialogue session on a site.
type DialogueStartSession struct {
	Init       SessionInit `json:"init"`
	SiteID     string      `json:"siteId,omitempty"`
	CustomData string      `json:"customData,omitempty"`
}

// Topic implements Publishable.
func (DialogueStartSession) Topic() string { return TopicDialogueStartSession }

package hermes

import (
	"encoding/json"
	"fmt"
)

// DecodeHotwordDetected parses a hotword detection payload. Payloads missing
// the modelId or siteId fields are rejected.
func DecodeHotwordDetected(payload []byte) (*HotwordDetected, error) {
	var msg HotwordDetected
	if err := json.Unmarshal(payload, &msg); err != nil {
		return nil, fmt.Errorf("decode hotword detected: %w", err)
	}
	if msg.ModelID == "" {
		return nil, fmt.Errorf("hotword detected: missing required field %q", "modelId")
	}
	if msg.SiteID == "" {
		return nil, fmt.Errorf("hotword detected: missing required field %q", "siteId")
	}
	return &msg, nil
}

// DecodeNluIntent parses a recognized-intent payload. Payloads missing the
// intent name or the input utterance are rejected.
func DecodeNluIntent(payload []byte) (*NluIntent, error) {
	var msg NluIntent
	if err := json.Unmarshal(payload, &msg); err != nil {
		return nil, fmt.Errorf("decode nlu intent: %w", err)
	}
	if msg.Intent.IntentName == "" {
		return nil, fmt.Errorf("nlu intent: missing required field %q", "intent.intentName")
	}
	if msg.Input == "" {
		return nil, fmt.Errorf("nlu intent: missing required field %q", "input")
	}
	return &msg, nil
}

// DecodeNluIntentNotRecognized parses an intent-not-recognized payload.
// Payloads missing the input utterance are rejected.
func DecodeNluIntentNotRecognized(payload []byte) (*NluIntentNotRecognized, error) {
	var msg NluIntentNotRecognized
	if err := json.Unmarshal(payload, &msg); err != nil {
		return nil, fmt.Errorf("decode intent not recognized: %w", err)
	}
	if msg.Input == "" {
		return nil, fmt.Errorf("intent not recognized: missing required field %q", "input")
	}
	return &msg, nil
}

// Encode marshals an outbound message for publication.
func Encode(msg Publishable) ([]byte, error) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", msg.Topic(), err)
	}
	return payload, nil
}

package dispatch

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/hermodvoice/hermod/hermes"
)

type published struct {
	topic   string
	payload []byte
}

type fakePublisher struct {
	published []published
}

func (f *fakePublisher) Publish(topic string, payload []byte) error {
	f.published = append(f.published, published{topic: topic, payload: payload})
	return nil
}

func newTestDispatcher(t *testing.T, reg *Registry) (*Dispatcher, *fakePublisher, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.WarnLevel)
	pub := &fakePublisher{}
	return NewDispatcher(reg, pub, "", zap.New(core).Sugar()), pub, logs
}

func intentPayload(t *testing.T, msg hermes.NluIntent) []byte {
	t.Helper()
	payload, err := json.Marshal(msg)
	require.NoError(t, err)
	return payload
}

func TestDispatchIntentInvokesHandlersInOrder(t *testing.T) {
	reg := NewRegistry()
	var order []string
	mk := func(name string) IntentHandler {
		return func(msg *hermes.NluIntent) Result {
			order = append(order, name)
			return nil
		}
	}
	reg.OnIntent(mk("a"), "GetTime")
	reg.OnIntent(mk("b"), "GetTime")
	reg.OnIntent(mk("c"), "GetTime")

	d, pub, _ := newTestDispatcher(t, reg)
	d.HandleMessage("hermes/intent/GetTime", intentPayload(t, hermes.NluIntent{
		Input:  "what time is it",
		Intent: hermes.Intent{IntentName: "GetTime"},
		SiteID: "kitchen",
	}))

	require.Equal(t, []string{"a", "b", "c"}, order)
	require.Empty(t, pub.published)
}

func TestDispatchIntentUnknownNameIsSilent(t *testing.T) {
	reg := NewRegistry()
	reg.OnIntent(func(msg *hermes.NluIntent) Result { return nil }, "GetTime")

	d, _, logs := newTestDispatcher(t, reg)
	d.HandleMessage("hermes/intent/Other", intentPayload(t, hermes.NluIntent{
		Input:  "something",
		Intent: hermes.Intent{IntentName: "Other"},
	}))

	require.Zero(t, logs.Len(), "unknown intent must not be logged as unexpected")
}

func TestDispatchDecodeFailureInvokesNoHandler(t *testing.T) {
	reg := NewRegistry()
	invoked := 0
	reg.OnIntent(func(msg *hermes.NluIntent) Result {
		invoked++
		return nil
	}, "GetTime")

	d, _, logs := newTestDispatcher(t, reg)
	// Missing required intent.intentName and input fields.
	d.HandleMessage("hermes/intent/GetTime", []byte(`{"siteId":"kitchen"}`))

	require.Zero(t, invoked)
	require.Equal(t, 1, logs.FilterLevelExact(zapcore.ErrorLevel).Len())

	// The loop keeps processing subsequent messages.
	d.HandleMessage("hermes/intent/GetTime", intentPayload(t, hermes.NluIntent{
		Input:  "what time is it",
		Intent: hermes.Intent{IntentName: "GetTime"},
	}))
	require.Equal(t, 1, invoked)
}

func TestDispatchHandlerPanicIsContained(t *testing.T) {
	reg := NewRegistry()
	var order []string
	reg.OnIntent(func(msg *hermes.NluIntent) Result {
		order = append(order, "a")
		return nil
	}, "GetTime")
	reg.OnIntent(func(msg *hermes.NluIntent) Result {
		panic("handler blew up")
	}, "GetTime")
	reg.OnIntent(func(msg *hermes.NluIntent) Result {
		order = append(order, "c")
		return nil
	}, "GetTime")

	d, _, logs := newTestDispatcher(t, reg)
	payload := intentPayload(t, hermes.NluIntent{
		Input:  "what time is it",
		Intent: hermes.Intent{IntentName: "GetTime"},
	})
	d.HandleMessage("hermes/intent/GetTime", payload)

	require.Equal(t, []string{"a", "c"}, order, "panic must not starve later handlers")
	require.Equal(t, 1, logs.FilterLevelExact(zapcore.ErrorLevel).Len())

	// And the next message still dispatches.
	d.HandleMessage("hermes/intent/GetTime", payload)
	require.Equal(t, []string{"a", "c", "a", "c"}, order)
}

func TestDispatchEndSessionEmitsDialogueMessage(t *testing.T) {
	reg := NewRegistry()
	reg.OnIntent(func(msg *hermes.NluIntent) Result {
		return EndSession{Text: "it is too late"}
	}, "GetTime")

	d, pub, _ := newTestDispatcher(t, reg)
	d.HandleMessage("hermes/intent/GetTime", intentPayload(t, hermes.NluIntent{
		Input:     "what time is it",
		Intent:    hermes.Intent{IntentName: "GetTime"},
		SiteID:    "kitchen",
		SessionID: "sess-1",
	}))

	require.Len(t, pub.published, 1)
	require.Equal(t, hermes.TopicDialogueEndSession, pub.published[0].topic)

	var out hermes.DialogueEndSession
	require.NoError(t, json.Unmarshal(pub.published[0].payload, &out))
	require.Equal(t, "sess-1", out.SessionID)
	require.Equal(t, "kitchen", out.SiteID)
	require.Equal(t, "it is too late", out.Text)
}

func TestDispatchEndSessionWithoutSessionID(t *testing.T) {
	reg := NewRegistry()
	reg.OnIntent(func(msg *hermes.NluIntent) Result {
		return EndSession{Text: "bye"}
	}, "GetTime")

	d, pub, logs := newTestDispatcher(t, reg)
	d.HandleMessage("hermes/intent/GetTime", intentPayload(t, hermes.NluIntent{
		Input:  "what time is it",
		Intent: hermes.Intent{IntentName: "GetTime"},
	}))

	require.Empty(t, pub.published, "no session id means no outbound message")
	require.Equal(t, 1, logs.FilterLevelExact(zapcore.ErrorLevel).Len())
}

func TestDispatchResultUsesConfiguredSiteWhenTriggerHasNone(t *testing.T) {
	reg := NewRegistry()
	reg.OnIntent(func(msg *hermes.NluIntent) Result {
		return EndSession{Text: "done"}
	}, "GetTime")

	core, _ := observer.New(zapcore.WarnLevel)
	pub := &fakePublisher{}
	d := NewDispatcher(reg, pub, "bedroom", zap.New(core).Sugar())

	d.HandleMessage("hermes/intent/GetTime", intentPayload(t, hermes.NluIntent{
		Input:     "what time is it",
		Intent:    hermes.Intent{IntentName: "GetTime"},
		SessionID: "sess-4",
	}))
	// A site on the triggering message takes precedence.
	d.HandleMessage("hermes/intent/GetTime", intentPayload(t, hermes.NluIntent{
		Input:     "what time is it",
		Intent:    hermes.Intent{IntentName: "GetTime"},
		SiteID:    "kitchen",
		SessionID: "sess-5",
	}))

	require.Len(t, pub.published, 2)
	var out hermes.DialogueEndSession
	require.NoError(t, json.Unmarshal(pub.published[0].payload, &out))
	require.Equal(t, "bedroom", out.SiteID)
	require.NoError(t, json.Unmarshal(pub.published[1].payload, &out))
	require.Equal(t, "kitchen", out.SiteID)
}

func TestDispatchContinueSessionCarriesIntentFilter(t *testing.T) {
	filter := []string{"AnswerYes", "AnswerNo"}

	reg := NewRegistry()
	reg.OnIntent(func(msg *hermes.NluIntent) Result {
		return ContinueSession{
			Text:                    "are you sure?",
			IntentFilter:            filter,
			SendIntentNotRecognized: true,
		}
	}, "StartGame")

	d, pub, _ := newTestDispatcher(t, reg)
	d.HandleMessage("hermes/intent/StartGame", intentPayload(t, hermes.NluIntent{
		Input:     "start the game",
		Intent:    hermes.Intent{IntentName: "StartGame"},
		SessionID: "sess-2",
	}))

	require.Len(t, pub.published, 1)
	require.Equal(t, hermes.TopicDialogueContinueSession, pub.published[0].topic)

	var out hermes.DialogueContinueSession
	require.NoError(t, json.Unmarshal(pub.published[0].payload, &out))
	require.Equal(t, "sess-2", out.SessionID)
	require.Equal(t, filter, out.IntentFilter)
	require.True(t, out.SendIntentNotRecognized)
}

func TestDispatchIntentNotRecognizedSharesResultContract(t *testing.T) {
	reg := NewRegistry()
	reg.OnIntentNotRecognized(func(msg *hermes.NluIntentNotRecognized) Result {
		return EndSession{Text: "I did not understand"}
	})

	d, pub, _ := newTestDispatcher(t, reg)
	payload, err := json.Marshal(hermes.NluIntentNotRecognized{
		Input:     "gibberish",
		SiteID:    "kitchen",
		SessionID: "sess-3",
	})
	require.NoError(t, err)
	d.HandleMessage(hermes.TopicIntentNotRecognized, payload)

	require.Len(t, pub.published, 1)
	require.Equal(t, hermes.TopicDialogueEndSession, pub.published[0].topic)

	var out hermes.DialogueEndSession
	require.NoError(t, json.Unmarshal(pub.published[0].payload, &out))
	require.Equal(t, "sess-3", out.SessionID)
}

func TestDispatchHotword(t *testing.T) {
	reg := NewRegistry()
	var got *hermes.HotwordDetected
	reg.OnHotword(func(msg *hermes.HotwordDetected) { got = msg })

	d, _, _ := newTestDispatcher(t, reg)
	payload, err := json.Marshal(hermes.HotwordDetected{ModelID: "porcupine", SiteID: "kitchen"})
	require.NoError(t, err)
	d.HandleMessage("hermes/hotword/porcupine/detected", payload)

	require.NotNil(t, got)
	require.Equal(t, "porcupine", got.ModelID)
	require.Equal(t, "kitchen", got.SiteID)
}

func TestDispatchTopicExactBeforePattern(t *testing.T) {
	reg := NewRegistry()
	var order []string
	err := reg.OnTopic(func(data TopicData, payload []byte) {
		order = append(order, "pattern")
		require.Equal(t, "kitchen", data.Data["siteId"])
	}, "hermes/audioServer/{siteId}/toggleOn")
	require.NoError(t, err)
	err = reg.OnTopic(func(data TopicData, payload []byte) {
		order = append(order, "exact")
		require.Empty(t, data.Data)
	}, "hermes/audioServer/kitchen/toggleOn")
	require.NoError(t, err)

	d, _, _ := newTestDispatcher(t, reg)
	d.HandleMessage("hermes/audioServer/kitchen/toggleOn", []byte(`{}`))

	require.Equal(t, []string{"exact", "pattern"}, order,
		"both sets run, exact-match handlers first")
}

func TestDispatchUnexpectedTopicIsDiagnosticOnly(t *testing.T) {
	reg := NewRegistry()
	d, pub, logs := newTestDispatcher(t, reg)

	d.HandleMessage("some/unknown/topic", []byte(`{}`))

	require.Empty(t, pub.published)
	require.Equal(t, 1, logs.FilterLevelExact(zapcore.WarnLevel).Len())
}

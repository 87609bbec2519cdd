package dispatch

import (
	"go.uber.org/zap"

	"github.com/hermodvoice/hermod/hermes"
)

// Publisher is the outbound half of the transport collaborator. The
// dispatcher uses it to emit dialogue messages produced by handler results.
type Publisher interface {
	Publish(topic string, payload []byte) error
}

// Dispatcher classifies raw broker messages and fans them out to the matching
// handlers of its registry. It holds no session state of its own; everything
// mutable it touches is owned by the handlers. HandleMessage must be fed from
// one serialized delivery path, which every supported transport guarantees.
type Dispatcher struct {
	reg  *Registry
	pub  Publisher
	site string
	log  *zap.SugaredLogger
}

// NewDispatcher creates a Dispatcher over a frozen registry. site is the
// default site id for outbound dialogue messages whose triggering message
// carries none.
func NewDispatcher(reg *Registry, pub Publisher, site string, log *zap.SugaredLogger) *Dispatcher {
	return &Dispatcher{reg: reg, pub: pub, site: site, log: log}
}

// HandleMessage processes one inbound (topic, payload) pair: classify,
// decode, invoke handlers in registration order, translate results. Nothing
// in here may take down the process; every failure is contained to the
// message (or the single handler) that caused it.
func (d *Dispatcher) HandleMessage(topic string, payload []byte) {
	switch {
	case hermes.IsHotwordTopic(topic):
		d.dispatchHotword(topic, payload)
	case hermes.IsIntentTopic(topic):
		d.dispatchIntent(topic, payload)
	case hermes.IsIntentNotRecognizedTopic(topic):
		d.dispatchIntentNotRecognized(topic, payload)
	default:
		d.dispatchTopic(topic, payload)
	}
}

func (d *Dispatcher) dispatchHotword(topic string, payload []byte) {
	msg, err := hermes.DecodeHotwordDetected(payload)
	if err != nil {
		d.log.Errorf("[dispatch] %v (topic %s, payload %s)", err, topic, payload)
		return
	}
	for _, h := range d.reg.hotword {
		d.invoke(topic, payload, func() { h(msg) })
	}
}

func (d *Dispatcher) dispatchIntent(topic string, payload []byte) {
	msg, err := hermes.DecodeNluIntent(payload)
	if err != nil {
		d.log.Errorf("[dispatch] %v (topic %s, payload %s)", err, topic, payload)
		return
	}
	// Subscriptions are per intent name, so an unknown name here only occurs
	// when the broker delivers more than was asked for.
	handlers, ok := d.reg.intents[msg.Intent.IntentName]
	if !ok {
		return
	}
	for _, h := range handlers {
		d.invoke(topic, payload, func() {
			d.translate(h(msg), msg.SessionID, msg.SiteID)
		})
	}
}

func (d *Dispatcher) dispatchIntentNotRecognized(topic string, payload []byte) {
	msg, err := hermes.DecodeNluIntentNotRecognized(payload)
	if err != nil {
		d.log.Errorf("[dispatch] %v (topic %s, payload %s)", err, topic, payload)
		return
	}
	for _, h := range d.reg.notRecognized {
		d.invoke(topic, payload, func() {
			d.translate(h(msg), msg.SessionID, msg.SiteID)
		})
	}
}

// dispatchTopic handles generic topics: exact literal registrations first,
// then every matching pattern registration. Both sets run for a topic that
// matches both; exact-before-pattern order is guaranteed.
func (d *Dispatcher) dispatchTopic(topic string, payload []byte) {
	matched := false

	if handlers, ok := d.reg.topics[topic]; ok {
		matched = true
		data := TopicData{Topic: topic, Data: map[string]string{}}
		for _, h := range handlers {
			d.invoke(topic, payload, func() { h(data, payload) })
		}
	}

	for _, entry := range d.reg.patterns {
		extracted, ok := entry.pattern.Match(topic)
		if !ok {
			continue
		}
		matched = true
		data := TopicData{Topic: topic, Data: extracted}
		for _, h := range entry.handlers {
			d.invoke(topic, payload, func() { h(data, payload) })
		}
	}

	if !matched {
		d.log.Warnf("[dispatch] unexpected topic: %s", topic)
	}
}

// invoke runs one handler with panic containment. A misbehaving handler must
// never take down the listening process or starve later handlers.
func (d *Dispatcher) invoke(topic string, payload []byte, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Errorf("[dispatch] handler panic: %v (topic %s, payload %s)", r, topic, payload)
		}
	}()
	fn()
}

// translate turns a handler result into the corresponding outbound dialogue
// message. The rules are identical for intent and intent-not-recognized
// triggers: a result without a session id on the triggering message is a
// protocol misuse and produces nothing but an error log.
func (d *Dispatcher) translate(res Result, sessionID, siteID string) {
	if siteID == "" {
		siteID = d.site
	}
	switch msg := res.(type) {
	case nil:
	case EndSession:
		if sessionID == "" {
			d.log.Errorf("[dispatch] cannot end session: triggering message has no session id")
			return
		}
		d.publish(hermes.DialogueEndSession{
			SessionID:  sessionID,
			SiteID:     siteID,
			Text:       msg.Text,
			CustomData: msg.CustomData,
		})
	case ContinueSession:
		if sessionID == "" {
			d.log.Errorf("[dispatch] cannot continue session: triggering message has no session id")
			return
		}
		d.publish(hermes.DialogueContinueSession{
			SessionID:               sessionID,
			SiteID:                  siteID,
			Text:                    msg.Text,
			IntentFilter:            msg.IntentFilter,
			CustomData:              msg.CustomData,
			SendIntentNotRecognized: msg.SendIntentNotRecognized,
		})
	default:
		d.log.Errorf("[dispatch] unknown handler result type %T", res)
	}
}

func (d *Dispatcher) publish(msg hermes.Publishable) {
	payload, err := hermes.Encode(msg)
	if err != nil {
		d.log.Errorf("[dispatch] %v", err)
		return
	}
	if err := d.pub.Publish(msg.Topic(), payload); err != nil {
		d.log.Errorf("[dispatch] publish %s: %v", msg.Topic(), err)
	}
}

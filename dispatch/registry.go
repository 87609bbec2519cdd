// Package dispatch provides the handler registry and message dispatcher for
// Hermes voice apps: topic pattern compilation, classification of inbound
// broker messages, ordered fan-out to registered handlers, and translation of
// handler results into outbound dialogue messages.
package dispatch

import (
	"fmt"
	"unsafe"

	"github.com/hermodvoice/hermod/hermes"
)

// HotwordHandler reacts to a wakeword detection.
type HotwordHandler func(msg *hermes.HotwordDetected)

// IntentHandler reacts to a recognized intent. Its Result, if any, drives the
// triggering dialogue session.
type IntentHandler func(msg *hermes.NluIntent) Result

// IntentNotRecognizedHandler reacts to an unrecognized utterance. It shares
// the Result contract with IntentHandler.
type IntentNotRecognizedHandler func(msg *hermes.NluIntentNotRecognized) Result

// TopicData carries the concrete topic of a raw message together with the
// values extracted at the pattern's placeholder positions.
type TopicData struct {
	Topic string
	Data  map[string]string
}

// TopicHandler reacts to a raw message on a subscribed topic. Topic handlers
// are fire-and-forget and produce no session result.
type TopicHandler func(data TopicData, payload []byte)

// patternEntry binds one compiled non-literal pattern to its handlers.
type patternEntry struct {
	pattern  *TopicPattern
	handlers []TopicHandler
	keys     map[uintptr]struct{}
}

// Registry holds, per message category, an ordered duplicate-free list of
// registered handlers. Registration is a startup-time activity; the registry
// is read-only once dispatching begins, so steady-state lookups take no lock.
type Registry struct {
	hotword     []HotwordHandler
	hotwordKeys map[uintptr]struct{}

	intents     map[string][]IntentHandler
	intentKeys  map[string]map[uintptr]struct{}
	intentNames []string

	notRecognized     []IntentNotRecognizedHandler
	notRecognizedKeys map[uintptr]struct{}

	topics     map[string][]TopicHandler
	topicKeys  map[string]map[uintptr]struct{}
	topicNames []string

	patterns []*patternEntry
}

// NewRegistry creates an empty handler registry.
func NewRegistry() *Registry {
	return &Registry{
		hotwordKeys:       make(map[uintptr]struct{}),
		intents:           make(map[string][]IntentHandler),
		intentKeys:        make(map[string]map[uintptr]struct{}),
		notRecognizedKeys: make(map[uintptr]struct{}),
		topics:            make(map[string][]TopicHandler),
		topicKeys:         make(map[string]map[uintptr]struct{}),
	}
}

// callbackKey identifies a callback for duplicate suppression. The key is
// the func value pointer read from the interface data word. The code pointer
// exposed by reflect.Value.Pointer is unusable here: it is shared between
// closures of one function literal and between method values of one method,
// so it cannot tell such handlers apart.
func callbackKey(fn any) uintptr {
	return uintptr((*[2]unsafe.Pointer)(unsafe.Pointer(&fn))[1])
}

// OnHotword registers a handler for wakeword detections. Registering the same
// handler twice is a no-op.
func (r *Registry) OnHotword(h HotwordHandler) {
	key := callbackKey(h)
	if _, dup := r.hotwordKeys[key]; dup {
		return
	}
	r.hotwordKeys[key] = struct{}{}
	r.hotword = append(r.hotword, h)
}

// OnIntent registers a handler for every named intent. Within one intent name
// a handler is registered at most once.
func (r *Registry) OnIntent(h IntentHandler, intentNames ...string) {
	key := callbackKey(h)
	for _, name := range intentNames {
		keys, ok := r.intentKeys[name]
		if !ok {
			keys = make(map[uintptr]struct{})
			r.intentKeys[name] = keys
			r.intentNames = append(r.intentNames, name)
		}
		if _, dup := keys[key]; dup {
			continue
		}
		keys[key] = struct{}{}
		r.intents[name] = append(r.intents[name], h)
	}
}

// OnIntentNotRecognized registers a handler for unrecognized utterances.
func (r *Registry) OnIntentNotRecognized(h IntentNotRecognizedHandler) {
	key := callbackKey(h)
	if _, dup := r.notRecognizedKeys[key]; dup {
		return
	}
	r.notRecognizedKeys[key] = struct{}{}
	r.notRecognized = append(r.notRecognized, h)
}

// OnTopic registers a handler for raw messages on the given topic patterns.
// Patterns may contain "+", "#" and "{name}" tokens; a malformed pattern
// fails the whole registration.
func (r *Registry) OnTopic(h TopicHandler, patterns ...string) error {
	key := callbackKey(h)
	for _, raw := range patterns {
		tp, err := CompileTopicPattern(raw)
		if err != nil {
			return fmt.Errorf("register topic handler: %w", err)
		}

		if tp.Exact() {
			keys, ok := r.topicKeys[raw]
			if !ok {
				keys = make(map[uintptr]struct{})
				r.topicKeys[raw] = keys
				r.topicNames = append(r.topicNames, raw)
			}
			if _, dup := keys[key]; dup {
				continue
			}
			keys[key] = struct{}{}
			r.topics[raw] = append(r.topics[raw], h)
			continue
		}

		entry := r.patternEntryFor(raw)
		if entry == nil {
			entry = &patternEntry{pattern: tp, keys: make(map[uintptr]struct{})}
			r.patterns = append(r.patterns, entry)
		}
		if _, dup := entry.keys[key]; dup {
			continue
		}
		entry.keys[key] = struct{}{}
		entry.handlers = append(entry.handlers, h)
	}
	return nil
}

func (r *Registry) patternEntryFor(pattern string) *patternEntry {
	for _, entry := range r.patterns {
		if entry.pattern.Pattern() == pattern {
			return entry
		}
	}
	return nil
}

// SubscriptionFilters returns the deduplicated union of broker filters the
// registry needs: one intent topic per registered intent name, the hotword
// and not-recognized filters when such handlers exist, every literal topic,
// and every compiled pattern filter. It is computed once at startup to tell
// the transport what to subscribe to.
func (r *Registry) SubscriptionFilters() []string {
	seen := make(map[string]struct{})
	var filters []string
	add := func(filter string) {
		if _, dup := seen[filter]; dup {
			return
		}
		seen[filter] = struct{}{}
		filters = append(filters, filter)
	}

	for _, name := range r.intentNames {
		add(hermes.IntentTopic(name))
	}
	if len(r.hotword) > 0 {
		add(hermes.FilterHotwordDetected)
	}
	if len(r.notRecognized) > 0 {
		add(hermes.TopicIntentNotRecognized)
	}
	for _, topic := range r.topicNames {
		add(topic)
	}
	for _, entry := range r.patterns {
		add(entry.pattern.Filter())
	}
	return filters
}

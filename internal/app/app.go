// Package app assembles a Hermes voice app: it owns the handler registry and
// the dispatcher, wires them to a transport, and runs the subscribe-then-
// dispatch lifecycle. Application code registers handlers at startup and then
// calls Run; the subscription set is computed once and never recomputed.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/hermodvoice/hermod/dispatch"
	"github.com/hermodvoice/hermod/hermes"
	"github.com/hermodvoice/hermod/interfaces"
	"github.com/hermodvoice/hermod/internal/config"
	"github.com/hermodvoice/hermod/internal/logging"
)

// App is a Hermes app bound to one transport connection.
type App struct {
	name       string
	reg        *dispatch.Registry
	dispatcher *dispatch.Dispatcher
	transport  interfaces.Transport
	log        *zap.SugaredLogger
}

// New creates an app over the given transport. The configured site id is the
// default site for dialogue messages the dispatcher emits.
func New(name string, cfg *config.Config, transport interfaces.Transport) *App {
	site := ""
	if cfg != nil {
		site = cfg.SiteID
	}
	reg := dispatch.NewRegistry()
	return &App{
		name:       name,
		reg:        reg,
		dispatcher: dispatch.NewDispatcher(reg, transport, site, logging.Log),
		transport:  transport,
		log:        logging.Log,
	}
}

// OnHotword registers a handler for wakeword detections.
func (a *App) OnHotword(h dispatch.HotwordHandler) {
	a.reg.OnHotword(h)
}

// OnIntent registers a handler for the named intents.
func (a *App) OnIntent(h dispatch.IntentHandler, intentNames ...string) {
	a.reg.OnIntent(h, intentNames...)
}

// OnIntentNotRecognized registers a handler for unrecognized utterances.
func (a *App) OnIntentNotRecognized(h dispatch.IntentNotRecognizedHandler) {
	a.reg.OnIntentNotRecognized(h)
}

// OnTopic registers a handler for raw messages on the given topic patterns.
// A malformed pattern is a configuration error and fails the registration.
func (a *App) OnTopic(h dispatch.TopicHandler, patterns ...string) error {
	return a.reg.OnTopic(h, patterns...)
}

// Publish sends an outbound protocol message through the transport. It is
// meant for handlers that emit messages outside the session result contract,
// e.g. a notification session when a timer fires.
func (a *App) Publish(msg hermes.Publishable) error {
	payload, err := hermes.Encode(msg)
	if err != nil {
		return err
	}
	return a.transport.Publish(msg.Topic(), payload)
}

// PublishRaw sends an arbitrary payload to a topic.
func (a *App) PublishRaw(topic string, payload []byte) error {
	return a.transport.Publish(topic, payload)
}

// Run connects the transport, subscribes to the filter union of all
// registered handlers, and dispatches messages until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	filters := a.reg.SubscriptionFilters()
	if len(filters) == 0 {
		return fmt.Errorf("app %s: no handlers registered", a.name)
	}

	if err := a.transport.Connect(); err != nil {
		return fmt.Errorf("app %s: %w", a.name, err)
	}
	defer a.transport.Disconnect()

	if err := a.transport.Subscribe(a.dispatcher.HandleMessage, filters...); err != nil {
		return fmt.Errorf("app %s: %w", a.name, err)
	}

	a.log.Infof("[%s] subscribed to %d filters, dispatching", a.name, len(filters))
	<-ctx.Done()
	a.log.Infof("[%s] shutting down", a.name)
	return nil
}

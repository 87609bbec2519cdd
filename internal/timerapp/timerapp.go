// Package timerapp implements a countdown-timer voice app on top of the
// dispatcher. It supports the StartTimer, StopTimer and QueryTimer intents
// and keeps one active timer per site. When a countdown fires it starts a
// notification session so the site announces the expiry.
package timerapp

import (
	"fmt"
	"sync"
	"time"

	"github.com/hermodvoice/hermod/dispatch"
	"github.com/hermodvoice/hermod/hermes"
	"github.com/hermodvoice/hermod/internal/app"
	"github.com/hermodvoice/hermod/internal/logging"
)

const minimumSeconds = 10

// publisher is the outbound surface the app needs; *app.App satisfies it.
type publisher interface {
	Publish(msg hermes.Publishable) error
}

type activeTimer struct {
	startedAt    time.Time
	timer        *time.Timer
	totalSeconds int
}

// Timers holds the per-site timer state. The dispatcher owns no session
// state, so the app synchronizes its own map: intent handlers run on the
// dispatch path while expiry callbacks run on timer goroutines.
type Timers struct {
	pub publisher

	mu     sync.Mutex
	bySite map[string]*activeTimer
}

// New creates the timer app around an outbound publisher.
func New(pub publisher) *Timers {
	return &Timers{pub: pub, bySite: make(map[string]*activeTimer)}
}

// Register wires the timer intents into the app.
func Register(a *app.App) *Timers {
	t := New(a)
	a.OnIntent(t.startTimer, "StartTimer")
	a.OnIntent(t.stopTimer, "StopTimer")
	a.OnIntent(t.queryTimer, "QueryTimer")
	return t
}

// startTimer handles StartTimer. Slots: minutes and seconds, at least one of
// which must yield a total of ten seconds or more.
func (t *Timers) startTimer(msg *hermes.NluIntent) dispatch.Result {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.bySite[msg.SiteID]; exists {
		return dispatch.EndSession{Text: "There is already an active timer"}
	}

	minutes := intSlot(msg, "minutes", 0)
	seconds := intSlot(msg, "seconds", 0)
	total := minutes*60 + seconds
	if total < minimumSeconds {
		return dispatch.EndSession{Text: "A timer must be at least ten seconds long"}
	}

	siteID := msg.SiteID
	t.bySite[siteID] = &activeTimer{
		startedAt:    time.Now(),
		totalSeconds: total,
		// Expiry must not run on the dispatch path; AfterFunc fires on its
		// own goroutine.
		timer: time.AfterFunc(time.Duration(total)*time.Second, func() {
			t.countdownReached(siteID)
		}),
	}

	text := "New timer set for"
	if minutes > 0 {
		text = fmt.Sprintf("%s %d minutes", text, minutes)
	}
	if seconds > 0 {
		text = fmt.Sprintf("%s %d seconds", text, seconds)
	}
	return dispatch.EndSession{Text: text}
}

// stopTimer handles StopTimer and cancels the site's pending countdown.
func (t *Timers) stopTimer(msg *hermes.NluIntent) dispatch.Result {
	t.mu.Lock()
	defer t.mu.Unlock()

	active, ok := t.bySite[msg.SiteID]
	if !ok {
		return dispatch.EndSession{Text: "There is no active timer"}
	}
	active.timer.Stop()
	delete(t.bySite, msg.SiteID)
	return dispatch.EndSession{Text: "Timer stopped"}
}

// queryTimer handles QueryTimer and reports the remaining time.
func (t *Timers) queryTimer(msg *hermes.NluIntent) dispatch.Result {
	t.mu.Lock()
	defer t.mu.Unlock()

	active, ok := t.bySite[msg.SiteID]
	if !ok {
		return dispatch.EndSession{Text: "There is no active timer"}
	}
	remaining := float64(active.totalSeconds) - time.Since(active.startedAt).Seconds()
	return dispatch.EndSession{Text: fmt.Sprintf("%.0f seconds remaining", remaining)}
}

// StopAll cancels every pending countdown. Called on shutdown.
func (t *Timers) StopAll() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for siteID, active := range t.bySite {
		active.timer.Stop()
		delete(t.bySite, siteID)
	}
}

// countdownReached clears the site's timer and starts a notification session
// so the expiry is spoken on that site.
func (t *Timers) countdownReached(siteID string) {
	t.mu.Lock()
	delete(t.bySite, siteID)
	t.mu.Unlock()

	err := t.pub.Publish(hermes.DialogueStartSession{
		Init:   hermes.Notification("The timer is up"),
		SiteID: siteID,
	})
	if err != nil {
		logging.Log.Errorf("[timerapp] notify site %s: %v", siteID, err)
	}
}

// intSlot reads a numeric slot value. JSON numbers arrive as float64.
func intSlot(msg *hermes.NluIntent, name string, def int) int {
	switch v := msg.SlotValue(name, nil).(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return def
	}
}

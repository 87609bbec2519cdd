// Package guessgame implements a number-guessing voice game that exercises
// multi-turn sessions: every question keeps the session open with
// ContinueSession and narrows the next utterance to the game's answer
// intents via the intent filter.
package guessgame

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/hermodvoice/hermod/dispatch"
	"github.com/hermodvoice/hermod/hermes"
	"github.com/hermodvoice/hermod/internal/app"
)

const (
	upperBound = 100
	maxTries   = 8
)

// answerFilter restricts what the next utterance may resolve to while a game
// is running.
var answerFilter = []string{"GuessNumber", "GiveUp"}

type game struct {
	target int
	tries  int
}

// Game holds the running games keyed by dialogue session id.
type Game struct {
	pick func() int

	mu       sync.Mutex
	bySessID map[string]*game
}

// New creates the guessing game. pick chooses the secret number and may be
// nil for the default random choice.
func New(pick func() int) *Game {
	if pick == nil {
		pick = func() int { return rand.Intn(upperBound) + 1 }
	}
	return &Game{pick: pick, bySessID: make(map[string]*game)}
}

// Register wires the game intents into the app.
func Register(a *app.App) *Game {
	g := New(nil)
	a.OnIntent(g.start, "StartGuessGame")
	a.OnIntent(g.guess, "GuessNumber")
	a.OnIntent(g.giveUp, "GiveUp")
	return g
}

func (g *Game) start(msg *hermes.NluIntent) dispatch.Result {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.bySessID[msg.SessionID] = &game{target: g.pick()}
	return dispatch.ContinueSession{
		Text:         fmt.Sprintf("I picked a number between one and %d. What is your guess?", upperBound),
		IntentFilter: answerFilter,
	}
}

func (g *Game) guess(msg *hermes.NluIntent) dispatch.Result {
	g.mu.Lock()
	defer g.mu.Unlock()

	running, ok := g.bySessID[msg.SessionID]
	if !ok {
		return dispatch.EndSession{Text: "No game is running. Say start guessing game to begin"}
	}

	number, ok := numberSlot(msg)
	if !ok {
		return dispatch.ContinueSession{
			Text:         "I did not catch a number. Try again",
			IntentFilter: answerFilter,
		}
	}

	running.tries++
	switch {
	case number == running.target:
		delete(g.bySessID, msg.SessionID)
		return dispatch.EndSession{Text: fmt.Sprintf("Correct! You got it in %d tries", running.tries)}
	case running.tries >= maxTries:
		target := running.target
		delete(g.bySessID, msg.SessionID)
		return dispatch.EndSession{Text: fmt.Sprintf("Out of tries. The number was %d", target)}
	case number < running.target:
		return dispatch.ContinueSession{Text: "Higher", IntentFilter: answerFilter}
	default:
		return dispatch.ContinueSession{Text: "Lower", IntentFilter: answerFilter}
	}
}

func (g *Game) giveUp(msg *hermes.NluIntent) dispatch.Result {
	g.mu.Lock()
	defer g.mu.Unlock()

	running, ok := g.bySessID[msg.SessionID]
	if !ok {
		return dispatch.EndSession{Text: "No game is running. Say start guessing game to begin"}
	}
	delete(g.bySessID, msg.SessionID)
	return dispatch.EndSession{Text: fmt.Sprintf("The number was %d. Thanks for playing", running.target)}
}

func numberSlot(msg *hermes.NluIntent) (int, bool) {
	switch v := msg.SlotValue("number", nil).(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	default:
		return 0, false
	}
}

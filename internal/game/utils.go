// internal/game/utils.go
package game

import (
	"encoding/json"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"
)

// convertEventToBytes marshals a GameEvent into JSON bytes.
// Logs a warning and returns empty JSON "{}" on marshalling error.
func convertEventToBytes(ev GameEvent) []byte {
	data, err := json.Marshal(ev)
	if err != nil {
		logrus.WithError(err).WithField("type", ev.Type).Warn("failed to marshal GameEvent")
		return []byte("{}")
	}
	return data
}

// newRand returns a source seeded with seed, or with the clock when seed is 0.
func newRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// NewRand is newRand for callers outside the package that want reproducible games.
func NewRand(seed int64) *rand.Rand { return newRand(seed) }

// log returns the game's logger carrying the game, round and turn.
func (g *UnoGame) log() logrus.FieldLogger {
	l := g.Logger
	if l == nil {
		l = logrus.StandardLogger()
	}
	return l.WithFields(logrus.Fields{
		"game":  g.ID,
		"round": g.Round,
		"turn":  g.TurnID,
	})
}

// EventJSON renders an event as one JSON line for display layers that print events.
func EventJSON(ev GameEvent) string {
	return string(convertEventToBytes(ev))
}

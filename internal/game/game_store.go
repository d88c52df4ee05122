package game

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// GameStore is the registry of live games, keyed by game ID.
type GameStore struct {
	mu    sync.Mutex
	games map[uuid.UUID]*UnoGame
}

func NewGameStore() *GameStore {
	return &GameStore{
		games: make(map[uuid.UUID]*UnoGame),
	}
}

// AddGame registers a game. A second game with the same ID is refused.
func (s *GameStore) AddGame(g *UnoGame) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.games[g.ID]; exists {
		return fmt.Errorf("game %s already registered", g.ID)
	}
	s.games[g.ID] = g
	return nil
}

func (s *GameStore) GetGame(id uuid.UUID) (*UnoGame, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.games[id]
	return g, ok
}

func (s *GameStore) DeleteGame(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.games, id)
}

// Len reports how many games are registered.
func (s *GameStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.games)
}

// ActiveGames returns the games that have not reached game end. It takes each game's lock, so it
// must not be called from inside a game callback.
func (s *GameStore) ActiveGames() []*UnoGame {
	s.mu.Lock()
	games := make([]*UnoGame, 0, len(s.games))
	for _, g := range s.games {
		games = append(games, g)
	}
	s.mu.Unlock()

	active := games[:0]
	for _, g := range games {
		if !g.GameOver() {
			active = append(active, g)
		}
	}
	return active
}

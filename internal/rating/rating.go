// Package rating keeps Glicko-2 ratings for competitors across simulated games.
package rating

import (
	"sort"
	"sync"
)

// Rating is one competitor's standing on the 1500 scale.
type Rating struct {
	Elo   float64 `json:"elo"`
	RD    float64 `json:"rd"`
	Sigma float64 `json:"sigma"`
	Games int     `json:"games"`
}

// NewRating is the starting rating for an unseen competitor.
func NewRating() Rating {
	return Rating{Elo: DefaultElo, RD: DefaultRD, Sigma: DefaultSigma}
}

// Outcome is one competitor's final game points. Higher is better.
type Outcome struct {
	Name   string
	Points int
}

// Standing pairs a competitor with their rating.
type Standing struct {
	Name string `json:"name"`
	Rating
}

// Ladder tracks ratings by competitor name. It is safe for concurrent use.
type Ladder struct {
	mu      sync.Mutex
	ratings map[string]Rating
}

func NewLadder() *Ladder {
	return &Ladder{ratings: make(map[string]Rating)}
}

// Get returns the competitor's rating, or the starting rating if they have not played.
func (l *Ladder) Get(name string) Rating {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.get(name)
}

func (l *Ladder) get(name string) Rating {
	if r, ok := l.ratings[name]; ok {
		return r
	}
	return NewRating()
}

// RecordGame updates every competitor of one finished game. Placings become fractional scores
// (first 1.0, last 0.0, ties share the average), and each competitor is rated against the
// average of the others. Games with fewer than two competitors are ignored.
func (l *Ladder) RecordGame(outcomes []Outcome) {
	if len(outcomes) < 2 {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	scores := placementScores(outcomes)
	before := make([]Rating, len(outcomes))
	total := 0.0
	for i, o := range outcomes {
		before[i] = l.get(o.Name)
		total += before[i].Elo
	}

	for i, o := range outcomes {
		oppElo := (total - before[i].Elo) / float64(len(outcomes)-1)
		opp := toGlicko(Rating{Elo: oppElo, RD: DefaultRD, Sigma: DefaultSigma})
		next := update(toGlicko(before[i]), opp, scores[i]).apply(before[i])
		next.Games++
		l.ratings[o.Name] = next
	}
}

// Standings lists every rated competitor, best first.
func (l *Ladder) Standings() []Standing {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Standing, 0, len(l.ratings))
	for name, r := range l.ratings {
		out = append(out, Standing{Name: name, Rating: r})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Elo != out[j].Elo {
			return out[i].Elo > out[j].Elo
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// placementScores maps points to [0..1] by rank, parallel to outcomes.
func placementScores(outcomes []Outcome) []float64 {
	order := make([]int, len(outcomes))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return outcomes[order[a]].Points > outcomes[order[b]].Points
	})

	scores := make([]float64, len(outcomes))
	last := float64(len(outcomes) - 1)
	for i := 0; i < len(order); {
		j := i + 1
		for j < len(order) && outcomes[order[j]].Points == outcomes[order[i]].Points {
			j++
		}
		// seats i..j-1 are tied
		avgRank := float64(i+j-1) / 2
		for k := i; k < j; k++ {
			scores[order[k]] = 1.0 - avgRank/last
		}
		i = j
	}
	return scores
}

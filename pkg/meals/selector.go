package meals

import (
	"errors"
	"math/rand/v2"
	"sync"
)

// DefaultSuggestionCount is the number of meals Suggest returns by default.
const DefaultSuggestionCount = 6

// ErrNoMatch means no meal fits the season and goal, even with the diet relaxed.
var ErrNoMatch = errors.New("no matching meals")

// Selector filters a dataset and draws random suggestions from it.
// It is safe for concurrent use.
type Selector struct {
	data *Dataset

	mu  sync.Mutex
	rng *rand.Rand
}

// NewSelector returns a selector over data. A nil src seeds from the runtime.
func NewSelector(data *Dataset, src rand.Source) *Selector {
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &Selector{data: data, rng: rand.New(src)}
}

// Dataset returns the underlying dataset.
func (s *Selector) Dataset() *Dataset { return s.data }

// Match returns the meals for sel's season and goal that support sel's diet.
// When none do and the diet is not omnivore, the diet constraint is dropped.
// ErrNoMatch is returned when the season and goal have no meals at all.
func (s *Selector) Match(sel Selection) ([]Meal, error) {
	matches := s.filter(func(m Meal) bool {
		return m.Season == sel.Season && m.Goal == sel.Goal && m.Supports(sel.Diet)
	})
	if len(matches) == 0 && sel.Diet != Omnivore {
		matches = s.filter(func(m Meal) bool {
			return m.Season == sel.Season && m.Goal == sel.Goal
		})
	}
	if len(matches) == 0 {
		return nil, ErrNoMatch
	}
	return matches, nil
}

// Suggest returns up to n distinct meals. The pool starts with Match; if it
// holds fewer than n meals it is topped up with meals of the same goal from
// any season or diet, then with the rest of the dataset. The result is a
// uniform random sample of the pool.
func (s *Selector) Suggest(sel Selection, n int) ([]Meal, error) {
	if n <= 0 {
		n = DefaultSuggestionCount
	}

	matches, err := s.Match(sel)
	if err != nil {
		return nil, err
	}

	pool := append([]Meal(nil), matches...)
	seen := make(map[string]bool, len(s.data.meals))
	for _, m := range pool {
		seen[m.ID] = true
	}

	backfill := func(keep func(Meal) bool) {
		if len(pool) >= n {
			return
		}
		for _, m := range s.data.meals {
			if !seen[m.ID] && keep(m) {
				pool = append(pool, m)
				seen[m.ID] = true
			}
		}
	}
	backfill(func(m Meal) bool { return m.Goal == sel.Goal })
	backfill(func(Meal) bool { return true })

	s.mu.Lock()
	defer s.mu.Unlock()
	return Sample(pool, min(len(pool), n), s.rng), nil
}

// PickOne returns a single random meal from Match.
func (s *Selector) PickOne(sel Selection) (Meal, error) {
	matches, err := s.Match(sel)
	if err != nil {
		return Meal{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return matches[s.rng.IntN(len(matches))], nil
}

func (s *Selector) filter(keep func(Meal) bool) []Meal {
	var out []Meal
	for _, m := range s.data.meals {
		if keep(m) {
			out = append(out, m)
		}
	}
	return out
}

// Sample draws n items from pool without replacement. Each draw picks a
// uniform index over the remaining items and swap-removes it, so the
// result never repeats an element. pool is not modified.
func Sample[T any](pool []T, n int, rng *rand.Rand) []T {
	remaining := append([]T(nil), pool...)
	if n > len(remaining) {
		n = len(remaining)
	}

	out := make([]T, 0, n)
	for len(out) < n {
		i := rng.IntN(len(remaining))
		out = append(out, remaining[i])
		last := len(remaining) - 1
		remaining[i] = remaining[last]
		remaining = remaining[:last]
	}
	return out
}

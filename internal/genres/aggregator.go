package genres

import (
	"math"
	"sort"

	"github.com/xomify/cli/internal/cache"
	"github.com/xomify/cli/internal/models"
)

// Aggregator converts ranked artist lists into genre statistics. Results are
// placed in the injected cache keyed by feature and term, so the aggregator
// itself carries no mutable state and stays trivially testable.
type Aggregator struct {
	cache *cache.Cache
}

// NewAggregator creates an Aggregator backed by the given cache.
func NewAggregator(c *cache.Cache) *Aggregator {
	return &Aggregator{cache: c}
}

// weightFor returns the weight of the artist at position i in a list of n.
// Weights decay linearly with rank and never drop below 1, so every artist
// contributes something.
func weightFor(i, n int) int {
	if w := n - i; w > 1 {
		return w
	}
	return 1
}

// TopGenres computes weighted genre statistics for a ranked artist list
// (rank 0 = most listened) and caches the result for the given term.
func (a *Aggregator) TopGenres(artists []models.Artist, term models.Term) []models.GenreItem {
	type slot struct {
		item    *models.GenreItem
		artists map[string]struct{}
	}

	n := len(artists)
	slots := make(map[string]*slot)
	var order []string

	for i, artist := range artists {
		weight := weightFor(i, n)
		for _, raw := range artist.Genres {
			name := normalize(raw)
			if name == "" {
				continue
			}

			s, ok := slots[name]
			if !ok {
				s = &slot{
					item:    &models.GenreItem{Name: name},
					artists: make(map[string]struct{}),
				}
				slots[name] = s
				order = append(order, name)
			}

			s.item.Score += weight
			s.item.Count++
			if _, seen := s.artists[artist.Name]; !seen {
				s.artists[artist.Name] = struct{}{}
				s.item.Artists = append(s.item.Artists, artist.Name)
			}
		}
	}

	items := make([]models.GenreItem, 0, len(order))
	for _, name := range order {
		items = append(items, *slots[name].item)
	}

	// Stable sort keeps first-appearance order for equal scores.
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Score > items[j].Score
	})

	applyPercentages(items)

	if a.cache != nil {
		a.cache.Set(cache.PrefixTopGenres+string(term), items)
	}

	return items
}

// CachedTopGenres returns the cached result of a previous TopGenres call for
// the term, if still fresh.
func (a *Aggregator) CachedTopGenres(term models.Term) ([]models.GenreItem, bool) {
	if a.cache == nil {
		return nil, false
	}
	var items []models.GenreItem
	ok := a.cache.Get(cache.PrefixTopGenres+string(term), cache.TTLGenres, &items)
	return items, ok
}

// GroupedGenres rolls a GenreItem list up into parent categories using the
// taxonomy, accumulating score, child genres, and contributors per group.
func (a *Aggregator) GroupedGenres(items []models.GenreItem, term models.Term) []models.GenreGroup {
	type slot struct {
		group   *models.GenreGroup
		genres  map[string]struct{}
		artists map[string]struct{}
	}

	slots := make(map[string]*slot)
	var order []string

	for _, item := range items {
		parent := FindParentGenre(item.Name)

		s, ok := slots[parent]
		if !ok {
			s = &slot{
				group:   &models.GenreGroup{Name: parent},
				genres:  make(map[string]struct{}),
				artists: make(map[string]struct{}),
			}
			slots[parent] = s
			order = append(order, parent)
		}

		s.group.Score += item.Score
		if _, seen := s.genres[item.Name]; !seen {
			s.genres[item.Name] = struct{}{}
			s.group.Genres = append(s.group.Genres, item.Name)
		}
		for _, artist := range item.Artists {
			if _, seen := s.artists[artist]; !seen {
				s.artists[artist] = struct{}{}
				s.group.Artists = append(s.group.Artists, artist)
			}
		}
	}

	groups := make([]models.GenreGroup, 0, len(order))
	for _, name := range order {
		groups = append(groups, *slots[name].group)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Score > groups[j].Score
	})

	applyGroupPercentages(groups)

	if a.cache != nil {
		a.cache.Set(cache.PrefixGenreGroups+string(term), groups)
	}

	return groups
}

// CachedGroupedGenres returns the cached result of a previous GroupedGenres
// call for the term, if still fresh.
func (a *Aggregator) CachedGroupedGenres(term models.Term) ([]models.GenreGroup, bool) {
	if a.cache == nil {
		return nil, false
	}
	var groups []models.GenreGroup
	ok := a.cache.Get(cache.PrefixGenreGroups+string(term), cache.TTLGenres, &groups)
	return groups, ok
}

func applyPercentages(items []models.GenreItem) {
	top := 1
	if len(items) > 0 && items[0].Score > 0 {
		top = items[0].Score
	}
	for i := range items {
		items[i].Percentage = percentOf(items[i].Score, top)
	}
}

func applyGroupPercentages(groups []models.GenreGroup) {
	top := 1
	if len(groups) > 0 && groups[0].Score > 0 {
		top = groups[0].Score
	}
	for i := range groups {
		groups[i].Percentage = percentOf(groups[i].Score, top)
	}
}

func percentOf(score, top int) int {
	return int(math.Round(float64(score) / float64(top) * 100))
}

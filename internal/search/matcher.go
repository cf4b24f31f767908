// Package search scores catalog names against free-text queries.
package search

import (
	"sort"
	"strings"
	"unicode"

	"github.com/hbollon/go-edlib"
	"github.com/surgebase/porter2"
)

// DefaultThreshold is the minimum similarity for a fuzzy hit
const DefaultThreshold = 0.80

const minStemLength = 3

// Matcher combines substring hits, Jaro-Winkler similarity and porter2
// stemming. A Matcher is immutable and safe for concurrent use.
type Matcher struct {
	threshold float64
	stemming  bool
}

// Option configures a Matcher
type Option func(*Matcher)

// WithThreshold sets the similarity threshold. Values outside [0,1] keep
// the default.
func WithThreshold(t float64) Option {
	return func(m *Matcher) {
		if t >= 0 && t <= 1 {
			m.threshold = t
		}
	}
}

// WithStemming toggles stemming of query and candidate words
func WithStemming(enabled bool) Option {
	return func(m *Matcher) { m.stemming = enabled }
}

// NewMatcher returns a matcher with stemming on and the default threshold
func NewMatcher(opts ...Option) *Matcher {
	m := &Matcher{threshold: DefaultThreshold, stemming: true}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Threshold returns the configured similarity threshold
func (m *Matcher) Threshold() float64 { return m.threshold }

// Score rates candidate against query in [0,1]. A case-insensitive
// substring hit scores 1.0; otherwise the better of whole-string similarity
// and the mean best per-word similarity.
func (m *Matcher) Score(query, candidate string) float64 {
	q := strings.ToLower(strings.TrimSpace(query))
	c := strings.ToLower(candidate)
	if q == "" || c == "" {
		return 0
	}
	if strings.Contains(c, q) {
		return 1.0
	}

	best := similarity(q, c)

	qWords := m.words(query)
	cWords := m.words(candidate)
	if len(qWords) == 0 || len(cWords) == 0 {
		return best
	}
	total := 0.0
	for _, qw := range qWords {
		wordBest := 0.0
		for _, cw := range cWords {
			if s := similarity(qw, cw); s > wordBest {
				wordBest = s
			}
		}
		total += wordBest
	}
	if avg := total / float64(len(qWords)); avg > best {
		best = avg
	}
	return best
}

// Match reports whether candidate scores at or above the threshold
func (m *Matcher) Match(query, candidate string) bool {
	return m.Score(query, candidate) >= m.threshold
}

// Hit is one ranked candidate
type Hit struct {
	Index     int
	Candidate string
	Score     float64
}

// Rank returns the candidates matching query, best first. Ties are broken
// by candidate text, then by input position. A limit of zero or less
// returns every hit.
func (m *Matcher) Rank(query string, candidates []string, limit int) []Hit {
	var hits []Hit
	for i, cand := range candidates {
		if score := m.Score(query, cand); score >= m.threshold {
			hits = append(hits, Hit{Index: i, Candidate: cand, Score: score})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		if hits[i].Candidate != hits[j].Candidate {
			return hits[i].Candidate < hits[j].Candidate
		}
		return hits[i].Index < hits[j].Index
	})
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits
}

// words splits a name into lower-case words, stemmed when enabled
func (m *Matcher) words(name string) []string {
	parts := SplitWords(name)
	for i, w := range parts {
		w = strings.ToLower(w)
		if m.stemming && len(w) >= minStemLength {
			w = porter2.Stem(w)
		}
		parts[i] = w
	}
	return parts
}

func similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	if a == "" || b == "" {
		return 0
	}
	score, err := edlib.StringsSimilarity(a, b, edlib.JaroWinkler)
	if err != nil {
		return 0
	}
	return float64(score)
}

// SplitWords breaks an identifier into words at separators, lower-to-upper
// case transitions and the end of acronyms: "GtkWindow" gives "Gtk" and
// "Window", "notify::has-focus" gives "notify", "has" and "focus".
func SplitWords(name string) []string {
	var words []string
	runes := []rune(name)
	start := -1
	flush := func(end int) {
		if start >= 0 && end > start {
			words = append(words, string(runes[start:end]))
		}
		start = -1
	}

	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush(i)
			continue
		}
		if start < 0 {
			start = i
			continue
		}
		prev := runes[i-1]
		switch {
		case unicode.IsLower(prev) && unicode.IsUpper(r):
			flush(i)
			start = i
		case unicode.IsUpper(prev) && unicode.IsUpper(r) && i+1 < len(runes) && unicode.IsLower(runes[i+1]):
			flush(i)
			start = i
		}
	}
	flush(len(runes))
	return words
}

// Package classifier identifies a butterfly species from free text by keyword overlap.
//
// Every species in the keyword table scores one point per keyword that occurs as a
// substring of the normalized description. The highest score wins; ties go to the
// species that comes first in the table. When nothing matches, a species is drawn
// uniformly at random from the table so that any description still gets an answer.
package classifier

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/samirrijal/butterflyguide/internal/core/domain"
	"github.com/samirrijal/butterflyguide/internal/core/ports"
)

// Classifier is immutable after construction and safe for concurrent use,
// provided the RandomSource is.
type Classifier struct {
	table []domain.SpeciesKeywordSet
	rng   ports.RandomSource
}

// New builds a classifier over table. The table order is the tie-break order.
// Keywords are lower-cased; the caller's slices are not retained.
func New(table []domain.SpeciesKeywordSet, rng ports.RandomSource) (*Classifier, error) {
	if len(table) == 0 {
		return nil, errors.New("classifier: keyword table is empty")
	}
	if rng == nil {
		return nil, errors.New("classifier: random source is required")
	}

	seen := make(map[domain.SpeciesID]struct{}, len(table))
	owned := make([]domain.SpeciesKeywordSet, 0, len(table))
	for _, set := range table {
		if _, dup := seen[set.Species]; dup {
			return nil, fmt.Errorf("classifier: species %q listed twice", set.Species)
		}
		seen[set.Species] = struct{}{}

		kw := make([]string, 0, len(set.Keywords))
		for _, k := range set.Keywords {
			if k = strings.ToLower(k); k != "" {
				kw = append(kw, k)
			}
		}
		owned = append(owned, domain.SpeciesKeywordSet{Species: set.Species, Keywords: kw})
	}

	return &Classifier{table: owned, rng: rng}, nil
}

// Identify returns the best-matching species, or ok == false for empty input.
func (c *Classifier) Identify(description string) (species domain.SpeciesID, ok bool) {
	res := c.Classify(description)
	return res.Species, res.Identified()
}

// Classify is Identify with the winning score and the way the answer was reached.
func (c *Classifier) Classify(description string) domain.Classification {
	if description == "" {
		return domain.Classification{Outcome: domain.OutcomeEmpty}
	}

	text := Normalize(description)

	best, bestScore := 0, 0
	for i, set := range c.table {
		// strict > keeps the earliest species on ties
		if score := Score(text, set.Keywords); score > bestScore {
			best, bestScore = i, score
		}
	}

	if bestScore == 0 {
		pick := c.rng.Pick(len(c.table))
		return domain.Classification{Species: c.table[pick].Species, Outcome: domain.OutcomeFallback}
	}
	return domain.Classification{Species: c.table[best].Species, Score: bestScore, Outcome: domain.OutcomeMatched}
}

// Species lists the table's species in tie-break order.
func (c *Classifier) Species() []domain.SpeciesID {
	out := make([]domain.SpeciesID, len(c.table))
	for i, set := range c.table {
		out[i] = set.Species
	}
	return out
}

// Normalize lower-cases s and replaces every rune that is not a letter, number,
// underscore or whitespace with a single space.
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimFunc(s, isSpace))
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || r == '_' || isSpace(r) {
			return r
		}
		return ' '
	}, s)
}

// isSpace extends unicode.IsSpace with the ASCII separators U+001C..U+001F,
// which descriptions may carry as whitespace.
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}

// Score counts the keywords occurring anywhere in text, including inside longer words.
func Score(text string, keywords []string) int {
	n := 0
	for _, k := range keywords {
		if strings.Contains(text, k) {
			n++
		}
	}
	return n
}

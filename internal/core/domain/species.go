package domain

import (
	"fmt"
	"strings"
)

// SpeciesID names one butterfly species from the closed set the guide knows about.
type SpeciesID string

const (
	Monarch       SpeciesID = "Monarch"
	Swallowtail   SpeciesID = "Swallowtail"
	BlueMorpho    SpeciesID = "Blue Morpho"
	PaintedLady   SpeciesID = "Painted Lady"
	CommonJezebel SpeciesID = "Common Jezebel"
	Peacock       SpeciesID = "Peacock"
	RedAdmiral    SpeciesID = "Red Admiral"
)

// DefaultFact is shown for a species whose profile carries no fact of its own.
const DefaultFact = "Lovely butterfly!"

// KnownSpecies returns the closed set of recognised species in catalog order.
func KnownSpecies() []SpeciesID {
	return []SpeciesID{Monarch, Swallowtail, BlueMorpho, PaintedLady, CommonJezebel, Peacock, RedAdmiral}
}

// IsKnown reports whether id belongs to the closed species set.
func (id SpeciesID) IsKnown() bool {
	for _, s := range KnownSpecies() {
		if s == id {
			return true
		}
	}
	return false
}

// Slug returns the URL-friendly form, e.g. "blue-morpho".
func (id SpeciesID) Slug() string {
	return strings.ReplaceAll(strings.ToLower(string(id)), " ", "-")
}

func (id SpeciesID) String() string { return string(id) }

// ParseSpecies resolves a display name or slug ("Blue Morpho", "blue-morpho",
// "blue_morpho") to a known species.
func ParseSpecies(raw string) (SpeciesID, error) {
	key := strings.ToLower(strings.TrimSpace(raw))
	key = strings.NewReplacer("-", " ", "_", " ").Replace(key)
	for _, s := range KnownSpecies() {
		if strings.ToLower(string(s)) == key {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSpecies, raw)
}

// SpeciesKeywordSet maps one species to the lowercase tokens that vote for it.
type SpeciesKeywordSet struct {
	Species  SpeciesID `json:"species"`
	Keywords []string  `json:"keywords"`
}

// SpeciesProfile is the display card for a species.
type SpeciesProfile struct {
	Species SpeciesID `json:"species"`
	Slug    string    `json:"slug"`
	Fact    string    `json:"fact"`
	Image   string    `json:"image"`
}

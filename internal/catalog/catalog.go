// Package catalog loads the guide's reference data: keyword table, species profiles
// and migration timelines.
package catalog

import (
	_ "embed" // For embedding data
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/samirrijal/butterflyguide/internal/core/domain"
)

//go:embed data/catalog.yaml
var embeddedCatalog []byte

// Catalog is the decoded reference document. Entry order is significant.
type Catalog struct {
	Species []Entry `yaml:"species"`
}

// Entry describes one species.
type Entry struct {
	Name      domain.SpeciesID  `yaml:"name"`
	Image     string            `yaml:"image"`
	Fact      string            `yaml:"fact"`
	Keywords  []string          `yaml:"keywords"`
	Migration []domain.Waypoint `yaml:"migration"`
}

// Load reads the catalog from path, or the embedded copy when path is empty, and validates it.
func Load(path string) (*Catalog, error) {
	data := embeddedCatalog
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", path, err)
		}
	}
	return Parse(data)
}

// Parse decodes and validates a YAML catalog document.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks the catalog against the closed species set and the timeline invariants.
func (c *Catalog) Validate() error {
	var errs []error

	if len(c.Species) == 0 {
		errs = append(errs, errors.New("no species defined"))
	}

	seen := make(map[domain.SpeciesID]bool)
	for i, e := range c.Species {
		label := fmt.Sprintf("species[%d] %q", i, e.Name)

		if !e.Name.IsKnown() {
			errs = append(errs, fmt.Errorf("%s: %w", label, domain.ErrUnknownSpecies))
		}
		if seen[e.Name] {
			errs = append(errs, fmt.Errorf("%s: duplicate entry", label))
		}
		seen[e.Name] = true

		if len(e.Keywords) == 0 {
			errs = append(errs, fmt.Errorf("%s: no keywords", label))
		}
		for _, k := range e.Keywords {
			if k == "" || k != strings.ToLower(k) {
				errs = append(errs, fmt.Errorf("%s: keyword %q must be non-empty lowercase", label, k))
			}
		}

		if len(e.Migration) == 0 {
			errs = append(errs, fmt.Errorf("%s: no migration waypoints", label))
		}
		months := make(map[domain.Month]bool)
		for _, w := range e.Migration {
			if !w.Month.Valid() {
				errs = append(errs, fmt.Errorf("%s: %w: %q", label, domain.ErrInvalidMonth, w.Month))
			}
			if months[w.Month] {
				errs = append(errs, fmt.Errorf("%s: month %s repeated", label, w.Month))
			}
			months[w.Month] = true
			if !w.Point().Valid() {
				errs = append(errs, fmt.Errorf("%s %s: coordinates out of range", label, w.Month))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid catalog: %w", errors.Join(errs...))
	}
	return nil
}

// KeywordSets returns the classifier table in catalog order.
func (c *Catalog) KeywordSets() []domain.SpeciesKeywordSet {
	out := make([]domain.SpeciesKeywordSet, 0, len(c.Species))
	for _, e := range c.Species {
		out = append(out, domain.SpeciesKeywordSet{
			Species:  e.Name,
			Keywords: append([]string(nil), e.Keywords...),
		})
	}
	return out
}

// Timelines returns the migration timelines in catalog order.
func (c *Catalog) Timelines() []domain.MigrationTimeline {
	out := make([]domain.MigrationTimeline, 0, len(c.Species))
	for _, e := range c.Species {
		out = append(out, domain.MigrationTimeline{
			Species:   e.Name,
			Waypoints: append([]domain.Waypoint(nil), e.Migration...),
		})
	}
	return out
}

// Profiles returns the species display cards in catalog order.
func (c *Catalog) Profiles() []domain.SpeciesProfile {
	out := make([]domain.SpeciesProfile, 0, len(c.Species))
	for _, e := range c.Species {
		fact := e.Fact
		if fact == "" {
			fact = domain.DefaultFact
		}
		out = append(out, domain.SpeciesProfile{
			Species: e.Name,
			Slug:    e.Name.Slug(),
			Fact:    fact,
			Image:   e.Image,
		})
	}
	return out
}

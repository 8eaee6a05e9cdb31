package usecases

import (
	"fmt"

	"github.com/samirrijal/butterflyguide/internal/core/domain"
)

// SpeciesService serves the species display cards.
type SpeciesService struct {
	profiles []domain.SpeciesProfile
	index    map[domain.SpeciesID]int
}

// NewSpeciesService creates a new SpeciesService over profiles in display order.
func NewSpeciesService(profiles []domain.SpeciesProfile) *SpeciesService {
	s := &SpeciesService{
		profiles: make([]domain.SpeciesProfile, len(profiles)),
		index:    make(map[domain.SpeciesID]int, len(profiles)),
	}
	for i, p := range profiles {
		if p.Fact == "" {
			p.Fact = domain.DefaultFact
		}
		s.profiles[i] = p
		s.index[p.Species] = i
	}
	return s
}

// List returns every profile in display order.
func (s *SpeciesService) List() []domain.SpeciesProfile {
	return append([]domain.SpeciesProfile(nil), s.profiles...)
}

// Get returns one profile.
func (s *SpeciesService) Get(species domain.SpeciesID) (domain.SpeciesProfile, error) {
	i, ok := s.index[species]
	if !ok {
		return domain.SpeciesProfile{}, fmt.Errorf("%w: %q", domain.ErrUnknownSpecies, species)
	}
	return s.profiles[i], nil
}

package usecases_test

import (
	"errors"
	"testing"

	"github.com/samirrijal/butterflyguide/internal/core/domain"
	"github.com/samirrijal/butterflyguide/internal/core/usecases"
)

func testProfiles() []domain.SpeciesProfile {
	return []domain.SpeciesProfile{
		{Species: domain.Monarch, Slug: "monarch", Fact: "Monarchs migrate", Image: "monarch.jpg"},
		{Species: domain.Peacock, Slug: "peacock", Image: "peacock.jpg"},
	}
}

func TestSpeciesService_List(t *testing.T) {
	svc := usecases.NewSpeciesService(testProfiles())

	list := svc.List()
	if len(list) != 2 || list[0].Species != domain.Monarch {
		t.Fatalf("unexpected list %+v", list)
	}
	list[0].Fact = "mutated"
	if svc.List()[0].Fact != "Monarchs migrate" {
		t.Error("List must return a copy")
	}
}

func TestSpeciesService_Get_DefaultFact(t *testing.T) {
	svc := usecases.NewSpeciesService(testProfiles())

	p, err := svc.Get(domain.Peacock)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Fact != domain.DefaultFact {
		t.Errorf("expected default fact, got %q", p.Fact)
	}
}

func TestSpeciesService_Get_Unknown(t *testing.T) {
	svc := usecases.NewSpeciesService(testProfiles())
	_, err := svc.Get(domain.RedAdmiral)
	if !errors.Is(err, domain.ErrUnknownSpecies) {
		t.Errorf("expected ErrUnknownSpecies, got %v", err)
	}
}

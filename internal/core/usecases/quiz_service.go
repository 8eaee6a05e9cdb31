package usecases

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/samirrijal/butterflyguide/internal/core/domain"
	"github.com/samirrijal/butterflyguide/internal/core/ports"
	"github.com/samirrijal/butterflyguide/internal/pkg/metrics"
	"github.com/samirrijal/butterflyguide/internal/pkg/telemetry"
)

// QuizTTL is how long a question can be answered.
const QuizTTL = 15 * time.Minute

// QuizService runs the "guess the butterfly" game. Answers live in the cache.
type QuizService struct {
	profiles []domain.SpeciesProfile
	cache    ports.CacheService
	rng      ports.RandomSource

	now   func() time.Time
	newID func() string
}

// NewQuizService creates a new QuizService. cache and rng are required.
func NewQuizService(profiles []domain.SpeciesProfile, cache ports.CacheService, rng ports.RandomSource) *QuizService {
	return &QuizService{
		profiles: append([]domain.SpeciesProfile(nil), profiles...),
		cache:    cache,
		rng:      rng,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

func quizKey(id string) string { return "quiz:" + id }

// NewQuestion picks a species uniformly at random and returns its picture.
func (s *QuizService) NewQuestion(ctx context.Context) (*domain.QuizQuestion, error) {
	ctx, span := telemetry.Tracer().Start(ctx, telemetry.SpanQuizQuestion)
	defer span.End()

	if len(s.profiles) == 0 {
		return nil, errors.New("quiz: no species configured")
	}
	p := s.profiles[s.rng.Pick(len(s.profiles))]

	q := &domain.QuizQuestion{
		ID:        s.newID(),
		Image:     p.Image,
		ExpiresAt: s.now().Add(QuizTTL).UTC(),
	}
	if err := s.cache.Set(ctx, quizKey(q.ID), []byte(p.Species), int(QuizTTL/time.Second)); err != nil {
		return nil, fmt.Errorf("store quiz question: %w", err)
	}
	return q, nil
}

// Answer checks a guess. The question is consumed whether the guess is right or not.
func (s *QuizService) Answer(ctx context.Context, id, guess string) (*domain.QuizResult, error) {
	ctx, span := telemetry.Tracer().Start(ctx, telemetry.SpanQuizAnswer)
	defer span.End()

	data, err := s.cache.Take(ctx, quizKey(id))
	if err != nil {
		if errors.Is(err, ports.ErrCacheMiss) {
			return nil, fmt.Errorf("%w: %s", domain.ErrQuizNotFound, id)
		}
		return nil, fmt.Errorf("take quiz question: %w", err)
	}

	species := domain.SpeciesID(data)
	correct := strings.ToLower(strings.TrimSpace(guess)) == strings.ToLower(species.String())
	metrics.QuizAnswers.WithLabelValues(strconv.FormatBool(correct)).Inc()

	return &domain.QuizResult{Correct: correct, Species: species}, nil
}

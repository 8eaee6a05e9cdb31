package usecases_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/samirrijal/butterflyguide/internal/core/domain"
	"github.com/samirrijal/butterflyguide/internal/core/usecases"
)

func TestQuizService_RoundTrip(t *testing.T) {
	cache := newMockCache()
	svc := usecases.NewQuizService(testProfiles(), cache, fixedRand(1))

	q, err := svc.NewQuestion(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Image != "peacock.jpg" {
		t.Errorf("expected the picked species' image, got %q", q.Image)
	}
	if until := time.Until(q.ExpiresAt); until < 14*time.Minute || until > 16*time.Minute {
		t.Errorf("expected ~15m expiry, got %v", until)
	}
	if cache.ttls["quiz:"+q.ID] != 900 {
		t.Errorf("expected 900s TTL, got %d", cache.ttls["quiz:"+q.ID])
	}

	res, err := svc.Answer(context.Background(), q.ID, "  PEACOCK ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Correct || res.Species != domain.Peacock {
		t.Errorf("expected correct Peacock, got %+v", res)
	}

	if _, err := svc.Answer(context.Background(), q.ID, "peacock"); !errors.Is(err, domain.ErrQuizNotFound) {
		t.Errorf("a question can only be answered once, got %v", err)
	}
}

func TestQuizService_ConcurrentAnswersConsumeOnce(t *testing.T) {
	cache := newMockCache()
	svc := usecases.NewQuizService(testProfiles(), cache, fixedRand(1))

	q, err := svc.NewQuestion(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var answered, notFound atomic.Int32
	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Answer(context.Background(), q.ID, "peacock")
			switch {
			case err == nil:
				answered.Add(1)
			case errors.Is(err, domain.ErrQuizNotFound):
				notFound.Add(1)
			}
		}()
	}
	wg.Wait()

	if answered.Load() != 1 || notFound.Load() != 15 {
		t.Errorf("expected exactly one accepted answer, got %d accepted and %d not found", answered.Load(), notFound.Load())
	}
}

func TestQuizService_WrongGuess(t *testing.T) {
	svc := usecases.NewQuizService(testProfiles(), newMockCache(), fixedRand(0))

	q, err := svc.NewQuestion(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	res, err := svc.Answer(context.Background(), q.ID, "Peacock")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Correct {
		t.Error("expected wrong answer")
	}
	if res.Species != domain.Monarch {
		t.Errorf("expected the real answer to be revealed, got %s", res.Species)
	}
}

func TestQuizService_UnknownQuestion(t *testing.T) {
	svc := usecases.NewQuizService(testProfiles(), newMockCache(), fixedRand(0))
	if _, err := svc.Answer(context.Background(), "nope", "Monarch"); !errors.Is(err, domain.ErrQuizNotFound) {
		t.Errorf("expected ErrQuizNotFound, got %v", err)
	}
}

func TestQuizService_CacheFailure(t *testing.T) {
	cache := newMockCache()
	cache.getErr = errors.New("valkey down")
	svc := usecases.NewQuizService(testProfiles(), cache, fixedRand(0))

	_, err := svc.Answer(context.Background(), "x", "Monarch")
	if err == nil || errors.Is(err, domain.ErrQuizNotFound) {
		t.Errorf("expected a backend error, got %v", err)
	}
}

func TestQuizService_NoSpecies(t *testing.T) {
	svc := usecases.NewQuizService(nil, newMockCache(), fixedRand(0))
	if _, err := svc.NewQuestion(context.Background()); err == nil {
		t.Error("expected error with no species")
	}
}

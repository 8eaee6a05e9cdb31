package usecases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/samirrijal/butterflyguide/internal/core/domain"
	"github.com/samirrijal/butterflyguide/internal/core/usecases"
	"github.com/samirrijal/butterflyguide/internal/pkg/metrics"
)

func TestRecorderService_Record(t *testing.T) {
	history := &mockHistory{}
	svc := usecases.NewRecorderService(history)

	before := testutil.ToFloat64(metrics.EventsRecorded.WithLabelValues("Red Admiral"))
	err := svc.Record(context.Background(), &domain.Identification{ID: "e1", Species: domain.RedAdmiral})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(history.inserted) != 1 || history.inserted[0].ID != "e1" {
		t.Fatalf("expected event inserted, got %+v", history.inserted)
	}
	if got := testutil.ToFloat64(metrics.EventsRecorded.WithLabelValues("Red Admiral")); got != before+1 {
		t.Errorf("expected recorded counter +1, got %v -> %v", before, got)
	}
}

func TestRecorderService_RejectsBadEvents(t *testing.T) {
	history := &mockHistory{}
	svc := usecases.NewRecorderService(history)

	if err := svc.Record(context.Background(), &domain.Identification{Species: domain.Monarch}); err == nil {
		t.Error("expected error for missing id")
	}
	err := svc.Record(context.Background(), &domain.Identification{ID: "e2", Species: "Mothra"})
	if !errors.Is(err, domain.ErrUnknownSpecies) {
		t.Errorf("expected ErrUnknownSpecies, got %v", err)
	}
	if len(history.inserted) != 0 {
		t.Errorf("nothing should be stored, got %d", len(history.inserted))
	}
}

func TestRecorderService_InsertError(t *testing.T) {
	history := &mockHistory{
		insertFn: func(ctx context.Context, ident *domain.Identification) error {
			return errors.New("db down")
		},
	}
	svc := usecases.NewRecorderService(history)

	if err := svc.Record(context.Background(), &domain.Identification{ID: "e3", Species: domain.Peacock}); err == nil {
		t.Fatal("expected error")
	}
}

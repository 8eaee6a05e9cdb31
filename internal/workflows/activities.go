package workflows

import (
	"context"
	"errors"
	"fmt"

	"go.temporal.io/sdk/activity"

	"github.com/samirrijal/butterflyguide/internal/core/domain"
	"github.com/samirrijal/butterflyguide/internal/core/ports"
	"github.com/samirrijal/butterflyguide/internal/core/usecases"
)

// Activity names, as registered from IdentificationActivities' methods.
const (
	ActivityClassify = "ClassifyDescription"
	ActivityRecord   = "RecordIdentification"
	ActivityPublish  = "PublishIdentification"
	ActivityDelete   = "DeleteIdentification"
)

// IdentificationActivities holds the activity implementations for the identification workflow.
type IdentificationActivities struct {
	Identifications *usecases.IdentificationService
	History         ports.IdentificationRepository
	Events          ports.EventPublisher // nil disables publishing
}

// ClassifyDescription runs the classifier. It returns nil for an empty description.
func (a *IdentificationActivities) ClassifyDescription(ctx context.Context, in IdentificationInput) (*domain.Identification, error) {
	source, err := domain.ParseInputSource(string(in.Source))
	if err != nil {
		return nil, err
	}
	return a.Identifications.Classify(ctx, in.Text, source), nil
}

// RecordIdentification appends the identification to the history.
func (a *IdentificationActivities) RecordIdentification(ctx context.Context, ident domain.Identification) error {
	if err := a.History.Insert(ctx, &ident); err != nil {
		return fmt.Errorf("record identification %s: %w", ident.ID, err)
	}
	return nil
}

// PublishIdentification announces the identification on the event bus.
func (a *IdentificationActivities) PublishIdentification(ctx context.Context, ident domain.Identification) error {
	if a.Events == nil {
		activity.GetLogger(ctx).Info("no event publisher configured, skipping", "id", ident.ID)
		return nil
	}
	return a.Events.PublishIdentification(ctx, &ident)
}

// DeleteIdentification removes a recorded identification (saga compensation).
// An entry that is already gone counts as deleted.
func (a *IdentificationActivities) DeleteIdentification(ctx context.Context, id string) error {
	err := a.History.Delete(ctx, id)
	if err != nil && !errors.Is(err, domain.ErrIdentificationNotFound) {
		return fmt.Errorf("delete identification %s: %w", id, err)
	}
	activity.GetLogger(ctx).Info("identification deleted (saga compensation)", "id", id)
	return nil
}

package workflows

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/samirrijal/butterflyguide/internal/core/domain"
)

// TaskQueue is the default Temporal task queue for identification workflows.
const TaskQueue = "identification-queue"

// IdentificationInput is the input for the identification workflow.
type IdentificationInput struct {
	Text   string
	Source domain.InputSource
}

// IdentificationResult is the workflow outcome. Identified is false, and
// Identification nil, when the description was empty.
type IdentificationResult struct {
	Identified     bool
	Identification *domain.Identification
}

// IdentificationWorkflow classifies a description, records the result and publishes it.
// If publishing fails the record is deleted again (saga compensation) and the workflow fails.
// An empty description completes with Identified false and records nothing.
func IdentificationWorkflow(ctx workflow.Context, input IdentificationInput) (IdentificationResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting identification workflow", "source", input.Source)

	actOpts := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, actOpts)

	// Step 1: Classify
	var ident *domain.Identification
	if err := workflow.ExecuteActivity(ctx, ActivityClassify, input).Get(ctx, &ident); err != nil {
		return IdentificationResult{}, err
	}
	if ident == nil {
		logger.Info("Empty description, nothing to record")
		return IdentificationResult{}, nil
	}

	// Step 2: Record
	if err := workflow.ExecuteActivity(ctx, ActivityRecord, *ident).Get(ctx, nil); err != nil {
		return IdentificationResult{}, err
	}

	// Step 3: Publish
	if err := workflow.ExecuteActivity(ctx, ActivityPublish, *ident).Get(ctx, nil); err != nil {
		logger.Warn("publish failed, compensating", "id", ident.ID, "error", err)
		_ = workflow.ExecuteActivity(ctx, ActivityDelete, ident.ID).Get(ctx, nil)
		return IdentificationResult{}, err
	}

	logger.Info("Identification recorded", "id", ident.ID, "species", ident.Species)
	return IdentificationResult{Identified: true, Identification: ident}, nil
}

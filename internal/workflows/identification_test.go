package workflows

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/testsuite"

	"github.com/samirrijal/butterflyguide/internal/adapters/memory"
	"github.com/samirrijal/butterflyguide/internal/catalog"
	"github.com/samirrijal/butterflyguide/internal/core/classifier"
	"github.com/samirrijal/butterflyguide/internal/core/domain"
	"github.com/samirrijal/butterflyguide/internal/core/usecases"
)

type stubPublisher struct {
	err       error
	published []string
}

func (p *stubPublisher) PublishIdentification(_ context.Context, ident *domain.Identification) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, ident.ID)
	return nil
}

func newActivities(t *testing.T, events *stubPublisher) (*IdentificationActivities, *memory.IdentificationRepo) {
	t.Helper()
	cat, err := catalog.Load("")
	require.NoError(t, err)
	cls, err := classifier.New(cat.KeywordSets(), classifier.NewSeededSource(3))
	require.NoError(t, err)

	repo := memory.NewIdentificationRepo(10)
	acts := &IdentificationActivities{
		Identifications: usecases.NewIdentificationService(cls, repo, nil),
		History:         repo,
	}
	if events != nil {
		acts.Events = events
	}
	return acts, repo
}

func runWorkflow(t *testing.T, acts *IdentificationActivities, in IdentificationInput) *testsuite.TestWorkflowEnvironment {
	t.Helper()
	var s testsuite.WorkflowTestSuite
	env := s.NewTestWorkflowEnvironment()
	env.RegisterActivity(acts)
	env.ExecuteWorkflow(IdentificationWorkflow, in)
	require.True(t, env.IsWorkflowCompleted())
	return env
}

func TestIdentificationWorkflow_RecordsAndPublishes(t *testing.T) {
	events := &stubPublisher{}
	acts, repo := newActivities(t, events)

	env := runWorkflow(t, acts, IdentificationInput{Text: "iridescent blue", Source: domain.SourceVoice})
	require.NoError(t, env.GetWorkflowError())

	var res IdentificationResult
	require.NoError(t, env.GetWorkflowResult(&res))
	require.True(t, res.Identified)
	ident := res.Identification
	require.NotNil(t, ident)
	assert.Equal(t, domain.BlueMorpho, ident.Species)
	assert.Equal(t, domain.SourceVoice, ident.Source)

	n, _ := repo.Count(context.Background())
	assert.Equal(t, 1, n)
	assert.Equal(t, []string{ident.ID}, events.published)
}

func TestIdentificationWorkflow_EmptyDescription(t *testing.T) {
	events := &stubPublisher{}
	acts, repo := newActivities(t, events)

	env := runWorkflow(t, acts, IdentificationInput{Text: ""})
	require.NoError(t, env.GetWorkflowError())

	var res IdentificationResult
	require.NoError(t, env.GetWorkflowResult(&res))
	assert.False(t, res.Identified)
	assert.Nil(t, res.Identification)

	n, _ := repo.Count(context.Background())
	assert.Zero(t, n)
	assert.Empty(t, events.published)
}

func TestIdentificationWorkflow_PublishFailureCompensates(t *testing.T) {
	events := &stubPublisher{err: errors.New("nats down")}
	acts, repo := newActivities(t, events)

	env := runWorkflow(t, acts, IdentificationInput{Text: "orange veins"})
	require.Error(t, env.GetWorkflowError())

	n, _ := repo.Count(context.Background())
	assert.Zero(t, n, "recorded identification must be removed")
}

func TestIdentificationWorkflow_NoPublisher(t *testing.T) {
	acts, repo := newActivities(t, nil)

	env := runWorkflow(t, acts, IdentificationInput{Text: "eyespot"})
	require.NoError(t, env.GetWorkflowError())

	n, _ := repo.Count(context.Background())
	assert.Equal(t, 1, n)
}

func TestIdentificationWorkflow_BadSource(t *testing.T) {
	acts, repo := newActivities(t, nil)

	env := runWorkflow(t, acts, IdentificationInput{Text: "eyespot", Source: "carrier-pigeon"})
	require.Error(t, env.GetWorkflowError())

	n, _ := repo.Count(context.Background())
	assert.Zero(t, n)
}

func TestDeleteIdentification_MissingIsSuccess(t *testing.T) {
	var s testsuite.WorkflowTestSuite
	env := s.NewTestActivityEnvironment()
	acts, _ := newActivities(t, nil)
	env.RegisterActivity(acts)

	_, err := env.ExecuteActivity(acts.DeleteIdentification, "does-not-exist")
	assert.NoError(t, err)
}

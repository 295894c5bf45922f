package alerts

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/infracomply/compliance-backend/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFinder struct {
	projects map[string]*model.Project
	err      error
}

func (f *fakeFinder) FindProjectByKey(_ context.Context, key string) (*model.Project, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.projects[key], nil
}

type fakeEvaluator struct {
	evaluated []string
	err       error
}

func (f *fakeEvaluator) EvaluateProject(_ context.Context, p model.Project) error {
	if f.err != nil {
		return f.err
	}
	f.evaluated = append(f.evaluated, p.Key)
	return nil
}

func projectUpdatedMessage(t *testing.T, key string) []byte {
	t.Helper()
	msg, err := json.Marshal(ProjectUpdatedEvent{
		EventType:     "project.updated",
		EventID:       "e1",
		EventTime:     time.Now().UTC(),
		SchemaVersion: "v1",
		ProjectKey:    key,
	})
	require.NoError(t, err)
	return msg
}

func TestHandleProjectUpdated(t *testing.T) {
	p := model.NewProject()
	p.Key = "p1"
	finder := &fakeFinder{projects: map[string]*model.Project{"p1": p}}
	evaluator := &fakeEvaluator{}

	err := HandleProjectUpdated(context.Background(), projectUpdatedMessage(t, "p1"), finder, evaluator)
	require.NoError(t, err)
	assert.Equal(t, []string{"p1"}, evaluator.evaluated)
}

func TestHandleProjectUpdatedRejectsBadMessages(t *testing.T) {
	finder := &fakeFinder{projects: map[string]*model.Project{}}
	evaluator := &fakeEvaluator{}

	err := HandleProjectUpdated(context.Background(), []byte("not json"), finder, evaluator)
	assert.Error(t, err)

	err = HandleProjectUpdated(context.Background(), projectUpdatedMessage(t, ""), finder, evaluator)
	assert.ErrorContains(t, err, "missing project key")

	err = HandleProjectUpdated(context.Background(), projectUpdatedMessage(t, "ghost"), finder, evaluator)
	assert.ErrorContains(t, err, "not found")

	assert.Empty(t, evaluator.evaluated)
}

func TestHandleProjectUpdatedPropagatesEvaluationError(t *testing.T) {
	p := model.NewProject()
	p.Key = "p1"
	finder := &fakeFinder{projects: map[string]*model.Project{"p1": p}}
	evaluator := &fakeEvaluator{err: errors.New("store down")}

	err := HandleProjectUpdated(context.Background(), projectUpdatedMessage(t, "p1"), finder, evaluator)
	assert.ErrorContains(t, err, "internal evaluation error")
}

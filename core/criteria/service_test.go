package criteria_test

import (
	"context"
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tathmini/tathmini/core/criteria"
	dummydb "github.com/tathmini/tathmini/storage/database/dummy"
)

func setup(t *testing.T) *criteria.Service {
	t.Helper()
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}
	return criteria.NewService(dummydb.NewCriteriaRepository(db))
}

func TestService_Create(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	crit, err := svc.Create(ctx, criteria.NewCriterion{
		Name:        "Originality",
		Description: "Novelty of the solution",
		MaxScore:    10,
		Weight:      0.25,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, crit.ID)
	assert.True(t, crit.IsActive)

	// explicit inactive flag is honored
	inactive := false
	crit, err = svc.Create(ctx, criteria.NewCriterion{
		Name:     "Retired",
		MaxScore: 5,
		Weight:   0.1,
		IsActive: &inactive,
	})
	require.NoError(t, err)
	assert.False(t, crit.IsActive)
}

func TestService_QueryActive(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	inactive := false
	_, err := svc.Create(ctx, criteria.NewCriterion{Name: "A", MaxScore: 10, Weight: 0.5})
	require.NoError(t, err)
	_, err = svc.Create(ctx, criteria.NewCriterion{Name: "B", MaxScore: 10, Weight: 0.5, IsActive: &inactive})
	require.NoError(t, err)
	_, err = svc.Create(ctx, criteria.NewCriterion{Name: "C", MaxScore: 10, Weight: 0.5})
	require.NoError(t, err)

	all, err := svc.QueryAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	active, err := svc.QueryActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "A", active[0].Name)
	assert.Equal(t, "C", active[1].Name)
}

func TestService_Update(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	crit, err := svc.Create(ctx, criteria.NewCriterion{
		Name:        "Originality",
		Description: "Novelty of the solution",
		MaxScore:    10,
		Weight:      0.25,
	})
	require.NoError(t, err)

	// partial update; untouched fields survive
	newWeight := 0.3
	updated, err := svc.Update(ctx, crit.ID, criteria.UpdateCriterion{Weight: &newWeight})
	require.NoError(t, err)
	assert.Equal(t, newWeight, updated.Weight)
	assert.Equal(t, crit.Name, updated.Name)
	assert.Equal(t, crit.MaxScore, updated.MaxScore)
	assert.Equal(t, crit.Description, updated.Description)

	retired := false
	updated, err = svc.Update(ctx, crit.ID, criteria.UpdateCriterion{IsActive: &retired})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)

	_, err = svc.Update(ctx, "nope", criteria.UpdateCriterion{})
	assert.Equal(t, criteria.ErrNotFound, pkgerrors.Cause(err))
}

func TestService_Delete(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	crit, err := svc.Create(ctx, criteria.NewCriterion{Name: "A", MaxScore: 10, Weight: 0.5})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, crit.ID))

	_, err = svc.GetByID(ctx, crit.ID)
	assert.Equal(t, criteria.ErrNotFound, pkgerrors.Cause(err))

	assert.Equal(t, criteria.ErrNotFound, pkgerrors.Cause(svc.Delete(ctx, crit.ID)))
}

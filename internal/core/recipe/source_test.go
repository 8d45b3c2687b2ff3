package recipe

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySourceFetchCandidates(t *testing.T) {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	source := NewMemorySource(
		CandidateRecipe{ID: "own-old", OwnerID: "u1", Visibility: VisibilityPrivate, CreatedAt: base},
		CandidateRecipe{ID: "own-new", OwnerID: "u1", Visibility: VisibilityPrivate, CreatedAt: base.Add(time.Hour)},
		CandidateRecipe{ID: "pub", OwnerID: "u2", Visibility: VisibilityPublic, CreatedAt: base.Add(30 * time.Minute)},
		CandidateRecipe{ID: "other", OwnerID: "u2", Visibility: VisibilityPrivate, CreatedAt: base.Add(2 * time.Hour)},
	)

	ids := func(recipes []CandidateRecipe) []string {
		out := make([]string, 0, len(recipes))
		for _, r := range recipes {
			out = append(out, r.ID)
		}
		return out
	}

	got, err := source.FetchCandidates(context.Background(), CandidateQuery{OwnerID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"own-new", "own-old"}, ids(got))

	got, err = source.FetchCandidates(context.Background(), CandidateQuery{OwnerID: "u1", IncludePublic: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"own-new", "pub", "own-old"}, ids(got))

	got, err = source.FetchCandidates(context.Background(), CandidateQuery{OwnerID: "u1", IncludePublic: true, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"own-new", "pub"}, ids(got))
}

func TestMemorySourceCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	source := NewMemorySource()
	_, err := source.FetchCandidates(ctx, CandidateQuery{OwnerID: "u1"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, source.Ping(ctx), context.Canceled)
	assert.NoError(t, source.Ping(context.Background()))
}

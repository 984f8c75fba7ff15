package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anchorhq/anchor/internal/domain"
	"github.com/anchorhq/anchor/internal/testutil"
)

func emotionTestSetup(t *testing.T) (*SQLiteEmotionRepo, string) {
	t.Helper()
	db := testutil.NewTestDB(t)
	ctx := context.Background()

	u := testutil.NewTestUser()
	require.NoError(t, NewSQLiteUserRepo(db).Create(ctx, u))
	return NewSQLiteEmotionRepo(db), u.ID
}

func TestEmotionRepo_UpsertAndGetByDate(t *testing.T) {
	repo, userID := emotionTestSetup(t)
	ctx := context.Background()

	c := testutil.NewTestCheckin(userID, domain.EmotionOkay, "2026-08-01")
	c.Notes = "steady day"
	require.NoError(t, repo.Upsert(ctx, c))

	fetched, err := repo.GetByDate(ctx, userID, "2026-08-01")
	require.NoError(t, err)
	assert.Equal(t, domain.EmotionOkay, fetched.Emotion)
	assert.Equal(t, "steady day", fetched.Notes)
}

func TestEmotionRepo_Upsert_SameDayReplaces(t *testing.T) {
	repo, userID := emotionTestSetup(t)
	ctx := context.Background()

	first := testutil.NewTestCheckin(userID, domain.EmotionEnergized, "2026-08-02")
	require.NoError(t, repo.Upsert(ctx, first))

	second := testutil.NewTestCheckin(userID, domain.EmotionOverwhelmed, "2026-08-02")
	second.Notes = "changed my mind"
	require.NoError(t, repo.Upsert(ctx, second))

	fetched, err := repo.GetByDate(ctx, userID, "2026-08-02")
	require.NoError(t, err)
	assert.Equal(t, domain.EmotionOverwhelmed, fetched.Emotion)
	assert.Equal(t, "changed my mind", fetched.Notes)

	list, err := repo.ListSince(ctx, userID, "2026-08-01")
	require.NoError(t, err)
	assert.Len(t, list, 1, "same-day upsert must not create a second row")
}

func TestEmotionRepo_ListSince(t *testing.T) {
	repo, userID := emotionTestSetup(t)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, testutil.NewTestCheckin(userID, domain.EmotionLow, "2026-08-01")))
	require.NoError(t, repo.Upsert(ctx, testutil.NewTestCheckin(userID, domain.EmotionOkay, "2026-08-03")))
	require.NoError(t, repo.Upsert(ctx, testutil.NewTestCheckin(userID, domain.EmotionEnergized, "2026-07-20")))

	list, err := repo.ListSince(ctx, userID, "2026-08-01")
	require.NoError(t, err)
	require.Len(t, list, 2)
	// Newest first.
	assert.Equal(t, "2026-08-03", list[0].Date)
	assert.Equal(t, "2026-08-01", list[1].Date)
}

func TestEmotionRepo_GetByDate_NotFound(t *testing.T) {
	repo, userID := emotionTestSetup(t)
	ctx := context.Background()

	_, err := repo.GetByDate(ctx, userID, "2026-01-01")
	assert.ErrorIs(t, err, ErrNotFound)
}

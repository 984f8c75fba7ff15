package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anchorhq/anchor/internal/domain"
	"github.com/anchorhq/anchor/internal/testutil"
)

func TestEmotionService_CheckIn(t *testing.T) {
	env := newTestEnv(t)
	svc := NewEmotionService(env.users, env.emotions, env.uow)
	u := env.seedUser(t)
	ctx := context.Background()

	checkin, err := svc.CheckIn(ctx, u.ID, domain.EmotionLow, "rough morning")
	require.NoError(t, err)
	assert.NotEmpty(t, checkin.ID)
	assert.Equal(t, testutil.DateOffset(0), checkin.Date)

	stored, err := env.emotions.GetByDate(ctx, u.ID, checkin.Date)
	require.NoError(t, err)
	assert.Equal(t, domain.EmotionLow, stored.Emotion)
	assert.Equal(t, "rough morning", stored.Notes)

	rollup, err := env.analytics.GetByDate(ctx, u.ID, checkin.Date)
	require.NoError(t, err)
	assert.Equal(t, domain.EmotionLow, rollup.EmotionState)
}

func TestEmotionService_CheckIn_ReplacesSameDay(t *testing.T) {
	env := newTestEnv(t)
	svc := NewEmotionService(env.users, env.emotions, env.uow)
	u := env.seedUser(t)
	ctx := context.Background()

	_, err := svc.CheckIn(ctx, u.ID, domain.EmotionOverwhelmed, "")
	require.NoError(t, err)
	second, err := svc.CheckIn(ctx, u.ID, domain.EmotionOkay, "better now")
	require.NoError(t, err)

	stored, err := env.emotions.GetByDate(ctx, u.ID, second.Date)
	require.NoError(t, err)
	assert.Equal(t, domain.EmotionOkay, stored.Emotion)

	list, err := env.emotions.ListSince(ctx, u.ID, second.Date)
	require.NoError(t, err)
	assert.Len(t, list, 1, "same-day check-in replaces, never duplicates")

	rollup, err := env.analytics.GetByDate(ctx, u.ID, second.Date)
	require.NoError(t, err)
	assert.Equal(t, domain.EmotionOkay, rollup.EmotionState)
}

func TestEmotionService_CheckIn_InvalidEmotion(t *testing.T) {
	env := newTestEnv(t)
	svc := NewEmotionService(env.users, env.emotions, env.uow)
	u := env.seedUser(t)

	_, err := svc.CheckIn(context.Background(), u.ID, "ecstatic", "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestEmotionService_ListRecent(t *testing.T) {
	env := newTestEnv(t)
	svc := NewEmotionService(env.users, env.emotions, env.uow)
	u := env.seedUser(t)
	ctx := context.Background()

	old := testutil.NewTestCheckin(u.ID, domain.EmotionLow, testutil.DateOffset(-9))
	require.NoError(t, env.emotions.Upsert(ctx, old))
	recent := testutil.NewTestCheckin(u.ID, domain.EmotionEnergized, testutil.DateOffset(-1))
	require.NoError(t, env.emotions.Upsert(ctx, recent))

	list, err := svc.ListRecent(ctx, u.ID, 7)
	require.NoError(t, err)
	require.Len(t, list, 1, "window excludes the older check-in")
	assert.Equal(t, domain.EmotionEnergized, list[0].Emotion)

	all, err := svc.ListRecent(ctx, u.ID, 30)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

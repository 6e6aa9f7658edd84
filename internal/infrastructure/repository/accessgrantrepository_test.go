package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pinegate/pinegate/internal/domain/accessgrant"
	"github.com/pinegate/pinegate/internal/shared/db"
	"github.com/pinegate/pinegate/internal/shared/logger"
)

func newTrialGrant(t *testing.T, purchaseID string) *accessgrant.Grant {
	t.Helper()
	days := 7
	g, err := accessgrant.NewGrant(purchaseID, 1, 2, 3, accessgrant.Terms{
		PineID:            "PINE123",
		BuyerUsername:     "trader1",
		AccessType:        accessgrant.AccessTypeTrial,
		TrialDurationDays: &days,
	})
	require.NoError(t, err)
	return g
}

func TestAccessGrantRepository_CreateAndReload(t *testing.T) {
	repo := NewAccessGrantRepository(setupTestDB(t), logger.NewNop())
	ctx := context.Background()

	g := newTrialGrant(t, "order-1")
	require.NoError(t, repo.Create(ctx, g))
	require.NotZero(t, g.ID())

	found, err := repo.GetByID(ctx, g.ID())
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, accessgrant.StatusPending, found.Status())
	assert.Equal(t, accessgrant.AccessTypeTrial, found.AccessType())
	require.NotNil(t, found.Terms().TrialDurationDays)
	assert.Equal(t, 7, *found.Terms().TrialDurationDays)

	byPurchase, err := repo.GetByPurchaseID(ctx, "order-1")
	require.NoError(t, err)
	assert.Equal(t, g.ID(), byPurchase.ID())

	err = repo.Create(ctx, newTrialGrant(t, "order-1"))
	assert.ErrorIs(t, err, accessgrant.ErrDuplicatePurchase)

	missing, err := repo.GetByID(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestAccessGrantRepository_UpdatePersistsOutcome(t *testing.T) {
	repo := NewAccessGrantRepository(setupTestDB(t), logger.NewNop())
	ctx := context.Background()

	g := newTrialGrant(t, "order-2")
	require.NoError(t, repo.Create(ctx, g))

	now := time.Now().UTC().Truncate(time.Second)
	exp := now.AddDate(0, 0, 7)
	require.NoError(t, g.BeginAttempt(now))
	g.RecordScriptID("PUB;abc")
	require.NoError(t, g.MarkAssigned(now, &exp, map[string]any{
		accessgrant.DetailVerification: map[string]any{"can_verify": false},
	}))
	require.NoError(t, repo.Update(ctx, g))
	assert.Equal(t, 2, g.Version())

	found, err := repo.GetByID(ctx, g.ID())
	require.NoError(t, err)
	assert.Equal(t, accessgrant.StatusAssigned, found.Status())
	assert.Equal(t, 1, found.Attempts())
	assert.Equal(t, "PUB;abc", found.ScriptID())
	require.NotNil(t, found.ExpiresAt())
	assert.WithinDuration(t, exp, *found.ExpiresAt(), time.Second)
	assert.Equal(t, map[string]any{"can_verify": false}, found.Details()[accessgrant.DetailVerification])
	assert.EqualValues(t, 1, found.Details()[accessgrant.DetailAttempt])
}

func TestAccessGrantRepository_StaleWriterLoses(t *testing.T) {
	repo := NewAccessGrantRepository(setupTestDB(t), logger.NewNop())
	ctx := context.Background()

	g := newTrialGrant(t, "order-3")
	require.NoError(t, repo.Create(ctx, g))

	a, err := repo.GetByID(ctx, g.ID())
	require.NoError(t, err)
	b, err := repo.GetByID(ctx, g.ID())
	require.NoError(t, err)

	now := time.Now().UTC()
	require.NoError(t, a.BeginAttempt(now))
	require.NoError(t, repo.Update(ctx, a))

	require.NoError(t, b.BeginAttempt(now))
	assert.ErrorIs(t, repo.Update(ctx, b), accessgrant.ErrVersionConflict)

	found, err := repo.GetByID(ctx, g.ID())
	require.NoError(t, err)
	assert.Equal(t, 1, found.Attempts())
}

func TestAssignmentLogRepository_AppendInTransaction(t *testing.T) {
	gdb := setupTestDB(t)
	grants := NewAccessGrantRepository(gdb, logger.NewNop())
	logs := NewAssignmentLogRepository(gdb, logger.NewNop())
	tm := db.NewTransactionManager(gdb)
	ctx := context.Background()

	g := newTrialGrant(t, "order-4")
	require.NoError(t, grants.Create(ctx, g))

	now := time.Now().UTC()
	err := tm.RunInTransaction(ctx, func(txCtx context.Context) error {
		require.NoError(t, g.BeginAttempt(now))
		if err := grants.Update(txCtx, g); err != nil {
			return err
		}
		entry, err := accessgrant.NewLogEntry(g.ID(), accessgrant.LogLevelInfo, "attempt started", map[string]any{"attempt": 1}, now)
		require.NoError(t, err)
		return logs.Append(txCtx, entry)
	})
	require.NoError(t, err)

	second, err := accessgrant.NewLogEntry(g.ID(), accessgrant.LogLevelSuccess, "access granted", nil, now.Add(time.Second))
	require.NoError(t, err)
	require.NoError(t, logs.Append(ctx, second))

	entries, err := logs.ListByGrant(ctx, g.ID())
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "attempt started", entries[0].Message())
	assert.EqualValues(t, 1, entries[0].Details()["attempt"])
	assert.Equal(t, accessgrant.LogLevelSuccess, entries[1].Level())
}

package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pinegate/pinegate/internal/domain/program"
	"github.com/pinegate/pinegate/internal/shared/logger"
)

func TestProgramRepository_DisableBySellers(t *testing.T) {
	repo := NewProgramRepository(setupTestDB(t), logger.NewNop())
	ctx := context.Background()

	var ids []uint
	for _, sellerID := range []uint{1, 1, 2, 3} {
		p, err := program.NewProgram(sellerID, "PINE", "Indicator")
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, p))
		ids = append(ids, p.ID())
	}

	n, err := repo.DisableBySellers(ctx, []uint{1, 3}, program.DisabledReasonSessionBroken)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	// already disabled rows are not counted twice
	n, err = repo.DisableBySellers(ctx, []uint{1}, program.DisabledReasonSessionBroken)
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)

	p, err := repo.GetByID(ctx, ids[0])
	require.NoError(t, err)
	assert.Equal(t, program.StatusDisabled, p.Status())
	assert.Equal(t, program.DisabledReasonSessionBroken, p.DisabledReason())

	p, err = repo.GetByID(ctx, ids[2])
	require.NoError(t, err)
	assert.Equal(t, program.StatusActive, p.Status())

	n, err = repo.DisableBySellers(ctx, nil, "x")
	require.NoError(t, err)
	assert.Zero(t, n)
}

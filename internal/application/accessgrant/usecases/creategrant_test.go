package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pinegate/pinegate/internal/domain/program"
	"github.com/pinegate/pinegate/internal/shared/errors"
	"github.com/pinegate/pinegate/internal/shared/logger"
)

func TestCreateGrant(t *testing.T) {
	f := newFixture(t)
	active, err := program.ReconstructProgram(1, 7, "PINE123", "Smart Trend", program.StatusActive, "", time.Now(), time.Now())
	require.NoError(t, err)
	disabled, err := program.ReconstructProgram(2, 7, "PINE999", "Old", program.StatusDisabled, "seller session expired", time.Now(), time.Now())
	require.NoError(t, err)
	programs := &fakeProgramRepo{programs: map[uint]*program.Program{1: active, 2: disabled}}

	uc := NewCreateGrantUseCase(f.grants, programs, logger.NewNop())
	base := CreateGrantCommand{
		PurchaseID:    "pur-1",
		SellerID:      7,
		BuyerID:       99,
		ProgramID:     1,
		PineID:        "PINE123",
		BuyerUsername: "trader1",
		AccessType:    "full_purchase",
	}

	created, err := uc.Execute(context.Background(), base)
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "pending", created.Status)
	assert.Equal(t, 0, created.Attempts)

	_, err = uc.Execute(context.Background(), base)
	assert.True(t, errors.IsConflictError(err), "duplicate purchase")

	cmd := base
	cmd.PurchaseID = "pur-2"
	cmd.ProgramID = 2
	_, err = uc.Execute(context.Background(), cmd)
	assert.True(t, errors.IsConflictError(err), "disabled program")

	cmd.ProgramID = 3
	_, err = uc.Execute(context.Background(), cmd)
	assert.True(t, errors.IsNotFoundError(err))

	cmd.ProgramID = 0
	cmd.AccessType = "trial"
	_, err = uc.Execute(context.Background(), cmd)
	assert.True(t, errors.IsValidationError(err), "trial without duration")
}

func TestGetGrantAndLogs(t *testing.T) {
	f := newFixture(t)
	g := f.seedGrant("pur-1", fullPurchase("trader1"))
	f.platform.On("SearchUsernames", mock.Anything, f.session(), "trader1").Return([]string{}, nil)
	_, _ = f.assignUseCase().Execute(context.Background(), assignCmd(g, "trader1"))

	got, err := NewGetGrantUseCase(f.grants, logger.NewNop()).Execute(context.Background(), g.ID())
	require.NoError(t, err)
	assert.Equal(t, "failed", got.Status)
	assert.Contains(t, got.ErrorMessage, "not found")

	logs, err := NewListGrantLogsUseCase(f.grants, f.logs, logger.NewNop()).Execute(context.Background(), g.ID())
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "info", logs[0].Level)
	assert.Equal(t, "error", logs[1].Level)

	_, err = NewGetGrantUseCase(f.grants, logger.NewNop()).Execute(context.Background(), 404)
	assert.True(t, errors.IsNotFoundError(err))
	_, err = NewListGrantLogsUseCase(f.grants, f.logs, logger.NewNop()).Execute(context.Background(), 404)
	assert.True(t, errors.IsNotFoundError(err))
}

func TestVerifyAccess(t *testing.T) {
	f := newFixture(t)
	g := f.seedGrant("pur-1", fullPurchase("Trader1"))
	uc := NewVerifyAccessUseCase(f.grants, f.conns, f.catalog, f.platform, prefixVault{}, logger.NewNop())

	f.platform.On("ListAccess", mock.Anything, f.session(), "PUB;abc", "Trader1").Return([]string{"trader1"}, nil).Once()
	result, err := uc.Execute(context.Background(), g.ID())
	require.NoError(t, err)
	assert.True(t, result.CanVerify)
	assert.True(t, result.HasAccess)
	assert.Equal(t, "PUB;abc", result.ScriptID)

	f.platform.On("ListAccess", mock.Anything, f.session(), "PUB;abc", "Trader1").
		Return(nil, errors.NewExternalServiceError("unexpected access list response")).Once()
	result, err = uc.Execute(context.Background(), g.ID())
	require.NoError(t, err)
	assert.False(t, result.CanVerify)
	assert.Equal(t, "unexpected access list response", result.Error)
}

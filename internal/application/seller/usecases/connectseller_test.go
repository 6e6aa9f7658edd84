package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pinegate/pinegate/internal/domain/seller"
	"github.com/pinegate/pinegate/internal/shared/errors"
	"github.com/pinegate/pinegate/internal/shared/logger"
)

func TestConnectSeller(t *testing.T) {
	conns := newFakeConnRepo()
	checker := new(mockChecker)
	checker.On("CheckSession", mock.Anything, seller.Session{ID: "abc", Sign: "def"}).Return(true, "", nil).Once()

	uc := NewConnectSellerUseCase(conns, prefixVault{}, checker, logger.NewNop())
	uc.SetClock(func() time.Time { return probeNow })

	result, err := uc.Execute(context.Background(), ConnectSellerCommand{
		SellerID:         5,
		PlatformUsername: " alice ",
		SessionID:        "abc",
		SessionSign:      "def",
	})
	require.NoError(t, err)
	assert.Equal(t, "active", result.Status)
	assert.Equal(t, "alice", result.PlatformUsername)
	assert.True(t, result.HasCredentials)

	stored := conns.conns[5]
	require.NotNil(t, stored)
	assert.Equal(t, "v1:abc", *stored.SessionIDEnc(), "only sealed values are stored")
	assert.Equal(t, "v1:def", *stored.SessionSignEnc())
}

func TestConnectSeller_RejectedSessionIsStillStored(t *testing.T) {
	conns := newFakeConnRepo()
	seedConn(conns, 5, nil)
	checker := new(mockChecker)
	checker.On("CheckSession", mock.Anything, mock.Anything).Return(false, "settings page returned HTTP 403", nil)

	uc := NewConnectSellerUseCase(conns, prefixVault{}, checker, logger.NewNop())
	result, err := uc.Execute(context.Background(), ConnectSellerCommand{SellerID: 5, SessionID: "new", SessionSign: "pair"})
	require.NoError(t, err)
	assert.Equal(t, "expired", result.Status)
	assert.Equal(t, "settings page returned HTTP 403", result.LastError)
	assert.Equal(t, "seller", result.PlatformUsername, "username kept when omitted")
	assert.Equal(t, "v1:new", *conns.conns[5].SessionIDEnc())
}

func TestConnectSeller_Validation(t *testing.T) {
	uc := NewConnectSellerUseCase(newFakeConnRepo(), prefixVault{}, new(mockChecker), logger.NewNop())

	cases := map[string]ConnectSellerCommand{
		"missing seller":         {PlatformUsername: "alice", SessionID: "a", SessionSign: "b"},
		"missing session id":     {SellerID: 1, PlatformUsername: "alice", SessionSign: "b"},
		"missing signature":      {SellerID: 1, PlatformUsername: "alice", SessionID: "a"},
		"new seller no username": {SellerID: 1, SessionID: "a", SessionSign: "b"},
	}
	for name, cmd := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), cmd)
			require.Error(t, err)
			assert.True(t, errors.IsValidationError(err))
		})
	}
}

func TestTestConnection(t *testing.T) {
	conns := newFakeConnRepo()
	seedConn(conns, 1, nil)
	checker := new(mockChecker)
	checker.On("CheckSession", mock.Anything, sessionFor(1)).Return(true, "", nil)

	uc := NewTestConnectionUseCase(conns, prefixVault{}, checker, logger.NewNop())
	uc.SetClock(func() time.Time { return probeNow })

	result, err := uc.Execute(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "active", result.Status)
	assert.Equal(t, probeNow, *result.LastValidatedAt)

	_, err = uc.Execute(context.Background(), 9)
	assert.True(t, errors.IsNotFoundError(err))

	conns.conns[1].Disconnect(probeNow)
	_, err = uc.Execute(context.Background(), 1)
	assert.True(t, errors.IsCredentialError(err))
}

func TestDisconnectSeller(t *testing.T) {
	conns := newFakeConnRepo()
	now := probeNow
	seedConn(conns, 1, &now)
	programs := newFakeProgramRepo()

	uc := NewDisconnectSellerUseCase(conns, programs, logger.NewNop())
	result, err := uc.Execute(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "disconnected", result.Status)
	assert.False(t, result.HasCredentials)
	assert.Nil(t, conns.conns[1].SessionIDEnc())
	assert.Equal(t, reasonDisconnected, programs.disabled[1])

	got, err := NewGetConnectionUseCase(conns, logger.NewNop()).Execute(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "disconnected", got.Status)
}

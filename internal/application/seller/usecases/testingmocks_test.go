package usecases

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/pinegate/pinegate/internal/domain/program"
	"github.com/pinegate/pinegate/internal/domain/seller"
	"github.com/pinegate/pinegate/internal/shared/errors"
)

type mockChecker struct {
	mock.Mock
}

func (m *mockChecker) CheckSession(ctx context.Context, sess seller.Session) (bool, string, error) {
	args := m.Called(ctx, sess)
	return args.Bool(0), args.String(1), args.Error(2)
}

type prefixVault struct{}

func (prefixVault) Encrypt(v string) (string, error) { return "v1:" + v, nil }

func (prefixVault) IsSealed(v string) bool { return strings.HasPrefix(v, "v1:") }

func (prefixVault) Decrypt(v string) (string, error) {
	plain, ok := strings.CutPrefix(v, "v1:")
	if !ok {
		return "", errors.NewCredentialError("failed to decrypt session credential", "unknown ciphertext format")
	}
	return plain, nil
}

type fakeConnRepo struct {
	mu        sync.Mutex
	conns     map[uint]*seller.SellerConnection
	failWrite bool
}

func newFakeConnRepo() *fakeConnRepo {
	return &fakeConnRepo{conns: map[uint]*seller.SellerConnection{}}
}

func (r *fakeConnRepo) Create(ctx context.Context, c *seller.SellerConnection) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := c.SetID(uint(len(r.conns) + 1)); err != nil {
		return err
	}
	r.conns[c.SellerID()] = c
	return nil
}

func (r *fakeConnRepo) Update(ctx context.Context, c *seller.SellerConnection) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWrite {
		return errors.NewInternalError("database unavailable")
	}
	c.SetVersion(c.Version() + 1)
	r.conns[c.SellerID()] = c
	return nil
}

func (r *fakeConnRepo) GetBySellerID(ctx context.Context, sellerID uint) (*seller.SellerConnection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.conns[sellerID], nil
}

func (r *fakeConnRepo) ListProbeCandidates(ctx context.Context) ([]*seller.SellerConnection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*seller.SellerConnection
	for id := uint(1); id <= 100; id++ {
		if c, ok := r.conns[id]; ok && c.IsProbeCandidate() {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeConnRepo) ListNonActiveSellerIDs(ctx context.Context) ([]uint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []uint
	for id := uint(1); id <= 100; id++ {
		if c, ok := r.conns[id]; ok && !c.Status().IsActive() {
			out = append(out, id)
		}
	}
	return out, nil
}

type fakeProgramRepo struct {
	disabled map[uint]string
}

func newFakeProgramRepo() *fakeProgramRepo {
	return &fakeProgramRepo{disabled: map[uint]string{}}
}

func (r *fakeProgramRepo) Create(ctx context.Context, p *program.Program) error { return nil }

func (r *fakeProgramRepo) GetByID(ctx context.Context, id uint) (*program.Program, error) {
	return nil, nil
}

func (r *fakeProgramRepo) DisableBySellers(ctx context.Context, sellerIDs []uint, reason string) (int64, error) {
	var n int64
	for _, id := range sellerIDs {
		if _, ok := r.disabled[id]; !ok {
			r.disabled[id] = reason
			n++
		}
	}
	return n, nil
}

// seedConn stores a connection for sellerID holding session "sid-N".
func seedConn(repo *fakeConnRepo, sellerID uint, validatedAt *time.Time) *seller.SellerConnection {
	c, err := seller.NewSellerConnection(sellerID, "seller")
	if err != nil {
		panic(err)
	}
	id := "v1:sid-" + string(rune('0'+sellerID))
	if err := c.ReplaceCredentials("", id, "v1:sign", prefixVault{}); err != nil {
		panic(err)
	}
	if validatedAt != nil {
		c.MarkActive(*validatedAt)
	}
	repo.conns[sellerID] = c
	return c
}

func sessionFor(sellerID uint) seller.Session {
	return seller.Session{ID: "sid-" + string(rune('0'+sellerID)), Sign: "sign"}
}

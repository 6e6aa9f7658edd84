package usecases

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pinegate/pinegate/internal/domain/accessgrant"
	"github.com/pinegate/pinegate/internal/domain/catalog"
	"github.com/pinegate/pinegate/internal/domain/program"
	"github.com/pinegate/pinegate/internal/domain/seller"
	"github.com/pinegate/pinegate/internal/infrastructure/tradingview"
	"github.com/pinegate/pinegate/internal/shared/errors"
	"github.com/pinegate/pinegate/internal/shared/logger"
)

type mockPlatform struct {
	mock.Mock
}

func (m *mockPlatform) SearchUsernames(ctx context.Context, sess seller.Session, query string) ([]string, error) {
	args := m.Called(ctx, sess, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockPlatform) AddAccess(ctx context.Context, sess seller.Session, scriptID, username string, expiresAt *time.Time) (*tradingview.Response, error) {
	args := m.Called(ctx, sess, scriptID, username, expiresAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tradingview.Response), args.Error(1)
}

func (m *mockPlatform) RemoveAccess(ctx context.Context, sess seller.Session, scriptID, username string) (*tradingview.Response, error) {
	args := m.Called(ctx, sess, scriptID, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tradingview.Response), args.Error(1)
}

func (m *mockPlatform) ListAccess(ctx context.Context, sess seller.Session, scriptID, username string) ([]string, error) {
	args := m.Called(ctx, sess, scriptID, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// prefixVault seals by prefixing; good enough to exercise the credential gate.
type prefixVault struct{}

func (prefixVault) IsSealed(v string) bool { return strings.HasPrefix(v, "v1:") }

func (prefixVault) Decrypt(v string) (string, error) {
	plain, ok := strings.CutPrefix(v, "v1:")
	if !ok {
		return "", errors.NewCredentialError("failed to decrypt session credential", "unknown ciphertext format")
	}
	return plain, nil
}

type fakeGrantRepo struct {
	mu     sync.Mutex
	nextID uint
	rows   map[uint]*accessgrant.Grant
}

func newFakeGrantRepo() *fakeGrantRepo {
	return &fakeGrantRepo{rows: map[uint]*accessgrant.Grant{}}
}

func (r *fakeGrantRepo) Create(ctx context.Context, g *accessgrant.Grant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.rows {
		if existing.PurchaseID() == g.PurchaseID() {
			return accessgrant.ErrDuplicatePurchase
		}
	}
	r.nextID++
	if err := g.SetID(r.nextID); err != nil {
		return err
	}
	r.rows[g.ID()] = clone(g)
	return nil
}

func (r *fakeGrantRepo) Update(ctx context.Context, g *accessgrant.Grant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.rows[g.ID()]
	if !ok || stored.Version() != g.Version() {
		return accessgrant.ErrVersionConflict
	}
	g.SetVersion(g.Version() + 1)
	r.rows[g.ID()] = clone(g)
	return nil
}

func (r *fakeGrantRepo) GetByID(ctx context.Context, id uint) (*accessgrant.Grant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.rows[id]
	if !ok {
		return nil, nil
	}
	return clone(g), nil
}

func (r *fakeGrantRepo) GetByPurchaseID(ctx context.Context, purchaseID string) (*accessgrant.Grant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, g := range r.rows {
		if g.PurchaseID() == purchaseID {
			return clone(g), nil
		}
	}
	return nil, nil
}

func clone(g *accessgrant.Grant) *accessgrant.Grant {
	c, err := accessgrant.ReconstructGrant(
		g.ID(), g.PurchaseID(), g.SellerID(), g.BuyerID(), g.ProgramID(),
		g.Terms(), g.ScriptID(), g.Status(), g.Attempts(),
		g.LastAttemptAt(), g.AssignedAt(), g.ExpiresAt(),
		g.ErrorMessage(), g.Details(), g.Version(), g.CreatedAt(), g.UpdatedAt(),
	)
	if err != nil {
		panic(err)
	}
	return c
}

type fakeLogRepo struct {
	mu      sync.Mutex
	entries []*accessgrant.LogEntry
}

func (r *fakeLogRepo) Append(ctx context.Context, e *accessgrant.LogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := e.SetID(uint(len(r.entries) + 1)); err != nil {
		return err
	}
	r.entries = append(r.entries, e)
	return nil
}

func (r *fakeLogRepo) ListByGrant(ctx context.Context, grantID uint) ([]*accessgrant.LogEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*accessgrant.LogEntry
	for _, e := range r.entries {
		if e.GrantID() == grantID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeLogRepo) levels(grantID uint) []accessgrant.LogLevel {
	entries, _ := r.ListByGrant(context.Background(), grantID)
	out := make([]accessgrant.LogLevel, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Level())
	}
	return out
}

type fakeConnRepo struct {
	conns map[uint]*seller.SellerConnection
}

func (r *fakeConnRepo) Create(ctx context.Context, c *seller.SellerConnection) error { return nil }
func (r *fakeConnRepo) Update(ctx context.Context, c *seller.SellerConnection) error { return nil }

func (r *fakeConnRepo) GetBySellerID(ctx context.Context, sellerID uint) (*seller.SellerConnection, error) {
	return r.conns[sellerID], nil
}

func (r *fakeConnRepo) ListProbeCandidates(ctx context.Context) ([]*seller.SellerConnection, error) {
	return nil, nil
}

func (r *fakeConnRepo) ListNonActiveSellerIDs(ctx context.Context) ([]uint, error) {
	return nil, nil
}

type fakeCatalogRepo struct {
	entries []*catalog.Entry
}

func (r *fakeCatalogRepo) Upsert(ctx context.Context, e *catalog.Entry) error {
	r.entries = append(r.entries, e)
	return nil
}

func (r *fakeCatalogRepo) GetBySellerAndPineID(ctx context.Context, sellerID uint, pineID string) (*catalog.Entry, error) {
	for _, e := range r.entries {
		if e.SellerID() == sellerID && e.PineID() != nil && *e.PineID() == pineID {
			return e, nil
		}
	}
	return nil, nil
}

func (r *fakeCatalogRepo) GetBySellerAndScriptID(ctx context.Context, sellerID uint, scriptID string) (*catalog.Entry, error) {
	for _, e := range r.entries {
		if e.SellerID() == sellerID && e.ScriptID() == scriptID {
			return e, nil
		}
	}
	return nil, nil
}

func (r *fakeCatalogRepo) ListBySeller(ctx context.Context, sellerID uint, filter catalog.ListFilter) ([]*catalog.Entry, int64, error) {
	return r.entries, int64(len(r.entries)), nil
}

type fakeProgramRepo struct {
	programs map[uint]*program.Program
}

func (r *fakeProgramRepo) Create(ctx context.Context, p *program.Program) error { return nil }

func (r *fakeProgramRepo) GetByID(ctx context.Context, id uint) (*program.Program, error) {
	return r.programs[id], nil
}

func (r *fakeProgramRepo) DisableBySellers(ctx context.Context, sellerIDs []uint, reason string) (int64, error) {
	return 0, nil
}

// fakeLocker mimics the redis grant lock in memory.
type fakeLocker struct {
	mu   sync.Mutex
	held map[uint]bool
}

func newFakeLocker() *fakeLocker {
	return &fakeLocker{held: map[uint]bool{}}
}

func (l *fakeLocker) Acquire(ctx context.Context, grantID uint) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[grantID] {
		return nil, errors.NewConflictError("another attempt for this grant is in progress")
	}
	l.held[grantID] = true
	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.held, grantID)
	}, nil
}

type directTx struct{}

func (directTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixture struct {
	t        *testing.T
	grants   *fakeGrantRepo
	logs     *fakeLogRepo
	conns    *fakeConnRepo
	catalog  *fakeCatalogRepo
	platform *mockPlatform
	locker   *fakeLocker
	now      time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	conn, err := seller.NewSellerConnection(7, "alice")
	require.NoError(t, err)
	require.NoError(t, conn.ReplaceCredentials("", "v1:sid", "v1:sign", prefixVault{}))
	conn.MarkActive(time.Now())

	entry, err := catalog.NewEntry(7, "PUB;abc", "PINE123", "Smart Trend", "https://tv.test/script/PUB;abc/", "", 0, 0, time.Now())
	require.NoError(t, err)

	return &fixture{
		t:        t,
		grants:   newFakeGrantRepo(),
		logs:     &fakeLogRepo{},
		conns:    &fakeConnRepo{conns: map[uint]*seller.SellerConnection{7: conn}},
		catalog:  &fakeCatalogRepo{entries: []*catalog.Entry{entry}},
		platform: new(mockPlatform),
		locker:   newFakeLocker(),
		now:      time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (f *fixture) session() seller.Session {
	return seller.Session{ID: "sid", Sign: "sign"}
}

func (f *fixture) seedGrant(purchaseID string, terms accessgrant.Terms) *accessgrant.Grant {
	f.t.Helper()
	g, err := accessgrant.NewGrant(purchaseID, 7, 99, 0, terms)
	require.NoError(f.t, err)
	require.NoError(f.t, f.grants.Create(context.Background(), g))
	return g
}

func (f *fixture) assignUseCase() *AssignAccessUseCase {
	uc := NewAssignAccessUseCase(f.grants, f.logs, f.conns, f.catalog, f.platform, prefixVault{}, f.locker, directTx{}, logger.NewNop())
	uc.SetClock(func() time.Time { return f.now })
	return uc
}

func (f *fixture) revokeUseCase() *RevokeAccessUseCase {
	uc := NewRevokeAccessUseCase(f.grants, f.logs, f.conns, f.catalog, f.platform, prefixVault{}, f.locker, directTx{}, logger.NewNop())
	uc.SetClock(func() time.Time { return f.now })
	return uc
}

func fullPurchase(username string) accessgrant.Terms {
	return accessgrant.Terms{PineID: "PINE123", BuyerUsername: username, AccessType: accessgrant.AccessTypeFullPurchase}
}

func ok(body string) *tradingview.Response {
	return &tradingview.Response{StatusCode: 200, Body: []byte(body)}
}

func intPtr(v int) *int {
	return &v
}

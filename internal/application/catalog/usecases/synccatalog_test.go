package usecases

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/pinegate/pinegate/internal/domain/catalog"
	"github.com/pinegate/pinegate/internal/domain/seller"
	"github.com/pinegate/pinegate/internal/infrastructure/migration"
	"github.com/pinegate/pinegate/internal/infrastructure/repository"
	"github.com/pinegate/pinegate/internal/infrastructure/tradingview"
	"github.com/pinegate/pinegate/internal/infrastructure/vault"
	sharedConfig "github.com/pinegate/pinegate/internal/shared/config"
	"github.com/pinegate/pinegate/internal/shared/errors"
	"github.com/pinegate/pinegate/internal/shared/logger"
)

const testBase = "https://tv.test"

type syncEnv struct {
	conns   seller.ConnectionRepository
	entries catalog.EntryRepository
	vault   *vault.Vault
	uc      *SyncCatalogUseCase
	list    *ListCatalogUseCase
}

func setupSyncEnv(t *testing.T) *syncEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(migration.AutoMigrateModels()...))

	hc := &http.Client{}
	httpmock.ActivateNonDefault(hc)
	t.Cleanup(httpmock.DeactivateAndReset)

	client := tradingview.NewClient(sharedConfig.PlatformConfig{
		BaseURL:        testBase,
		UserAgent:      "test-agent",
		MaxReadRetries: 0,
		ScriptListPath: "/api/v1/user/profile/scripts/",
		SettingsPath:   "/settings/",
		SessionMarker:  `"is_authenticated":true`,
	}, hc, logger.NewNop())

	v, err := vault.NewFromSecret("catalog-test-secret")
	require.NoError(t, err)

	env := &syncEnv{
		conns:   repository.NewSellerConnectionRepository(db, logger.NewNop()),
		entries: repository.NewCatalogEntryRepository(db, logger.NewNop()),
		vault:   v,
	}
	env.uc = NewSyncCatalogUseCase(env.conns, env.entries, client, v, logger.NewNop())
	env.uc.SetClock(func() time.Time { return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC) })
	env.list = NewListCatalogUseCase(env.entries, logger.NewNop())
	return env
}

func (e *syncEnv) connect(t *testing.T, sellerID uint, active bool) {
	t.Helper()
	conn, err := seller.NewSellerConnection(sellerID, "alice")
	require.NoError(t, err)
	sid, err := e.vault.Encrypt("sid-1")
	require.NoError(t, err)
	sign, err := e.vault.Encrypt("sign-1")
	require.NoError(t, err)
	require.NoError(t, conn.ReplaceCredentials("", sid, sign, e.vault))
	if active {
		conn.MarkActive(time.Now().UTC())
	} else {
		conn.MarkExpired(time.Now().UTC(), "settings page returned HTTP 403")
	}
	require.NoError(t, e.conns.Create(context.Background(), conn))
}

func registerProfile() {
	httpmock.RegisterResponder(http.MethodGet, testBase+"/u/alice/",
		httpmock.NewStringResponder(200, `<script>window.init={"id":4242,"username":"alice","is_pro":true}</script>`))
}

func TestSyncCatalog_UpsertsListing(t *testing.T) {
	env := setupSyncEnv(t)
	env.connect(t, 7, true)
	registerProfile()
	httpmock.RegisterResponder(http.MethodGet, testBase+"/api/v1/user/profile/scripts/",
		func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, "4242", req.URL.Query().Get("by"))
			sid, err := req.Cookie("sessionid")
			require.NoError(t, err)
			assert.Equal(t, "sid-1", sid.Value)
			return httpmock.NewStringResponse(200, `{"results":[
				{"name":"Smart Trend","chart_url":"https://www.tradingview.com/script/AbC1-Smart-Trend/","likes_count":12,"script_id_part":"PUB;abc"},
				{"name":"Volume Map","chart_url":"","likes_count":3,"script_id_part":"PUB;xyz"}
			]}`), nil
		})

	result, err := env.uc.Execute(context.Background(), SyncCatalogCommand{SellerID: 7})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Count)

	entry, err := env.entries.GetBySellerAndPineID(context.Background(), 7, "PUB;abc")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "AbC1-Smart-Trend", entry.ScriptID())
	assert.Equal(t, 12, entry.LikesCount())

	entry, err = env.entries.GetBySellerAndScriptID(context.Background(), 7, "PUB;xyz")
	require.NoError(t, err)
	require.NotNil(t, entry, "private id is the script id when the url has none")

	// a second sync updates rather than duplicates
	_, err = env.uc.Execute(context.Background(), SyncCatalogCommand{SellerID: 7})
	require.NoError(t, err)
	listed, err := env.list.Execute(context.Background(), ListCatalogQuery{SellerID: 7, SortBy: "title"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), listed.Total)
	require.Len(t, listed.Items, 2)
	assert.Equal(t, "Smart Trend", listed.Items[0].Title)
	assert.Equal(t, "PUB;abc", listed.Items[0].ExternalScriptID)
}

func TestSyncCatalog_ZeroScriptsIsSuccess(t *testing.T) {
	env := setupSyncEnv(t)
	env.connect(t, 7, true)
	registerProfile()
	httpmock.RegisterResponder(http.MethodGet, testBase+"/api/v1/user/profile/scripts/",
		httpmock.NewStringResponder(200, `{"results":[]}`))

	result, err := env.uc.Execute(context.Background(), SyncCatalogCommand{SellerID: 7})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Count)
}

func TestSyncCatalog_Failures(t *testing.T) {
	t.Run("listing not recognised", func(t *testing.T) {
		env := setupSyncEnv(t)
		env.connect(t, 7, true)
		registerProfile()
		httpmock.RegisterResponder(http.MethodGet, testBase+"/api/v1/user/profile/scripts/",
			httpmock.NewStringResponder(200, `<html><body>Sign in</body></html>`))

		_, err := env.uc.Execute(context.Background(), SyncCatalogCommand{SellerID: 7})
		require.Error(t, err)
		assert.True(t, errors.IsExternalServiceError(err))
	})

	t.Run("embedded json does not decode", func(t *testing.T) {
		env := setupSyncEnv(t)
		env.connect(t, 7, true)
		registerProfile()
		httpmock.RegisterResponder(http.MethodGet, testBase+"/api/v1/user/profile/scripts/",
			httpmock.NewStringResponder(200, `<script type="application/json">{"scripts": [ {"name": "A", broken</script>`))

		_, err := env.uc.Execute(context.Background(), SyncCatalogCommand{SellerID: 7})
		require.Error(t, err)
		assert.True(t, errors.IsExternalServiceError(err))
	})

	t.Run("listing non-2xx", func(t *testing.T) {
		env := setupSyncEnv(t)
		env.connect(t, 7, true)
		registerProfile()
		httpmock.RegisterResponder(http.MethodGet, testBase+"/api/v1/user/profile/scripts/",
			httpmock.NewStringResponder(403, `forbidden`))

		_, err := env.uc.Execute(context.Background(), SyncCatalogCommand{SellerID: 7})
		require.Error(t, err)
		assert.True(t, errors.IsExternalServiceError(err))
	})

	t.Run("expired session", func(t *testing.T) {
		env := setupSyncEnv(t)
		env.connect(t, 7, false)

		_, err := env.uc.Execute(context.Background(), SyncCatalogCommand{SellerID: 7})
		require.Error(t, err)
		assert.True(t, errors.IsCredentialError(err))
		assert.Zero(t, httpmock.GetTotalCallCount())
	})

	t.Run("never connected", func(t *testing.T) {
		env := setupSyncEnv(t)
		_, err := env.uc.Execute(context.Background(), SyncCatalogCommand{SellerID: 8})
		require.Error(t, err)
		assert.True(t, errors.IsCredentialError(err))
	})
}

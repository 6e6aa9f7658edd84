package seller

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogdto "github.com/pinegate/pinegate/internal/application/catalog/dto"
	catalogusecases "github.com/pinegate/pinegate/internal/application/catalog/usecases"
	"github.com/pinegate/pinegate/internal/application/seller/dto"
	"github.com/pinegate/pinegate/internal/application/seller/usecases"
	"github.com/pinegate/pinegate/internal/interfaces/http/handlers/testutil"
	"github.com/pinegate/pinegate/internal/shared/errors"
)

type mockConnectUC struct {
	result *dto.ConnectionDTO
	err    error
	got    usecases.ConnectSellerCommand
}

func (m *mockConnectUC) Execute(ctx context.Context, cmd usecases.ConnectSellerCommand) (*dto.ConnectionDTO, error) {
	m.got = cmd
	return m.result, m.err
}

type mockSellerIDUC struct {
	result *dto.ConnectionDTO
	err    error
	got    uint
}

func (m *mockSellerIDUC) Execute(ctx context.Context, sellerID uint) (*dto.ConnectionDTO, error) {
	m.got = sellerID
	return m.result, m.err
}

type mockSyncUC struct {
	result *catalogdto.SyncResultDTO
	err    error
}

func (m *mockSyncUC) Execute(ctx context.Context, cmd catalogusecases.SyncCatalogCommand) (*catalogdto.SyncResultDTO, error) {
	return m.result, m.err
}

type mockListUC struct {
	result *catalogusecases.ListCatalogResult
	got    catalogusecases.ListCatalogQuery
}

func (m *mockListUC) Execute(ctx context.Context, query catalogusecases.ListCatalogQuery) (*catalogusecases.ListCatalogResult, error) {
	m.got = query
	return m.result, nil
}

type mockProbeUC struct {
	result *dto.ProbeSummaryDTO
}

func (m *mockProbeUC) Execute(ctx context.Context) (*dto.ProbeSummaryDTO, error) {
	return m.result, nil
}

func TestHandler_Connect(t *testing.T) {
	connect := &mockConnectUC{result: &dto.ConnectionDTO{SellerID: 7, Status: "active", HasCredentials: true}}
	h := NewHandler(connect, nil, nil, nil, nil, nil, nil, testutil.NewMockLogger())

	c, w := testutil.NewTestContext(http.MethodPut, "/sellers/7/connection", ConnectSellerRequest{
		PlatformUsername: "alice",
		SessionID:        "abc",
		SessionSign:      "def",
	})
	testutil.SetURLParam(c, "id", "7")
	h.Connect(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, usecases.ConnectSellerCommand{SellerID: 7, PlatformUsername: "alice", SessionID: "abc", SessionSign: "def"}, connect.got)
	assert.NotContains(t, w.Body.String(), "abc", "session material is never echoed")
}

func TestHandler_Connect_Invalid(t *testing.T) {
	h := NewHandler(&mockConnectUC{}, nil, nil, nil, nil, nil, nil, testutil.NewMockLogger())

	c, w := testutil.NewTestContext(http.MethodPut, "/sellers/7/connection", map[string]string{"session_id": "abc"})
	testutil.SetURLParam(c, "id", "7")
	h.Connect(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	c, w = testutil.NewTestContext(http.MethodPut, "/sellers/x/connection", ConnectSellerRequest{SessionID: "a", SessionSign: "b"})
	testutil.SetURLParam(c, "id", "x")
	h.Connect(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_TestConnection_CredentialError(t *testing.T) {
	test := &mockSellerIDUC{err: errors.NewCredentialError("seller has no stored session; connect first")}
	h := NewHandler(nil, nil, test, nil, nil, nil, nil, testutil.NewMockLogger())

	c, w := testutil.NewTestContext(http.MethodPost, "/sellers/3/connection/test", nil)
	testutil.SetURLParam(c, "id", "3")
	h.TestConnection(c)

	assert.Equal(t, http.StatusFailedDependency, w.Code)
	assert.Equal(t, uint(3), test.got)
	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "credential_error", resp.Error.Type)
}

func TestHandler_Disconnect(t *testing.T) {
	disconnect := &mockSellerIDUC{result: &dto.ConnectionDTO{SellerID: 3, Status: "disconnected"}}
	h := NewHandler(nil, nil, nil, disconnect, nil, nil, nil, testutil.NewMockLogger())

	c, w := testutil.NewTestContext(http.MethodDelete, "/sellers/3/connection", nil)
	testutil.SetURLParam(c, "id", "3")
	h.Disconnect(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"disconnected"`)
}

func TestHandler_SyncCatalog_ExternalFailure(t *testing.T) {
	sync := &mockSyncUC{err: errors.NewExternalServiceError("platform returned HTTP 403")}
	h := NewHandler(nil, nil, nil, nil, sync, nil, nil, testutil.NewMockLogger())

	c, w := testutil.NewTestContext(http.MethodPost, "/sellers/3/catalog/sync", nil)
	testutil.SetURLParam(c, "id", "3")
	h.SyncCatalog(c)

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestHandler_ListCatalog(t *testing.T) {
	list := &mockListUC{result: &catalogusecases.ListCatalogResult{
		Items:    []*catalogdto.CatalogEntryDTO{{Title: "Smart Trend"}},
		Total:    1,
		Page:     2,
		PageSize: 5,
	}}
	h := NewHandler(nil, nil, nil, nil, nil, list, nil, testutil.NewMockLogger())

	c, w := testutil.NewTestContext(http.MethodGet, "/sellers/3/catalog", nil)
	testutil.SetURLParam(c, "id", "3")
	testutil.SetQueryParams(c, map[string]string{"page": "2", "page_size": "5", "sort_by": "likes", "sort_order": "desc"})
	h.ListCatalog(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, catalogusecases.ListCatalogQuery{SellerID: 3, Page: 2, PageSize: 5, SortBy: "likes", SortOrder: "desc"}, list.got)

	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	var page struct {
		Total int64 `json:"total"`
		Page  int   `json:"page"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &page))
	assert.Equal(t, int64(1), page.Total)
	assert.Equal(t, 2, page.Page)
}

func TestHandler_CheckSessions(t *testing.T) {
	probe := &mockProbeUC{result: &dto.ProbeSummaryDTO{Total: 3, Checked: 2, Skipped: 1, Expired: 1, ProgramsDisabled: 4}}
	h := NewHandler(nil, nil, nil, nil, nil, nil, probe, testutil.NewMockLogger())

	c, w := testutil.NewTestContext(http.MethodPost, "/health/sessions/check", nil)
	h.CheckSessions(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"programs_disabled":4`)
}

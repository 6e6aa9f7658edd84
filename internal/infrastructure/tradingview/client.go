// Package tradingview talks to the charting platform on behalf of a seller.
// The platform has no contracted API: every call replays what the web UI does,
// authenticated with the seller's session cookies.
package tradingview

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/pinegate/pinegate/internal/domain/seller"
	sharedConfig "github.com/pinegate/pinegate/internal/shared/config"
	"github.com/pinegate/pinegate/internal/shared/constants"
	"github.com/pinegate/pinegate/internal/shared/errors"
	"github.com/pinegate/pinegate/internal/shared/logger"
	"github.com/pinegate/pinegate/internal/shared/utils/logutil"
)

const (
	usernameHintPath = "/username_hint/"
	accessAddPath    = "/pine_perm/add/"
	accessRemovePath = "/pine_perm/remove/"
	accessListPath   = "/pine_perm/list_users/"

	maxBodyBytes        = 8 << 20
	expirationLayout    = "2006-01-02T15:04:05.000Z"
	defaultRetryBackoff = 500 * time.Millisecond
)

// Response is a raw platform reply kept for diagnostics.
type Response struct {
	StatusCode int
	Body       []byte
}

// Client issues the platform calls the service needs.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	userAgent      string
	scriptListPath string
	settingsPath   string
	sessionMarker  string
	maxReadRetries uint64
	retryInterval  time.Duration
	logger         logger.Interface
}

// NewClient builds a client. A nil httpClient gets one bounded by the configured timeout.
func NewClient(cfg sharedConfig.PlatformConfig, httpClient *http.Client, log logger.Interface) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if httpClient.Timeout == 0 && cfg.RequestTimeout() > 0 {
		httpClient.Timeout = cfg.RequestTimeout()
	}
	retries := cfg.MaxReadRetries
	if retries < 0 {
		retries = 0
	}

	return &Client{
		httpClient:     httpClient,
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		userAgent:      cfg.UserAgent,
		scriptListPath: cfg.ScriptListPath,
		settingsPath:   cfg.SettingsPath,
		sessionMarker:  cfg.SessionMarker,
		maxReadRetries: uint64(retries),
		retryInterval:  defaultRetryBackoff,
		logger:         log,
	}
}

// SetRetryInterval changes the initial backoff between read retries.
func (c *Client) SetRetryInterval(d time.Duration) {
	c.retryInterval = d
}

// SearchUsernames runs the platform's username-hint search.
func (c *Client) SearchUsernames(ctx context.Context, sess seller.Session, query string) ([]string, error) {
	resp, err := c.get(ctx, sess, usernameHintPath+"?"+url.Values{"s": {query}}.Encode())
	if err != nil {
		return nil, err
	}
	names, err := ParseUsernameHints(resp.Body)
	if err != nil {
		return nil, errors.NewExternalServiceError("unexpected username search response", err.Error())
	}
	return names, nil
}

// FindUserID loads the seller's profile page and extracts their numeric id.
func (c *Client) FindUserID(ctx context.Context, sess seller.Session, username string) (string, error) {
	resp, err := c.get(ctx, sess, "/u/"+url.PathEscape(username)+"/")
	if err != nil {
		return "", err
	}
	id, err := FindUserID(resp.Body, username)
	if err != nil {
		return "", errors.NewExternalServiceError("seller profile did not expose a user id", err.Error())
	}
	return id, nil
}

// FetchScriptListing returns the raw published-script listing of a user id.
func (c *Client) FetchScriptListing(ctx context.Context, sess seller.Session, userID string) (*Response, error) {
	return c.get(ctx, sess, c.scriptListPath+"?"+url.Values{"by": {userID}}.Encode())
}

// CheckSession loads an authenticated page and reports whether the platform
// still recognises the session. The error is non-nil only for transport failures.
func (c *Client) CheckSession(ctx context.Context, sess seller.Session) (bool, string, error) {
	resp, err := c.do(ctx, sess, http.MethodGet, c.settingsPath, nil, "")
	if err != nil {
		return false, "", errors.NewExternalServiceError("settings page request failed", err.Error())
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return false, fmt.Sprintf("settings page returned HTTP %d", resp.StatusCode), nil
	}
	if !bytes.Contains(resp.Body, []byte(c.sessionMarker)) {
		return false, "settings page lacked the authenticated session marker", nil
	}
	return true, "", nil
}

// AddAccess grants username access to scriptID. expiresAt nil means lifetime.
func (c *Client) AddAccess(ctx context.Context, sess seller.Session, scriptID, username string, expiresAt *time.Time) (*Response, error) {
	fields := map[string]string{"pine_id": scriptID, "username_recip": username}
	if expiresAt != nil {
		fields["expiration"] = expiresAt.UTC().Format(expirationLayout)
	}
	return c.postForm(ctx, sess, accessAddPath, fields)
}

// RemoveAccess withdraws username's access to scriptID.
func (c *Client) RemoveAccess(ctx context.Context, sess seller.Session, scriptID, username string) (*Response, error) {
	return c.postForm(ctx, sess, accessRemovePath, map[string]string{"pine_id": scriptID, "username_recip": username})
}

// ListAccess returns the usernames holding access to scriptID, filtered by username.
func (c *Client) ListAccess(ctx context.Context, sess seller.Session, scriptID, username string) ([]string, error) {
	resp, err := c.postForm(ctx, sess, accessListPath, map[string]string{"pine_id": scriptID, "username": username})
	if err != nil {
		return nil, err
	}
	names, err := ParseAccessList(resp.Body)
	if err != nil {
		return nil, errors.NewExternalServiceError("unexpected access list response", err.Error())
	}
	return names, nil
}

// get retries idempotent reads with bounded exponential backoff.
func (c *Client) get(ctx context.Context, sess seller.Session, path string) (*Response, error) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.retryInterval
	retrier := backoff.WithContext(backoff.WithMaxRetries(policy, c.maxReadRetries), ctx)

	var resp *Response
	op := func() error {
		r, err := c.do(ctx, sess, http.MethodGet, path, nil, "")
		if err != nil {
			return err
		}
		if r.StatusCode >= 500 || r.StatusCode == http.StatusTooManyRequests {
			resp = r
			return fmt.Errorf("HTTP %d", r.StatusCode)
		}
		resp = r
		return nil
	}
	notify := func(err error, wait time.Duration) {
		c.logger.Warnw("retrying platform read", "path", pathOnly(path), "error", err, "wait", wait)
	}

	if err := backoff.RetryNotify(op, retrier, notify); err != nil {
		if resp == nil {
			return nil, errors.NewExternalServiceError("platform request failed", err.Error())
		}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp, errors.NewExternalServiceError(
			fmt.Sprintf("platform returned HTTP %d", resp.StatusCode),
			logutil.Body(resp.Body, 200),
		)
	}
	return resp, nil
}

// postForm issues a single-shot multipart write.
func (c *Client) postForm(ctx context.Context, sess seller.Session, path string, fields map[string]string) (*Response, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, fmt.Errorf("failed to build form: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to build form: %w", err)
	}

	resp, err := c.do(ctx, sess, http.MethodPost, path, &buf, w.FormDataContentType())
	if err != nil {
		return nil, errors.NewExternalServiceError("platform request failed", err.Error())
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp, errors.NewExternalServiceError(
			fmt.Sprintf("platform returned HTTP %d", resp.StatusCode),
			logutil.Body(resp.Body, 200),
		)
	}
	return resp, nil
}

func (c *Client) do(ctx context.Context, sess seller.Session, method, path string, body io.Reader, contentType string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set(constants.HeaderUserAgent, c.userAgent)
	req.Header.Set("Referer", c.baseURL+"/")
	req.Header.Set("Origin", c.baseURL)
	if contentType != "" {
		req.Header.Set(constants.HeaderContentType, contentType)
	}
	req.AddCookie(&http.Cookie{Name: constants.CookieSessionID, Value: sess.ID})
	req.AddCookie(&http.Cookie{Name: constants.CookieSessionIDSign, Value: sess.Sign})

	start := time.Now()
	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(httpResp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	c.logger.Debugw("platform call",
		"method", method,
		"path", pathOnly(path),
		"status", httpResp.StatusCode,
		"duration", time.Since(start),
	)
	return &Response{StatusCode: httpResp.StatusCode, Body: data}, nil
}

func pathOnly(p string) string {
	if i := strings.IndexByte(p, '?'); i >= 0 {
		return p[:i]
	}
	return p
}

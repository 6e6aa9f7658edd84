package tradingview

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
)

// ScriptRecord is one script of a seller's published listing, independent of
// the shape the platform served it in.
type ScriptRecord struct {
	Name      string
	URL       string
	ImageURL  string
	Likes     int
	Reviews   int
	PrivateID string
}

// ErrUnrecognizedListing is returned when a listing body has no known shape.
var ErrUnrecognizedListing = errors.New("unrecognized script listing shape")

var (
	nameKeys      = []string{"name", "script_name", "title"}
	urlKeys       = []string{"chart_url", "script_url", "url"}
	imageKeys     = []string{"image_url", "imageUrl", "cover_url"}
	likeKeys      = []string{"likes_count", "agrees_count", "likes"}
	reviewKeys    = []string{"reviews_count", "comments_count", "reviews"}
	privateIDKeys = []string{"script_id_part", "scriptIdPart", "pine_id"}
	listKeys      = []string{"results", "scripts", "data"}

	textPolicy = bluemonday.StrictPolicy()
)

// ParseScriptListing normalises a script-listing response. It accepts a JSON
// array, a JSON object wrapping the array, or an HTML page with embedded
// application/json blocks.
func ParseScriptListing(body []byte) ([]ScriptRecord, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, ErrUnrecognizedListing
	}

	switch trimmed[0] {
	case '[', '{':
		v, err := decodeJSON(trimmed)
		if err != nil {
			return nil, fmt.Errorf("failed to decode listing json: %w", err)
		}
		items, ok := listItems(v)
		if !ok {
			return nil, ErrUnrecognizedListing
		}
		return recordsFromItems(items, true), nil
	default:
		return parseHTMLListing(trimmed)
	}
}

func parseHTMLListing(body []byte) ([]ScriptRecord, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse listing html: %w", err)
	}

	blocks := doc.Find(`script[type="application/json"]`)
	if blocks.Length() == 0 {
		return nil, ErrUnrecognizedListing
	}

	var (
		records   []ScriptRecord
		decoded   int
		decodeErr error
	)
	seen := map[string]bool{}
	blocks.Each(func(_ int, s *goquery.Selection) {
		v, err := decodeJSON([]byte(s.Text()))
		if err != nil {
			decodeErr = err
			return
		}
		decoded++
		var found []map[string]any
		collectScriptObjects(v, &found)
		for _, rec := range recordsFromItems(toAny(found), false) {
			key := rec.PrivateID + "|" + rec.URL
			if seen[key] {
				continue
			}
			seen[key] = true
			records = append(records, rec)
		}
	})
	// A page with no decodable block says nothing about the listing.
	if decoded == 0 {
		return nil, fmt.Errorf("%w: no embedded json block decoded: %v", ErrUnrecognizedListing, decodeErr)
	}
	return records, nil
}

func decodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

func listItems(v any) ([]any, bool) {
	switch t := v.(type) {
	case []any:
		return t, true
	case map[string]any:
		for _, k := range listKeys {
			if items, ok := t[k].([]any); ok {
				return items, true
			}
		}
	}
	return nil, false
}

// collectScriptObjects walks an embedded JSON document and keeps objects that
// look like published scripts.
func collectScriptObjects(v any, out *[]map[string]any) {
	switch t := v.(type) {
	case map[string]any:
		if looksLikeScript(t) {
			*out = append(*out, t)
			return
		}
		for _, child := range t {
			collectScriptObjects(child, out)
		}
	case []any:
		for _, child := range t {
			collectScriptObjects(child, out)
		}
	}
}

func looksLikeScript(m map[string]any) bool {
	if firstString(m, nameKeys) == "" {
		return false
	}
	return strings.Contains(firstString(m, urlKeys), "/script/") || firstString(m, privateIDKeys) != ""
}

func recordsFromItems(items []any, allowPlainID bool) []ScriptRecord {
	records := make([]ScriptRecord, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		privateID := firstString(m, privateIDKeys)
		if privateID == "" && allowPlainID {
			privateID = stringValue(m["id"])
		}
		rec := ScriptRecord{
			Name:      cleanText(firstString(m, nameKeys)),
			URL:       firstString(m, urlKeys),
			ImageURL:  firstString(m, imageKeys),
			Likes:     firstInt(m, likeKeys),
			Reviews:   firstInt(m, reviewKeys),
			PrivateID: privateID,
		}
		if rec.URL == "" && rec.PrivateID == "" {
			continue
		}
		records = append(records, rec)
	}
	return records
}

func toAny(ms []map[string]any) []any {
	out := make([]any, len(ms))
	for i, m := range ms {
		out[i] = m
	}
	return out
}

func cleanText(s string) string {
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(s)))
}

func firstString(m map[string]any, keys []string) string {
	for _, k := range keys {
		if s := stringValue(m[k]); s != "" {
			return s
		}
	}
	return ""
}

func firstInt(m map[string]any, keys []string) int {
	for _, k := range keys {
		switch t := m[k].(type) {
		case json.Number:
			if n, err := t.Int64(); err == nil {
				return int(n)
			}
			if f, err := t.Float64(); err == nil {
				return int(f)
			}
		case string:
			if n, err := strconv.Atoi(t); err == nil {
				return n
			}
		}
	}
	return 0
}

func stringValue(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		return t.String()
	default:
		return ""
	}
}

var legacyUserIDPattern = regexp.MustCompile(`data-user-id="(\d+)"`)

// FindUserID extracts the seller's numeric platform id from their profile page.
func FindUserID(profileHTML []byte, username string) (string, error) {
	anchored := regexp.MustCompile(`"id"\s*:\s*(\d+)\s*,\s*"username"\s*:\s*"(?i:` + regexp.QuoteMeta(username) + `)"`)
	if m := anchored.FindSubmatch(profileHTML); m != nil {
		return string(m[1]), nil
	}
	if m := legacyUserIDPattern.FindSubmatch(profileHTML); m != nil {
		return string(m[1]), nil
	}
	return "", fmt.Errorf("user id for %q not found in profile page", username)
}

// ParseUsernameHints returns the usernames of a username-hint search response.
func ParseUsernameHints(body []byte) ([]string, error) {
	v, err := decodeJSON(bytes.TrimSpace(body))
	if err != nil {
		return nil, fmt.Errorf("failed to decode username hints: %w", err)
	}
	items, ok := listItems(v)
	if !ok {
		return nil, fmt.Errorf("unrecognized username hint shape")
	}
	return usernames(items), nil
}

// ParseAccessList returns the usernames that currently hold access to a script.
func ParseAccessList(body []byte) ([]string, error) {
	v, err := decodeJSON(bytes.TrimSpace(body))
	if err != nil {
		return nil, fmt.Errorf("failed to decode access list: %w", err)
	}
	items, ok := listItems(v)
	if !ok {
		return nil, fmt.Errorf("unrecognized access list shape")
	}
	return usernames(items), nil
}

func usernames(items []any) []string {
	names := make([]string, 0, len(items))
	for _, item := range items {
		switch t := item.(type) {
		case string:
			names = append(names, strings.TrimSpace(t))
		case map[string]any:
			if u := stringValue(t["username"]); u != "" {
				names = append(names, u)
			}
		}
	}
	return names
}

// OutcomeKind classifies an access-add or access-remove reply.
type OutcomeKind string

const (
	OutcomeSuccess   OutcomeKind = "success"
	OutcomeHasAccess OutcomeKind = "already_has_access"
	OutcomeRejected  OutcomeKind = "rejected"
	OutcomeAmbiguous OutcomeKind = "ambiguous"
)

// AccessOutcome is the interpretation of an access-management reply.
type AccessOutcome struct {
	Kind    OutcomeKind
	Message string
}

// Succeeded reports whether the outcome counts as access being in place.
func (o AccessOutcome) Succeeded() bool {
	return o.Kind != OutcomeRejected
}

// InterpretAccessResponse classifies the body of an access-management reply.
func InterpretAccessResponse(body []byte) AccessOutcome {
	var payload map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(body), &payload); err != nil {
		return AccessOutcome{Kind: OutcomeAmbiguous, Message: "response is not a json object"}
	}

	status := strings.ToLower(stringValue(payload["status"]))
	message := firstString(payload, []string{"error", "detail", "message"})

	switch {
	case status == "ok" || status == "success":
		return AccessOutcome{Kind: OutcomeSuccess}
	case status == "exists":
		return AccessOutcome{Kind: OutcomeHasAccess, Message: message}
	case message != "" && strings.Contains(strings.ToLower(message), "already"):
		return AccessOutcome{Kind: OutcomeHasAccess, Message: message}
	case message != "":
		return AccessOutcome{Kind: OutcomeRejected, Message: message}
	case status == "error" || status == "fail" || status == "failed":
		return AccessOutcome{Kind: OutcomeRejected, Message: "platform reported status " + status}
	default:
		return AccessOutcome{Kind: OutcomeAmbiguous, Message: "response has no recognised status"}
	}
}

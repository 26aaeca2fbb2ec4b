// Package remote wraps the spreadsheet-backed record store behind named
// operations. Every call goes to one RPC-style endpoint distinguished by a
// "mode" parameter; reads are GETs with query parameters and writes are JSON
// POSTs. Transport errors, malformed payloads, and explicit business
// rejections all surface as a single *CallError.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"prayteam/pkg/prayer"
)

// CallError is the uniform failure for a remote operation. The core never
// distinguishes transport, parse, and rejection failures when deciding what
// to do next, so one type carrying a readable message is enough.
type CallError struct {
	Op      string
	Message string
}

func (e *CallError) Error() string {
	return fmt.Sprintf("remote: %s: %s", e.Op, e.Message)
}

func callErr(op string, format string, args ...interface{}) *CallError {
	return &CallError{Op: op, Message: fmt.Sprintf(format, args...)}
}

// Client issues named operations against the remote record store.
type Client struct {
	base string
	http *http.Client
}

// New returns a Client for the given endpoint URL.
func New(base string) *Client {
	return &Client{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Timeout: 30 * time.Second},
	}
}

// NewWithHTTPClient is New with an injected http.Client, for tests.
func NewWithHTTPClient(base string, hc *http.Client) *Client {
	c := New(base)
	if hc != nil {
		c.http = hc
	}
	return c
}

func (c *Client) get(ctx context.Context, op string, params url.Values, out interface{}) error {
	params.Set("mode", op)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"?"+params.Encode(), nil)
	if err != nil {
		return callErr(op, "build request: %v", err)
	}
	return c.do(op, req, out)
}

func (c *Client) post(ctx context.Context, op string, body map[string]interface{}, out interface{}) error {
	body["mode"] = op
	data, err := json.Marshal(body)
	if err != nil {
		return callErr(op, "encode request: %v", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base, bytes.NewReader(data))
	if err != nil {
		return callErr(op, "build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(op, req, out)
}

func (c *Client) do(op string, req *http.Request, out interface{}) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return callErr(op, "request failed: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return callErr(op, "read response: %v", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if msg := errorMessage(raw); msg != "" {
			return callErr(op, "HTTP %d: %s", resp.StatusCode, msg)
		}
		return callErr(op, "HTTP %d", resp.StatusCode)
	}
	if rejection := businessRejection(raw); rejection != "" {
		return callErr(op, "%s", rejection)
	}
	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return callErr(op, "decode response: %v", err)
		}
	}
	return nil
}

// errorMessage pulls the error field out of a failure body, if it is JSON.
func errorMessage(raw []byte) string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	if body.Error != "" {
		return body.Error
	}
	return body.Message
}

// businessRejection detects an explicit failure flag inside a 2xx response,
// e.g. a duplicate group name. Objects without a success field pass through.
func businessRejection(raw []byte) string {
	var body struct {
		Success *bool  `json:"success"`
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	if body.Success != nil && !*body.Success {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
		return "operation rejected"
	}
	return ""
}

// GetGroups lists the groups visible to the actor.
func (c *Client) GetGroups(ctx context.Context, actorID string) ([]prayer.Group, error) {
	params := url.Values{}
	params.Set("adminId", actorID)
	var raw json.RawMessage
	if err := c.get(ctx, "getGroups", params, &raw); err != nil {
		return nil, err
	}
	groups, err := decodeGroups(raw)
	if err != nil {
		return nil, callErr("getGroups", "decode response: %v", err)
	}
	return groups, nil
}

// GetPrayers fetches one member's raw prayer columns.
func (c *Client) GetPrayers(ctx context.Context, groupID, member string) (*PrayersPayload, error) {
	params := url.Values{}
	params.Set("groupId", groupID)
	params.Set("member", member)
	var payload PrayersPayload
	if err := c.get(ctx, "getPrayers", params, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// GetPrayersAllGroups bulk-fetches every member's columns for the given
// groups in one round trip. A non-sequence payload is a hard failure; there
// is no partial result.
func (c *Client) GetPrayersAllGroups(ctx context.Context, groupIDs []string) ([]BulkEntry, error) {
	params := url.Values{}
	params.Set("groupIds", strings.Join(groupIDs, ","))
	var raw json.RawMessage
	if err := c.get(ctx, "getPrayersAllGroups", params, &raw); err != nil {
		return nil, err
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		if msg := errorMessage(raw); msg != "" {
			return nil, callErr("getPrayersAllGroups", "%s", msg)
		}
		return nil, callErr("getPrayersAllGroups", "expected a sequence, got %.40s", string(trimmed))
	}
	var entries []BulkEntry
	if err := json.Unmarshal(trimmed, &entries); err != nil {
		return nil, callErr("getPrayersAllGroups", "decode response: %v", err)
	}
	return entries, nil
}

// SavePrayer replaces a member's full slot list.
func (c *Client) SavePrayer(ctx context.Context, req SavePrayerRequest) error {
	return c.post(ctx, "savePrayer", map[string]interface{}{
		"groupId":      req.GroupID,
		"groupName":    req.GroupName,
		"member":       req.Member,
		"prayers":      req.Prayers,
		"responses":    req.Responses,
		"comments":     req.Comments,
		"visibilities": req.Visibilities,
	}, nil)
}

// SaveNote patches a single slot's status, comment, and optionally
// visibility, keyed by the server-assigned slot index.
func (c *Client) SaveNote(ctx context.Context, req SaveNoteRequest) error {
	body := map[string]interface{}{
		"groupId": req.GroupID,
		"member":  req.Member,
		"index":   req.Index,
		"answer":  req.Answer,
		"comment": req.Comment,
	}
	if req.Visibility != "" {
		body["visibility"] = string(req.Visibility)
	}
	return c.post(ctx, "saveNote", body, nil)
}

// AddGroup provisions a group and returns its assigned id.
func (c *Client) AddGroup(ctx context.Context, actorID, name string) (string, error) {
	var resp struct {
		GroupID string `json:"groupId"`
	}
	err := c.post(ctx, "addGroup", map[string]interface{}{
		"adminId":   actorID,
		"groupName": name,
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.GroupID, nil
}

// AddMember appends a member to a group's roster.
func (c *Client) AddMember(ctx context.Context, groupID, name string) error {
	return c.post(ctx, "addMember", map[string]interface{}{
		"groupId":    groupID,
		"memberName": name,
	}, nil)
}

// Login authenticates an actor and returns the account payload.
func (c *Client) Login(ctx context.Context, id, pwd string) (*Account, error) {
	params := url.Values{}
	params.Set("id", id)
	params.Set("pwd", pwd)
	var acct Account
	if err := c.get(ctx, "login", params, &acct); err != nil {
		return nil, err
	}
	return &acct, nil
}

// AddLog records a page-view telemetry row. Callers treat failures as
// ignorable; the error is returned so they can log it.
func (c *Client) AddLog(ctx context.Context, entry LogEntry) error {
	return c.post(ctx, "addLog", map[string]interface{}{
		"page":    entry.Page,
		"adminId": entry.ActorID,
		"groupId": entry.GroupID,
		"member":  entry.Member,
		"from":    entry.From,
	}, nil)
}

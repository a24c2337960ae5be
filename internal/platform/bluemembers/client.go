// Package bluemembers implements the typed HTTP client for the
// membership platform API. It is the only package in the application
// that talks to the platform directly.
package bluemembers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/guyuexuan/hbmtaskd/internal/config"
	"github.com/guyuexuan/hbmtaskd/internal/domain"
)

// API endpoint paths.
const (
	pathAccountInfo    = "/v1/app/account/users/info"
	pathMyScore        = "/v1/app/user/my_score"
	pathTaskList       = "/v1/app/user/task/list"
	pathSignList       = "/v1/app/user/reward_list"
	pathSignSubmit     = "/v1/app/user/reward_report"
	pathArticleList    = "/v1/app/white/article/list2"
	pathArticleDetail  = "/v1/app/white/article/detail_app/%s"
	pathTaskScore      = "/v1/app/score"
	pathQuestionInfo   = "/v1/app/special/daily/ask_info"
	pathQuestionSubmit = "/v1/app/special/daily/ask_answer"
)

// Task action identifiers as reported by the task list endpoint.
const (
	actionSign     = "action4"
	actionView     = "action12"
	actionQuestion = "action39"
)

// dateLayout is the yyyyMMdd local-day stamp the platform expects.
const dateLayout = "20060102"

// Client performs the platform HTTP operations. All calls send the
// bearer token and the "device: mp" header the mobile client uses.
//
// The transport profile is deliberately tight: platform endpoints are
// fast, and a hung call must not stall a whole batch. Connection
// failures are retried at the transport level only (net/http re-dials);
// there are no application-level retries.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger

	// now is replaceable in tests so date-stamped calls are stable.
	now func() time.Time
}

// NewClient creates a platform client using the standard transport
// profile: 2s connect, 10s per round-trip, connection pool of 5 kept
// idle for 5 minutes.
func NewClient(cfg config.PlatformConfig, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.BaseURL == "" {
		return nil, errors.New("platform base URL cannot be empty")
	}

	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout: 2 * time.Second,
		}).DialContext,
		MaxIdleConns:        5,
		MaxIdleConnsPerHost: 5,
		IdleConnTimeout:     5 * time.Minute,
	}

	return &Client{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout:   10 * time.Second,
			Transport: transport,
		},
		logger: logger,
		now:    time.Now,
	}, nil
}

// envelope is the uniform platform response shape.
type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

// do executes one platform call and returns the envelope's data field.
// Error classification:
//   - request never completed        -> ErrTransport (wrapped)
//   - HTTP 403                       -> ErrAuthExpired
//   - other non-2xx                  -> *HTTPError
//   - body not an envelope           -> ErrProtocol (wrapped)
//   - envelope code != 0             -> *RemoteRejectedError
func (c *Client) do(ctx context.Context, method, path, token string, body any) (json.RawMessage, error) {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("token", token)
	req.Header.Set("device", "mp")
	if body != nil {
		req.Header.Set("Content-Type", "application/json; charset=utf-8")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusForbidden {
		return nil, ErrAuthExpired
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPError{Status: resp.StatusCode}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProtocol, err)
	}

	if env.Code != 0 {
		return nil, &RemoteRejectedError{Code: env.Code, Msg: env.Msg}
	}

	c.logger.DebugContext(ctx, "platform call succeeded",
		"method", method,
		"path", path)

	return env.Data, nil
}

// FetchAccountInfo authenticates the token against the platform and
// returns the account it belongs to. The platform omits the token from
// its own payload, so it is injected into the result here.
func (c *Client) FetchAccountInfo(ctx context.Context, token string) (*domain.Account, error) {
	data, err := c.do(ctx, http.MethodGet, pathAccountInfo, token, nil)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Nickname string `json:"nickname"`
		Phone    string `json:"phone"`
		Hid      string `json:"hid"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProtocol, err)
	}

	return domain.NewAccount(token, payload.Nickname, payload.Phone, payload.Hid)
}

// FetchScore returns the first page of the account's score history.
func (c *Client) FetchScore(ctx context.Context, token string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, pathMyScore+"?page_no=1&page_size=5", token, nil)
}

// FetchTaskStatus returns today's completion flags. Action ids absent
// from the response leave their flag false: the platform omits ids for
// tasks not applicable that day.
func (c *Client) FetchTaskStatus(ctx context.Context, token string) (domain.TaskStatus, error) {
	data, err := c.do(ctx, http.MethodGet, pathTaskList, token, nil)
	if err != nil {
		return domain.TaskStatus{}, err
	}

	var payload map[string]struct {
		Status int `json:"status"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return domain.TaskStatus{}, fmt.Errorf("%w: %v", ErrProtocol, err)
	}

	var status domain.TaskStatus
	if entry, ok := payload[actionSign]; ok {
		status.SignCompleted = entry.Status == 1
	}
	if entry, ok := payload[actionView]; ok {
		status.ViewCompleted = entry.Status == 1
	}
	if entry, ok := payload[actionQuestion]; ok {
		status.QuestionCompleted = entry.Status == 1
	}

	return status, nil
}

// SignInfo is the hid/hash challenge required to submit a sign-in.
type SignInfo struct {
	Hid  string `json:"hid"`
	Hash string `json:"hash"`
}

// FetchSignInfo retrieves the sign-in challenge for today.
func (c *Client) FetchSignInfo(ctx context.Context, token string) (*SignInfo, error) {
	data, err := c.do(ctx, http.MethodGet, pathSignList, token, nil)
	if err != nil {
		return nil, err
	}

	var info SignInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProtocol, err)
	}

	return &info, nil
}

// SubmitSign reports the sign-in with the challenge values.
func (c *Client) SubmitSign(ctx context.Context, token, hid, rewardHash string) error {
	body := map[string]any{
		"hid":         hid,
		"hash":        rewardHash,
		"sm_deviceId": "",
		"ctu_token":   nil,
	}

	_, err := c.do(ctx, http.MethodPost, pathSignSubmit, token, body)
	return err
}

// Article is one entry of the browsable article list.
type Article struct {
	Hid   string `json:"hid"`
	Title string `json:"title"`
}

// FetchArticleList returns up to 20 articles, first-listed first.
func (c *Client) FetchArticleList(ctx context.Context, token string) ([]Article, error) {
	data, err := c.do(ctx, http.MethodGet, pathArticleList+"?page_no=1&page_size=20&type_hid=", token, nil)
	if err != nil {
		return nil, err
	}

	var payload struct {
		List []Article `json:"list"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProtocol, err)
	}

	return payload.List, nil
}

// ViewArticle fetches the article detail. The detail fetch itself is
// what the platform counts as a view.
func (c *Client) ViewArticle(ctx context.Context, token, articleID string) error {
	_, err := c.do(ctx, http.MethodGet, fmt.Sprintf(pathArticleDetail, articleID), token, nil)
	return err
}

// SubmitArticleScore claims the article-view points after a view.
func (c *Client) SubmitArticleScore(ctx context.Context, token string) (json.RawMessage, error) {
	body := map[string]any{
		"ctu_token": "",
		"action":    12,
	}

	return c.do(ctx, http.MethodPost, pathTaskScore, token, body)
}

// QuestionInfo is today's quiz: the platform-issued question handle,
// the question text and the options actually offered (2 to 4 entries).
type QuestionInfo struct {
	Hid      string   `json:"hid"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// FetchQuestionInfo returns today's quiz, keyed by the local calendar day.
func (c *Client) FetchQuestionInfo(ctx context.Context, token string) (*QuestionInfo, error) {
	date := c.now().Format(dateLayout)
	data, err := c.do(ctx, http.MethodGet, pathQuestionInfo+"?date="+date, token, nil)
	if err != nil {
		return nil, err
	}

	var info QuestionInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProtocol, err)
	}

	return &info, nil
}

// SubmitQuestionAnswer submits the answer letter for today's quiz.
// A non-empty shareUserHid credits an assist to that account; assist
// credit is best-effort and never retried.
func (c *Client) SubmitQuestionAnswer(
	ctx context.Context,
	token, questionID, answer, shareUserHid string,
) (json.RawMessage, error) {
	body := map[string]any{
		"answer":        answer,
		"questions_hid": questionID,
		"ctu_token":     "",
	}
	if shareUserHid != "" {
		body["date"] = c.now().Format(dateLayout)
		body["share_user_hid"] = shareUserHid
	}

	return c.do(ctx, http.MethodPost, pathQuestionSubmit, token, body)
}

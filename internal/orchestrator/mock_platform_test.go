package orchestrator

import (
	"context"
	"encoding/json"

	"github.com/guyuexuan/hbmtaskd/internal/domain"
	"github.com/guyuexuan/hbmtaskd/internal/platform/bluemembers"
	"github.com/guyuexuan/hbmtaskd/internal/resolver"
)

// mockPlatform implements PlatformClient with overridable functions and
// call counters.
type mockPlatform struct {
	FetchTaskStatusFn      func(ctx context.Context, token string) (domain.TaskStatus, error)
	FetchSignInfoFn        func(ctx context.Context, token string) (*bluemembers.SignInfo, error)
	SubmitSignFn           func(ctx context.Context, token, hid, rewardHash string) error
	FetchArticleListFn     func(ctx context.Context, token string) ([]bluemembers.Article, error)
	ViewArticleFn          func(ctx context.Context, token, articleID string) error
	SubmitArticleScoreFn   func(ctx context.Context, token string) (json.RawMessage, error)
	FetchQuestionInfoFn    func(ctx context.Context, token string) (*bluemembers.QuestionInfo, error)
	SubmitQuestionAnswerFn func(ctx context.Context, token, questionID, answer, shareUserHid string) (json.RawMessage, error)

	fetchSignInfoCalls      int
	submitSignCalls         int
	viewArticleCalls        int
	submitArticleScoreCalls int
	submitAnswerCalls       int
}

// newHappyPlatform returns a mock where every call succeeds with the
// canned data used by the end-to-end scenario.
func newHappyPlatform(status domain.TaskStatus) *mockPlatform {
	return &mockPlatform{
		FetchTaskStatusFn: func(ctx context.Context, token string) (domain.TaskStatus, error) {
			return status, nil
		},
		FetchSignInfoFn: func(ctx context.Context, token string) (*bluemembers.SignInfo, error) {
			return &bluemembers.SignInfo{Hid: "h1", Hash: "x"}, nil
		},
		SubmitSignFn: func(ctx context.Context, token, hid, rewardHash string) error {
			return nil
		},
		FetchArticleListFn: func(ctx context.Context, token string) ([]bluemembers.Article, error) {
			return []bluemembers.Article{{Hid: "a1", Title: "first"}}, nil
		},
		ViewArticleFn: func(ctx context.Context, token, articleID string) error {
			return nil
		},
		SubmitArticleScoreFn: func(ctx context.Context, token string) (json.RawMessage, error) {
			return json.RawMessage(`{}`), nil
		},
		FetchQuestionInfoFn: func(ctx context.Context, token string) (*bluemembers.QuestionInfo, error) {
			return &bluemembers.QuestionInfo{
				Hid:      "q1",
				Question: "Which?",
				Options:  []string{"A. x", "B. y", "C. z"},
			}, nil
		},
		SubmitQuestionAnswerFn: func(ctx context.Context, token, questionID, answer, shareUserHid string) (json.RawMessage, error) {
			return json.RawMessage(`{}`), nil
		},
	}
}

func (m *mockPlatform) FetchTaskStatus(ctx context.Context, token string) (domain.TaskStatus, error) {
	return m.FetchTaskStatusFn(ctx, token)
}

func (m *mockPlatform) FetchSignInfo(ctx context.Context, token string) (*bluemembers.SignInfo, error) {
	m.fetchSignInfoCalls++
	return m.FetchSignInfoFn(ctx, token)
}

func (m *mockPlatform) SubmitSign(ctx context.Context, token, hid, rewardHash string) error {
	m.submitSignCalls++
	return m.SubmitSignFn(ctx, token, hid, rewardHash)
}

func (m *mockPlatform) FetchArticleList(ctx context.Context, token string) ([]bluemembers.Article, error) {
	return m.FetchArticleListFn(ctx, token)
}

func (m *mockPlatform) ViewArticle(ctx context.Context, token, articleID string) error {
	m.viewArticleCalls++
	return m.ViewArticleFn(ctx, token, articleID)
}

func (m *mockPlatform) SubmitArticleScore(ctx context.Context, token string) (json.RawMessage, error) {
	m.submitArticleScoreCalls++
	return m.SubmitArticleScoreFn(ctx, token)
}

func (m *mockPlatform) FetchQuestionInfo(ctx context.Context, token string) (*bluemembers.QuestionInfo, error) {
	return m.FetchQuestionInfoFn(ctx, token)
}

func (m *mockPlatform) SubmitQuestionAnswer(
	ctx context.Context,
	token, questionID, answer, shareUserHid string,
) (json.RawMessage, error) {
	m.submitAnswerCalls++
	return m.SubmitQuestionAnswerFn(ctx, token, questionID, answer, shareUserHid)
}

// stubResolver returns a fixed answer or error.
type stubResolver struct {
	answer string
	err    error
	calls  int
}

func (s *stubResolver) Resolve(ctx context.Context, question resolver.Question) (string, error) {
	s.calls++
	return s.answer, s.err
}

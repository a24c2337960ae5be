// Package orchestrator drives the per-account daily-task runs: it
// checks which tasks are still incomplete, sequences the remote calls
// to complete them, isolates per-task failures and aggregates the
// outcome the caller renders.
package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/guyuexuan/hbmtaskd/internal/domain"
	"github.com/guyuexuan/hbmtaskd/internal/platform/bluemembers"
	"github.com/guyuexuan/hbmtaskd/internal/resolver"
)

// ErrNoArticleAvailable is returned for the view task when the platform
// lists no articles to read.
var ErrNoArticleAvailable = errors.New("no article available to view")

// PlatformClient is the outbound boundary toward the platform API,
// covering exactly the calls a run needs.
type PlatformClient interface {
	FetchTaskStatus(ctx context.Context, token string) (domain.TaskStatus, error)
	FetchSignInfo(ctx context.Context, token string) (*bluemembers.SignInfo, error)
	SubmitSign(ctx context.Context, token, hid, rewardHash string) error
	FetchArticleList(ctx context.Context, token string) ([]bluemembers.Article, error)
	ViewArticle(ctx context.Context, token, articleID string) error
	SubmitArticleScore(ctx context.Context, token string) (json.RawMessage, error)
	FetchQuestionInfo(ctx context.Context, token string) (*bluemembers.QuestionInfo, error)
	SubmitQuestionAnswer(
		ctx context.Context,
		token, questionID, answer, shareUserHid string,
	) (json.RawMessage, error)
}

// Orchestrator executes one account's run as a fixed sequence:
// status check, then sign -> view -> question, each task skipped when
// already complete and each failure confined to its own task.
type Orchestrator struct {
	client   PlatformClient
	resolver resolver.Resolver
	logger   *slog.Logger

	// now is replaceable in tests.
	now func() time.Time
}

// New creates an Orchestrator.
func New(client PlatformClient, res resolver.Resolver, logger *slog.Logger) (*Orchestrator, error) {
	if client == nil {
		return nil, errors.New("platform client cannot be nil")
	}
	if res == nil {
		return nil, errors.New("resolver cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	return &Orchestrator{
		client:   client,
		resolver: res,
		logger:   logger,
		now:      time.Now,
	}, nil
}

// Run executes one run for one account and always returns an outcome;
// failures are recorded in it, never returned. The account is borrowed
// for the duration of the run and its identity fields are not mutated.
//
// If the initial status check fails, the run ends with StatusError set
// and no task attempted: without current status no task can be safely
// attempted. The final status is the fetched flags ORed with this run's
// successes; no second status fetch is made, the platform stays
// authoritative for the next run.
func (o *Orchestrator) Run(ctx context.Context, account *domain.Account) *domain.TaskOutcome {
	logger := o.logger.With("phone", account.MaskedPhone())

	outcome := &domain.TaskOutcome{
		RunID:        uuid.New(),
		AccountPhone: account.Phone,
		StartedAt:    o.now(),
	}

	status, err := o.client.FetchTaskStatus(ctx, account.Token)
	if err != nil {
		logger.Error("task status check failed, aborting run", "error", err)
		outcome.StatusError = err.Error()
		outcome.StatusErrorKind = classify(err)
		outcome.FinishedAt = o.now()
		return outcome
	}

	done := map[domain.TaskName]bool{
		domain.TaskSign:     status.SignCompleted,
		domain.TaskView:     status.ViewCompleted,
		domain.TaskQuestion: status.QuestionCompleted,
	}

	for _, name := range domain.AllTasks {
		result := domain.TaskResult{Task: name}

		switch {
		case done[name]:
			logger.Debug("task already completed, skipping", "task", name)

		case ctx.Err() != nil:
			// Cancelled between tasks. Anything already submitted
			// counts on the platform regardless; remaining tasks are
			// simply not attempted.
			result.Error = ctx.Err().Error()
			result.ErrorKind = domain.ErrKindCancelled

		default:
			result.Attempted = true
			if err := o.attempt(ctx, account, name); err != nil {
				logger.Warn("task failed", "task", name, "error", err)
				result.Error = err.Error()
				result.ErrorKind = classify(err)
			} else {
				logger.Info("task completed", "task", name)
				result.Succeeded = true
			}
		}

		outcome.Results = append(outcome.Results, result)
	}

	outcome.FinalStatus = domain.TaskStatus{
		SignCompleted:     status.SignCompleted || outcome.Succeeded(domain.TaskSign),
		ViewCompleted:     status.ViewCompleted || outcome.Succeeded(domain.TaskView),
		QuestionCompleted: status.QuestionCompleted || outcome.Succeeded(domain.TaskQuestion),
	}
	outcome.FinishedAt = o.now()

	return outcome
}

// attempt runs a single task to completion.
func (o *Orchestrator) attempt(ctx context.Context, account *domain.Account, name domain.TaskName) error {
	switch name {
	case domain.TaskSign:
		return o.runSign(ctx, account)
	case domain.TaskView:
		return o.runView(ctx, account)
	case domain.TaskQuestion:
		return o.runQuestion(ctx, account)
	default:
		return fmt.Errorf("unknown task %q", name)
	}
}

func (o *Orchestrator) runSign(ctx context.Context, account *domain.Account) error {
	info, err := o.client.FetchSignInfo(ctx, account.Token)
	if err != nil {
		return err
	}
	if info.Hid == "" || info.Hash == "" {
		return fmt.Errorf("%w: sign challenge missing hid or hash", bluemembers.ErrProtocol)
	}

	return o.client.SubmitSign(ctx, account.Token, info.Hid, info.Hash)
}

func (o *Orchestrator) runView(ctx context.Context, account *domain.Account) error {
	articles, err := o.client.FetchArticleList(ctx, account.Token)
	if err != nil {
		return err
	}
	if len(articles) == 0 {
		return ErrNoArticleAvailable
	}

	// Policy: first-listed article.
	if err := o.client.ViewArticle(ctx, account.Token, articles[0].Hid); err != nil {
		return err
	}

	_, err = o.client.SubmitArticleScore(ctx, account.Token)
	return err
}

func (o *Orchestrator) runQuestion(ctx context.Context, account *domain.Account) error {
	info, err := o.client.FetchQuestionInfo(ctx, account.Token)
	if err != nil {
		return err
	}

	answer, err := o.resolver.Resolve(ctx, resolver.Question{
		Hid:     info.Hid,
		Text:    info.Question,
		Options: info.Options,
	})
	if err != nil {
		return err
	}

	_, err = o.client.SubmitQuestionAnswer(ctx, account.Token, info.Hid, answer, account.ShareUserHid)
	return err
}

// classify maps an error to its outcome classification.
func classify(err error) domain.ErrorKind {
	var rejected *bluemembers.RemoteRejectedError
	var httpErr *bluemembers.HTTPError

	switch {
	case errors.Is(err, bluemembers.ErrAuthExpired):
		return domain.ErrKindAuthExpired
	case errors.As(err, &rejected):
		return domain.ErrKindRemoteRejected
	case errors.As(err, &httpErr):
		return domain.ErrKindHTTP
	case errors.Is(err, bluemembers.ErrTransport):
		return domain.ErrKindTransport
	case errors.Is(err, bluemembers.ErrProtocol):
		return domain.ErrKindProtocol
	case errors.Is(err, resolver.ErrConfigIncomplete):
		return domain.ErrKindConfigIncomplete
	case errors.Is(err, resolver.ErrResolverAborted):
		return domain.ErrKindResolverAborted
	case errors.Is(err, ErrNoArticleAvailable):
		return domain.ErrKindNoArticle
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return domain.ErrKindCancelled
	default:
		return domain.ErrKindOther
	}
}

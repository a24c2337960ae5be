package orchestrator

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/guyuexuan/hbmtaskd/internal/domain"
)

// AccountRunner executes one account's run. Implemented by Orchestrator;
// an interface so the batch engine is testable without remote calls.
type AccountRunner interface {
	Run(ctx context.Context, account *domain.Account) *domain.TaskOutcome
}

// BatchConfig holds configuration for batch processing across accounts.
type BatchConfig struct {
	// WorkerCount determines how many accounts are processed
	// concurrently. 1 processes them one at a time in registry order.
	WorkerCount int

	// QueueSize is the buffer of the job queue feeding the workers.
	QueueSize int
}

// DefaultBatchConfig returns a BatchConfig with the sequential default.
func DefaultBatchConfig() BatchConfig {
	return BatchConfig{WorkerCount: 1, QueueSize: 1}
}

// Batch fans a list of accounts out over a small worker pool. Accounts
// share no mutable state during a run, so any worker count is safe;
// one account's failure (including credential expiry) never stops the
// processing of the others.
type Batch struct {
	runner      AccountRunner
	workerCount int
	queueSize   int
	logger      *slog.Logger
}

// NewBatch creates a batch engine over the given runner.
func NewBatch(runner AccountRunner, config BatchConfig, logger *slog.Logger) (*Batch, error) {
	if runner == nil {
		return nil, errors.New("account runner cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	workerCount := config.WorkerCount
	if workerCount <= 0 {
		workerCount = 1
		logger.Warn("invalid worker count specified, using default",
			"specified_count", config.WorkerCount,
			"default_count", 1)
	}

	queueSize := config.QueueSize
	if queueSize <= 0 {
		queueSize = 1
		logger.Warn("invalid queue size specified, using default",
			"specified_size", config.QueueSize,
			"default_size", 1)
	}

	return &Batch{
		runner:      runner,
		workerCount: workerCount,
		queueSize:   queueSize,
		logger:      logger,
	}, nil
}

// RunAll processes every account and returns one outcome per account,
// in input order. Cancelling the context stops new task attempts at
// task granularity inside each running account; the returned slice is
// always fully populated.
func (b *Batch) RunAll(ctx context.Context, accounts []*domain.Account) []*domain.TaskOutcome {
	outcomes := make([]*domain.TaskOutcome, len(accounts))
	if len(accounts) == 0 {
		return outcomes
	}

	workerCount := b.workerCount
	if workerCount > len(accounts) {
		workerCount = len(accounts)
	}

	b.logger.Info("starting batch run",
		"accounts", len(accounts),
		"workers", workerCount)

	jobs := make(chan int, b.queueSize)
	var wg sync.WaitGroup
	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				outcomes[idx] = b.runner.Run(ctx, accounts[idx])
			}
		}()
	}

	for idx := range accounts {
		jobs <- idx
	}
	close(jobs)
	wg.Wait()

	b.logger.Info("batch run finished", "accounts", len(accounts))
	return outcomes
}

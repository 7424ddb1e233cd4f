package readiness

import (
	"context"
	"fmt"

	"github.com/toothbrush/wiki-publish/confluence"
)

// StatusSource fetches the current status string of a job.  Each call must hit the source of
// truth; a cached answer would make the poller spin until its deadline.
type StatusSource interface {
	Status(ctx context.Context, jobID string) (string, error)
}

// StatusFunc adapts a plain function to StatusSource.
type StatusFunc func(ctx context.Context, jobID string) (string, error)

func (f StatusFunc) Status(ctx context.Context, jobID string) (string, error) {
	return f(ctx, jobID)
}

// LongTaskGetter is satisfied by *confluence.API.
type LongTaskGetter interface {
	GetLongTask(ctx context.Context, opts confluence.LongTaskQuery) (*confluence.LongTask, error)
}

// LongTaskSource reports Confluence long-running tasks as confluence.TaskRunning,
// confluence.TaskSucceeded or confluence.TaskFailed.  Pair it with ConfluenceTerminals.
type LongTaskSource struct {
	API LongTaskGetter
}

func (s LongTaskSource) Status(ctx context.Context, jobID string) (string, error) {
	task, err := s.API.GetLongTask(ctx, confluence.LongTaskQuery{ID: jobID})
	if err != nil {
		return "", fmt.Errorf("readiness: couldn't fetch long task %s: %w", jobID, err)
	}
	return task.State(), nil
}

// ConfluenceTerminals configures a Poller for LongTaskSource.
func ConfluenceTerminals() Option {
	return WithTerminalStatuses(confluence.TaskSucceeded, confluence.TaskFailed)
}

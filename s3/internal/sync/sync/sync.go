package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/ecastroth/awskit/s3/internal/sync/executor"
	"github.com/ecastroth/awskit/s3/internal/sync/planner"
	"github.com/ecastroth/awskit/s3/internal/sync/scanner"
)

// Manager drives one sync run through its three phases: inventory both
// sides, plan the diff, execute the plan.
type Manager struct {
	scanner  *scanner.Scanner
	planner  *planner.Planner
	executor *executor.Executor
}

// NewManager assembles a manager from its phase components.
func NewManager(sc *scanner.Scanner, pl *planner.Planner, ex *executor.Executor) *Manager {
	return &Manager{
		scanner:  sc,
		planner:  pl,
		executor: ex,
	}
}

// Run performs a sync. With Config.DryRun set it stops after planning
// and returns the plan instead of executing it.
func (m *Manager) Run(ctx context.Context, config *Config) (*Result, error) {
	startTime := time.Now()

	localFiles, err := m.scanner.ScanLocal(
		ctx, config.LocalPath, config.IncludePatterns, config.ExcludePatterns,
	)
	if err != nil {
		return nil, fmt.Errorf("scan local %s: %w", config.LocalPath, err)
	}

	remoteObjects, err := m.scanner.ScanRemote(
		ctx, config.Bucket, config.Prefix, config.IncludePatterns, config.ExcludePatterns,
	)
	if err != nil {
		return nil, fmt.Errorf("scan remote %s/%s: %w", config.Bucket, config.Prefix, err)
	}

	operations, err := m.planner.Plan(
		config.Direction,
		config.LocalPath,
		config.Prefix,
		localFiles,
		remoteObjects,
		config.DeleteExtra,
	)
	if err != nil {
		return nil, fmt.Errorf("plan sync: %w", err)
	}

	if config.DryRun {
		result := &Result{
			Planned:  operations,
			Duration: time.Since(startTime),
		}
		for _, op := range operations {
			if op.Type == planner.OperationSkip {
				result.FilesSkipped++
			}
		}
		return result, nil
	}

	executed, err := m.executor.Run(ctx, config.Bucket, operations)
	if err != nil {
		return nil, fmt.Errorf("execute sync: %w", err)
	}

	return &Result{
		FilesUploaded:   executed.FilesUploaded,
		FilesDownloaded: executed.FilesDownloaded,
		FilesSkipped:    executed.FilesSkipped,
		FilesDeleted:    executed.FilesDeleted,
		BytesUploaded:   executed.BytesUploaded,
		BytesDownloaded: executed.BytesDownloaded,
		Errors:          executed.Errors,
		Duration:        time.Since(startTime),
	}, nil
}

package planner

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ecastroth/awskit/s3/s3types"
)

// Direction selects which side of the sync is the source of truth.
type Direction string

const (
	// DirectionToRemote mirrors the local directory into the bucket.
	DirectionToRemote Direction = "to-remote"

	// DirectionFromRemote mirrors the bucket prefix into the local
	// directory.
	DirectionFromRemote Direction = "from-remote"
)

// OperationType defines the kind of a planned operation.
type OperationType string

const (
	// OperationUpload transfers a local file to the bucket.
	OperationUpload OperationType = "upload"

	// OperationDownload transfers an object to the local directory.
	OperationDownload OperationType = "download"

	// OperationDelete removes an extra file from the destination side.
	OperationDelete OperationType = "delete"

	// OperationSkip marks a file that is already in sync.
	OperationSkip OperationType = "skip"
)

// Operation is one planned step of a sync. Delete operations carry
// either a RemoteKey (to-remote sync) or a LocalPath (from-remote
// sync), never both.
type Operation struct {
	// Type of operation
	Type OperationType

	// LocalPath is the local file involved, when any
	LocalPath string

	// RemoteKey is the S3 object key involved, when any
	RemoteKey string

	// Size is the number of bytes the operation moves
	Size int64

	// Reason describes why this operation was planned
	Reason string

	// Priority orders execution; lower runs first
	Priority int
}

// Planner turns the two scan inventories into an ordered operation plan.
type Planner struct {
	comparator s3types.FileComparator
}

// New creates a planner that detects changes with the given comparator.
func New(comparator s3types.FileComparator) *Planner {
	return &Planner{
		comparator: comparator,
	}
}

// Plan builds the operation list for one sync run. Transfers come out
// sorted smallest first so quick items surface failures early, with
// deletes after all transfers.
func (p *Planner) Plan(
	direction Direction,
	localRoot string,
	prefix string,
	localFiles []*s3types.LocalFile,
	remoteObjects []*s3types.RemoteFile,
	deleteExtra bool,
) ([]*Operation, error) {
	localMap := buildLocalMap(localRoot, localFiles)
	remoteMap := buildRemoteMap(prefix, remoteObjects)

	var operations []*Operation
	var err error

	switch direction {
	case DirectionToRemote:
		operations, err = p.planToRemote(prefix, localMap, remoteMap, deleteExtra)
	case DirectionFromRemote:
		operations, err = p.planFromRemote(localRoot, localMap, remoteMap, deleteExtra)
	default:
		return nil, fmt.Errorf("unknown sync direction %q", direction)
	}
	if err != nil {
		return nil, err
	}

	sortPlan(operations)
	return operations, nil
}

// planToRemote diffs local against remote: uploads for new or changed
// files, optional deletes for remote extras.
func (p *Planner) planToRemote(
	prefix string,
	localMap map[string]*s3types.LocalFile,
	remoteMap map[string]*s3types.RemoteFile,
	deleteExtra bool,
) ([]*Operation, error) {
	var operations []*Operation

	for relPath, local := range localMap {
		remote, exists := remoteMap[relPath]
		if !exists {
			operations = append(operations, &Operation{
				Type:      OperationUpload,
				LocalPath: local.Path,
				RemoteKey: prefix + relPath,
				Size:      local.Size,
				Reason:    "new file",
				Priority:  transferPriority(local.Size),
			})
			continue
		}

		changed, err := p.comparator.HasChanged(local, remote)
		if err != nil {
			return nil, fmt.Errorf("compare %s: %w", relPath, err)
		}

		if changed {
			operations = append(operations, &Operation{
				Type:      OperationUpload,
				LocalPath: local.Path,
				RemoteKey: remote.Key,
				Size:      local.Size,
				Reason:    "modified",
				Priority:  transferPriority(local.Size),
			})
		} else {
			operations = append(operations, &Operation{
				Type:      OperationSkip,
				LocalPath: local.Path,
				RemoteKey: remote.Key,
				Size:      local.Size,
				Reason:    "unchanged",
				Priority:  skipPriority,
			})
		}
	}

	if deleteExtra {
		for relPath, remote := range remoteMap {
			if _, exists := localMap[relPath]; !exists {
				operations = append(operations, &Operation{
					Type:      OperationDelete,
					RemoteKey: remote.Key,
					Size:      remote.Size,
					Reason:    "absent locally",
					Priority:  deletePriority,
				})
			}
		}
	}

	return operations, nil
}

// planFromRemote diffs remote against local: downloads for new or
// changed objects, optional deletes for local extras.
func (p *Planner) planFromRemote(
	localRoot string,
	localMap map[string]*s3types.LocalFile,
	remoteMap map[string]*s3types.RemoteFile,
	deleteExtra bool,
) ([]*Operation, error) {
	var operations []*Operation

	for relPath, remote := range remoteMap {
		localPath := filepath.Join(localRoot, filepath.FromSlash(relPath))

		local, exists := localMap[relPath]
		if !exists {
			operations = append(operations, &Operation{
				Type:      OperationDownload,
				LocalPath: localPath,
				RemoteKey: remote.Key,
				Size:      remote.Size,
				Reason:    "new object",
				Priority:  transferPriority(remote.Size),
			})
			continue
		}

		changed, err := p.comparator.HasChanged(local, remote)
		if err != nil {
			return nil, fmt.Errorf("compare %s: %w", relPath, err)
		}

		if changed {
			operations = append(operations, &Operation{
				Type:      OperationDownload,
				LocalPath: local.Path,
				RemoteKey: remote.Key,
				Size:      remote.Size,
				Reason:    "modified",
				Priority:  transferPriority(remote.Size),
			})
		} else {
			operations = append(operations, &Operation{
				Type:      OperationSkip,
				LocalPath: local.Path,
				RemoteKey: remote.Key,
				Size:      remote.Size,
				Reason:    "unchanged",
				Priority:  skipPriority,
			})
		}
	}

	if deleteExtra {
		for relPath, local := range localMap {
			if _, exists := remoteMap[relPath]; !exists {
				operations = append(operations, &Operation{
					Type:      OperationDelete,
					LocalPath: local.Path,
					Size:      local.Size,
					Reason:    "absent remotely",
					Priority:  deletePriority,
				})
			}
		}
	}

	return operations, nil
}

// buildLocalMap keys local files by their slash-separated path relative
// to the sync root. Files outside the root are dropped.
func buildLocalMap(localRoot string, files []*s3types.LocalFile) map[string]*s3types.LocalFile {
	localMap := make(map[string]*s3types.LocalFile, len(files))

	for _, file := range files {
		relPath, err := filepath.Rel(localRoot, file.Path)
		if err != nil || strings.HasPrefix(relPath, "..") {
			continue
		}
		localMap[filepath.ToSlash(relPath)] = file
	}

	return localMap
}

// buildRemoteMap keys remote objects by their key relative to the
// prefix. Objects outside the prefix are dropped.
func buildRemoteMap(prefix string, objects []*s3types.RemoteFile) map[string]*s3types.RemoteFile {
	remoteMap := make(map[string]*s3types.RemoteFile, len(objects))

	for _, obj := range objects {
		if !strings.HasPrefix(obj.Key, prefix) {
			continue
		}
		relPath := strings.TrimPrefix(obj.Key, prefix)
		relPath = strings.TrimPrefix(relPath, "/")
		if relPath == "" {
			continue
		}
		remoteMap[relPath] = obj
	}

	return remoteMap
}

const (
	deletePriority = 10
	skipPriority   = 100
)

// transferPriority tiers transfers by size so small files finish first.
func transferPriority(size int64) int {
	switch {
	case size < 1<<20: // < 1MB
		return 1
	case size < 10<<20: // < 10MB
		return 2
	case size < 100<<20: // < 100MB
		return 3
	default:
		return 4
	}
}

// sortPlan orders operations by priority, breaking ties by key so plans
// are deterministic.
func sortPlan(operations []*Operation) {
	sort.Slice(operations, func(i, j int) bool {
		if operations[i].Priority != operations[j].Priority {
			return operations[i].Priority < operations[j].Priority
		}
		if operations[i].RemoteKey != operations[j].RemoteKey {
			return operations[i].RemoteKey < operations[j].RemoteKey
		}
		return operations[i].LocalPath < operations[j].LocalPath
	})
}

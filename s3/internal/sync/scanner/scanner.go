package scanner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/input-output-hk/catalyst-forge-libs/fs"

	"github.com/ecastroth/awskit/s3/internal/operations/list"
	"github.com/ecastroth/awskit/s3/s3types"
)

// Scanner discovers the files on each side of a sync.
type Scanner struct {
	lister         *list.Lister
	filesystem     fs.Filesystem
	patternMatcher *PatternMatcher
}

// New creates a scanner backed by the given S3 client and filesystem.
func New(client list.ListAPI, filesystem fs.Filesystem) *Scanner {
	return &Scanner{
		lister:         list.New(client),
		filesystem:     filesystem,
		patternMatcher: NewPatternMatcher(),
	}
}

// ScanLocal walks the local tree rooted at localPath and returns every
// file that passes the include and exclude patterns. A missing root
// yields an empty inventory, which lets a download sync start into a
// directory that does not exist yet.
func (s *Scanner) ScanLocal(
	ctx context.Context,
	localPath string,
	includePatterns []string,
	excludePatterns []string,
) ([]*s3types.LocalFile, error) {
	exists, err := s.filesystem.Exists(localPath)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", localPath, err)
	}
	if !exists {
		return nil, nil
	}

	var files []*s3types.LocalFile

	err = s.filesystem.Walk(localPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		relPath, err := filepath.Rel(localPath, path)
		if err != nil {
			return fmt.Errorf("relativize %s: %w", path, err)
		}

		if !s.patternMatcher.ShouldIncludeFile(relPath, includePatterns, excludePatterns) {
			return nil
		}

		files = append(files, &s3types.LocalFile{
			Path:    path,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", localPath, err)
	}

	return files, nil
}

// ScanRemote lists every object under the prefix, applying the same
// include and exclude patterns to the key relative to the prefix so
// both sides of a sync are filtered identically.
func (s *Scanner) ScanRemote(
	ctx context.Context,
	bucket string,
	prefix string,
	includePatterns []string,
	excludePatterns []string,
) ([]*s3types.RemoteFile, error) {
	var objects []*s3types.RemoteFile

	pages := s.lister.Pages(&list.Config{
		Bucket: bucket,
		Prefix: prefix,
	})

	for pages.HasMorePages() {
		page, err := pages.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list bucket %s: %w", bucket, err)
		}

		for _, obj := range page.Objects {
			relKey := strings.TrimPrefix(obj.Key, prefix)
			relKey = strings.TrimPrefix(relKey, "/")

			// Keys ending in "/" are zero-byte folder markers, not files.
			if relKey == "" || strings.HasSuffix(obj.Key, "/") {
				continue
			}

			if !s.patternMatcher.ShouldIncludeFile(relKey, includePatterns, excludePatterns) {
				continue
			}

			objects = append(objects, &s3types.RemoteFile{
				Key:          obj.Key,
				Size:         obj.Size,
				LastModified: obj.LastModified,
				ETag:         strings.Trim(obj.ETag, `"`),
			})
		}
	}

	return objects, nil
}

package comparator

import (
	"crypto/md5" //nolint:gosec // matches the S3 ETag algorithm, not used for security
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"strings"
	"time"

	"github.com/input-output-hk/catalyst-forge-libs/fs"

	"github.com/ecastroth/awskit/s3/s3types"
)

// DefaultModTimeTolerance absorbs the clock skew between a local
// filesystem and the S3 LastModified timestamp.
const DefaultModTimeTolerance = 2 * time.Second

// Smart is the default comparison strategy: size first, then the MD5
// ETag when the object was a single-part upload, with modification time
// as the last resort. Multipart ETags are not content hashes, so they
// are never compared against local checksums.
type Smart struct {
	filesystem fs.Filesystem
	tolerance  time.Duration
}

// NewSmart creates the default comparator reading local content through
// the given filesystem.
func NewSmart(filesystem fs.Filesystem) *Smart {
	return &Smart{
		filesystem: filesystem,
		tolerance:  DefaultModTimeTolerance,
	}
}

// HasChanged implements s3types.FileComparator.
func (c *Smart) HasChanged(local *s3types.LocalFile, remote *s3types.RemoteFile) (bool, error) {
	if local.Size != remote.Size {
		return true, nil
	}

	if isSinglePartETag(remote.ETag) {
		localMD5, err := hashFile(c.filesystem, local.Path, md5.New)
		if err != nil {
			// Unreadable local content falls back to the time check.
			return modTimeDiffers(local, remote, c.tolerance), nil
		}
		return localMD5 != remote.ETag, nil
	}

	return modTimeDiffers(local, remote, c.tolerance), nil
}

// SizeOnly treats files as changed only when their sizes differ. It is
// the cheapest strategy and misses same-size edits.
type SizeOnly struct{}

// NewSizeOnly creates a size-only comparator.
func NewSizeOnly() *SizeOnly {
	return &SizeOnly{}
}

// HasChanged implements s3types.FileComparator.
func (c *SizeOnly) HasChanged(local *s3types.LocalFile, remote *s3types.RemoteFile) (bool, error) {
	return local.Size != remote.Size, nil
}

// Checksum always hashes the local file and compares it against the
// object's ETag. When the ETag is multipart and therefore not a content
// hash, the files are reported as changed.
type Checksum struct {
	filesystem fs.Filesystem
	hashFunc   func() hash.Hash
}

// NewChecksum creates an MD5 checksum comparator.
func NewChecksum(filesystem fs.Filesystem) *Checksum {
	return &Checksum{
		filesystem: filesystem,
		hashFunc:   md5.New,
	}
}

// NewChecksumWithHash creates a checksum comparator using a custom hash.
// Comparison against the ETag only makes sense for MD5; other hashes
// suit callers that pre-compute matching remote metadata.
func NewChecksumWithHash(filesystem fs.Filesystem, hashFunc func() hash.Hash) *Checksum {
	return &Checksum{
		filesystem: filesystem,
		hashFunc:   hashFunc,
	}
}

// HasChanged implements s3types.FileComparator.
func (c *Checksum) HasChanged(local *s3types.LocalFile, remote *s3types.RemoteFile) (bool, error) {
	localSum, err := hashFile(c.filesystem, local.Path, c.hashFunc)
	if err != nil {
		return false, fmt.Errorf("checksum %s: %w", local.Path, err)
	}

	if isSinglePartETag(remote.ETag) {
		return localSum != remote.ETag, nil
	}

	return true, nil
}

// ModTime compares modification times within a tolerance. Useful when
// timestamps are trusted and reading file content is too expensive.
type ModTime struct {
	tolerance time.Duration
}

// NewModTime creates a modification-time comparator. A non-positive
// tolerance falls back to the default.
func NewModTime(tolerance time.Duration) *ModTime {
	if tolerance <= 0 {
		tolerance = DefaultModTimeTolerance
	}
	return &ModTime{tolerance: tolerance}
}

// HasChanged implements s3types.FileComparator.
func (c *ModTime) HasChanged(local *s3types.LocalFile, remote *s3types.RemoteFile) (bool, error) {
	return modTimeDiffers(local, remote, c.tolerance), nil
}

// isSinglePartETag reports whether an ETag is a plain MD5 content hash.
// Multipart uploads produce "hash-partcount" tags that cannot be
// recomputed from the file alone.
func isSinglePartETag(etag string) bool {
	return etag != "" && !strings.Contains(etag, "-")
}

// modTimeDiffers checks whether the two timestamps are further apart
// than the tolerance.
func modTimeDiffers(local *s3types.LocalFile, remote *s3types.RemoteFile, tolerance time.Duration) bool {
	diff := local.ModTime.Sub(remote.LastModified)
	if diff < 0 {
		diff = -diff
	}
	return diff > tolerance
}

// hashFile streams a file through the given hash and returns the hex
// digest.
func hashFile(filesystem fs.Filesystem, path string, hashFunc func() hash.Hash) (string, error) {
	file, err := filesystem.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	h := hashFunc()
	if _, err := io.Copy(h, file); err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

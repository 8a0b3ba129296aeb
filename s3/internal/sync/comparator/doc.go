// Package comparator implements the change-detection strategies that
// decide which files a sync transfers.
//
// Every comparator satisfies s3types.FileComparator. Smart is the
// default: size, then single-part ETag MD5, then modification time.
// SizeOnly, Checksum and ModTime trade accuracy against cost in
// different directions for callers that know their data.
package comparator

// Package scanner builds the two inventories a sync works from: the
// local files under a directory and the S3 objects under a prefix.
//
// Both scans run the same include/exclude glob patterns over paths
// relative to the sync root, so a pattern filters identically no matter
// which side it is applied to.
package scanner

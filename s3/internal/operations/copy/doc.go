// Package copy handles S3 object copy and move operations.
// This includes server-side copying between buckets and multipart copy
// operations for large objects.
//
// Copy operations use S3's server-side copy so the data never transits
// the client.
package copy

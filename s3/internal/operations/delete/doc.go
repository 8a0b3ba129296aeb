// Package delete handles multi-object deletion.
// S3 caps DeleteObjects at 1000 keys per request, so larger inputs are
// chunked and the chunks issued through the shared worker pool.
//
// Per-key failures inside an otherwise successful request are collected
// into the result rather than failing the whole batch.
package delete

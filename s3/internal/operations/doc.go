// Package operations contains the per-operation S3 implementations.
// Each operation family (upload, download, copy, delete, list) lives in
// its own subpackage working against the s3api client interface, and the
// public Client wires the families together.
package operations

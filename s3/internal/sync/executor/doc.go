// Package executor runs a planned sync operation list: uploads and
// downloads through the shared worker pool, then remote deletes as
// chunked DeleteObjects requests and local deletes as plain unlinks.
//
// Failures are collected per item and never abort the rest of the plan,
// matching the batch operation semantics elsewhere in the module.
package executor

// Package pool provides pooled byte buffers for streaming transfers.
// Download and copy paths borrow buffers here instead of allocating
// per call.
package pool

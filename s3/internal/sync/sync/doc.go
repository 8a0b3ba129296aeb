// Package sync orchestrates directory synchronization: scan both sides,
// plan the diff, execute the plan. The Manager here is what the public
// SyncToRemote and SyncFromRemote operations drive.
package sync

// Package sync and its subpackages implement directory
// synchronization between a local tree and an S3 prefix: scanning
// (scanner), change detection (comparator), diff planning (planner)
// and parallel execution (executor), coordinated by the sync
// subpackage.
package sync

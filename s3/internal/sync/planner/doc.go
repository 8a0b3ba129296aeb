// Package planner diffs the local and remote inventories of a sync and
// produces the ordered operation plan: uploads or downloads for new and
// changed files, optional deletes for extras on the destination side,
// and skips for files already in sync.
//
// Plans are deterministic: transfers sort smallest-first within their
// size tier, deletes run after transfers.
package planner

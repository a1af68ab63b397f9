// Package syncer reconciles backend file listings against the persisted
// catalog. One run diffs a fresh listing row by row, stages adds, refreshes
// changed entries, optionally prunes rows whose files vanished, and reports
// per-operation counts. Runs are single-flight per provider: a second sync
// for the same provider fails fast while the first is in progress, and
// progress snapshots plus cancellation are available for the active run.
package syncer

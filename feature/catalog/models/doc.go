// Package models holds the persisted catalog types shared between the
// repository and the reconciliation engine: the Product row, the Candidate
// produced by feed validation, the tri-state ProductPatch applied by batched
// updates, and the SyncRun completion record.
package models

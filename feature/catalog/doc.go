// Package catalog implements persistence for the product catalog.
//
// The Repository wraps a gorm connection and exposes exactly the operations
// the reconciliation engine consumes: bulk lookup by external id, batched
// parameterized updates, batched inserts, the cursor-paginated scan used by
// the missing sweep, and the run completion record.
package catalog

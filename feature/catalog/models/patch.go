package models

import "time"

// ChangeKind states how a patch treats one column.
type ChangeKind uint8

const (
	// Unchanged leaves the column alone.
	Unchanged ChangeKind = iota
	// SetValue assigns the carried value.
	SetValue
	// ClearValue nulls the column out.
	ClearValue
)

// FieldChange is an explicit tri-state for a single patched column.
// It distinguishes "do not touch this column" from "set it to NULL",
// which a bare optional cannot express without nesting.
type FieldChange[T any] struct {
	Kind  ChangeKind
	Value T
}

// Keep returns a change that leaves the column untouched.
func Keep[T any]() FieldChange[T] {
	return FieldChange[T]{Kind: Unchanged}
}

// Set returns a change assigning v to the column.
func Set[T any](v T) FieldChange[T] {
	return FieldChange[T]{Kind: SetValue, Value: v}
}

// Clear returns a change nulling the column out.
func Clear[T any]() FieldChange[T] {
	return FieldChange[T]{Kind: ClearValue}
}

// FromPtr maps a nullable value onto a change: nil clears, non-nil sets.
func FromPtr[T any](p *T) FieldChange[T] {
	if p == nil {
		return Clear[T]()
	}
	return Set(*p)
}

// ProductPatch describes the column updates for one product row.
// Only columns whose change kind is not Unchanged are written.
type ProductPatch struct {
	ProductID uint
	Available FieldChange[bool]
	Price     FieldChange[float64]
	OldPrice  FieldChange[float64]
	Currency  FieldChange[string]
	RenewedAt time.Time
}

// Empty reports whether the patch would write nothing.
func (p ProductPatch) Empty() bool {
	return p.Available.Kind == Unchanged &&
		p.Price.Kind == Unchanged &&
		p.OldPrice.Kind == Unchanged &&
		p.Currency.Kind == Unchanged
}

// Columns returns the parameterized column assignments for the patch.
// A non-empty patch always stamps the renewal timestamp and the
// needs-renew marker alongside the changed columns.
func (p ProductPatch) Columns() map[string]any {
	cols := make(map[string]any)
	addChange(cols, "available", p.Available)
	addChange(cols, "price", p.Price)
	addChange(cols, "old_price", p.OldPrice)
	addChange(cols, "currency", p.Currency)
	if len(cols) == 0 {
		return cols
	}
	cols["renewed_at"] = p.RenewedAt
	cols["needs_renew"] = true
	return cols
}

func addChange[T any](cols map[string]any, column string, c FieldChange[T]) {
	switch c.Kind {
	case SetValue:
		cols[column] = c.Value
	case ClearValue:
		cols[column] = nil
	}
}

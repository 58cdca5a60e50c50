// Package reconcile contains the diff engine that synchronizes parsed feed
// offers with the product catalog.
//
// # Pipeline
//
// Runner wires the pieces together: the feed parser produces raw offers,
// validation gates them into candidates, Engine diffs candidates against
// existing catalog rows in fixed-size chunks, and Sweep finally marks rows
// that disappeared from the feed as not-available.
//
// # Policy flags
//
// Availability updates, price-group updates, inserts, and the missing sweep
// are gated by independent Options flags. Change detection always runs and
// always counts, so a run with every flag disabled doubles as a dry run
// that reports what would have changed.
//
// # Failure model
//
// Recoverable feed problems never reach this package; they are absorbed by
// the parser and validator. Any repository error is fatal and aborts the
// run. There is no retry and no cross-chunk transaction: chunks committed
// before the failure stay committed.
package reconcile

// Package feed reads supplier product feeds.
//
// The feed is a large XML document of repeated offer elements. Parser walks
// it with a streaming token decoder and a small tag state machine, producing
// one RawOffer at a time without holding the document in memory. Malformed
// scalar fields degrade to absent values with a warning; a malformed
// availability attribute or broken XML aborts the run.
//
// Validate gates raw offers into catalog candidates, and Open resolves a
// feed location (local path or s3://bucket/object) into a byte stream.
package feed

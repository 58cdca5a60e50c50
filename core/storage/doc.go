// Package storage provides the object storage client used to fetch supplier
// feeds that are delivered to an S3/MinIO bucket instead of the local disk.
//
// The Client interface wraps the subset of the MinIO API the sync needs
// (existence check, download, stat) so tests can substitute a mock.
package storage

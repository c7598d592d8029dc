// Package sinks implements delivery destinations for the final archive:
// local filesystem, raw stream, and S3-compatible object storage. The
// ArchiveSink wraps any of them so that every written file lands inside a
// single ZIP handed to the inner sink on Close.
package sinks

// Package draft persists named, timestamped résumé drafts. A Store owns the
// whole collection and serialises it as a single JSON blob stored under one
// fixed key in a Backend (memory, file, bbolt, redis or postgres). Every
// mutation rewrites the full blob in one Put so readers never observe a
// partially written collection. Missing or corrupt blobs are logged and
// treated as an empty collection.
package draft

// Package sqlite stores the candidate index in a single SQLite file
// (~/.cinepick/data/index.db by default) through modernc.org/sqlite, so the
// binary stays CGO-free.
//
// Chunk metadata lives in typed columns and the duration, year and title
// filters run in SQL. Embeddings are little-endian float32 blobs ranked by
// cosine similarity in Go.
//
// The schema comes from the versioned .up.sql/.down.sql pairs in migrations/.
// Replace swaps the whole corpus in one transaction, so a concurrent search
// sees the old rows or the new ones, never both.
package sqlite

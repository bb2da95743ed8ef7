package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/cinepick/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/cinepick/internal/core/domain"
	"github.com/custodia-labs/cinepick/internal/core/ports/driven"
)

// Store is a SQLite-backed candidate index.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.cinepick/data/index.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".cinepick", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "index.db")

	// WAL lets the server keep reading while an ingest replaces the index
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// CandidateIndex returns a CandidateIndex interface backed by this store.
func (s *Store) CandidateIndex() driven.CandidateIndex {
	return &candidateIndex{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_candidates.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}

		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Candidate Index ====================

// candidateIndex implements driven.CandidateIndex.
type candidateIndex struct {
	store *Store
}

var _ driven.CandidateIndex = (*candidateIndex)(nil)

// Replace swaps the index contents in a single transaction.
func (c *candidateIndex) Replace(ctx context.Context, chunks []domain.Chunk) error {
	tx, err := c.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM chunks"); err != nil {
		return fmt.Errorf("clearing chunks: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, record_id, position, content, title, title_norm,
			duration_minutes, release_year, rating, embedding)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, chunk := range chunks {
		if len(chunk.Embedding) == 0 {
			return fmt.Errorf("chunk %s: %w: missing embedding", chunk.ID, domain.ErrInvalidInput)
		}

		if _, err := stmt.ExecContext(ctx,
			chunk.ID, chunk.RecordID, chunk.Position, chunk.Text,
			nullString(chunk.Title), nullString(domain.NormalizeTitle(chunk.Title)),
			nullInt(chunk.Metadata.DurationMinutes), nullInt(chunk.Metadata.ReleaseYear),
			nullFloat(chunk.Metadata.Rating),
			float32SliceToBytes(chunk.Embedding),
		); err != nil {
			return fmt.Errorf("saving chunk: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Search applies the filters in SQL and ranks the surviving rows by cosine
// similarity to the query embedding.
func (c *candidateIndex) Search(
	ctx context.Context,
	embedding []float32,
	query domain.IndexQuery,
) ([]domain.Candidate, error) {
	if len(embedding) == 0 {
		return nil, fmt.Errorf("%w: empty query embedding", domain.ErrInvalidInput)
	}

	where, args := filterClause(query.Filters)
	rows, err := c.store.db.QueryContext(ctx,
		"SELECT content, duration_minutes, release_year, rating, embedding FROM chunks"+where, args...)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var candidates []domain.Candidate
	for rows.Next() {
		var (
			content  string
			duration sql.NullInt64
			year     sql.NullInt64
			rating   sql.NullFloat64
			blob     []byte
		)
		if err := rows.Scan(&content, &duration, &year, &rating, &blob); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}

		vec := bytesToFloat32Slice(blob)
		if len(vec) != len(embedding) {
			return nil, fmt.Errorf("embedding dimension mismatch: index has %d, query has %d", len(vec), len(embedding))
		}

		meta := domain.ChunkMetadata{
			DurationMinutes: intFromNull(duration),
			ReleaseYear:     intFromNull(year),
			Rating:          floatFromNull(rating),
		}
		candidates = append(candidates, domain.Candidate{
			Content:    content,
			Metadata:   meta.Map(),
			Similarity: domain.CosineSimilarity(embedding, vec),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Similarity > candidates[j].Similarity
	})

	topK := query.TopK
	if topK <= 0 {
		topK = domain.DefaultTopK
	}
	if len(candidates) > topK {
		candidates = candidates[:topK]
	}
	return candidates, nil
}

// Count returns the number of indexed chunks.
func (c *candidateIndex) Count(ctx context.Context) (int, error) {
	var n int
	if err := c.store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM chunks").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting chunks: %w", err)
	}
	return n, nil
}

// Close is a no-op; the owning Store closes the connection.
func (c *candidateIndex) Close() error {
	return nil
}

// filterClause renders the WHERE clause for a filter spec.
// NULL metadata never satisfies a comparison, so rows missing a filtered
// field drop out without extra predicates.
func filterClause(f domain.FilterSpec) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if f.MaxDurationMinutes != nil {
		conds = append(conds, "duration_minutes <= ?")
		args = append(args, *f.MaxDurationMinutes)
	}
	if f.MinYear != nil {
		conds = append(conds, "release_year >= ?")
		args = append(args, *f.MinYear)
	}
	if f.MaxYear != nil {
		conds = append(conds, "release_year <= ?")
		args = append(args, *f.MaxYear)
	}
	if len(f.ExcludedTitles) > 0 {
		placeholders := make([]string, len(f.ExcludedTitles))
		for i, t := range f.ExcludedTitles {
			placeholders[i] = "?"
			args = append(args, domain.NormalizeTitle(t))
		}
		conds = append(conds, "(title_norm IS NULL OR title_norm NOT IN ("+strings.Join(placeholders, ", ")+"))")
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func intFromNull(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func floatFromNull(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}

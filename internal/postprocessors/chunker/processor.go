// Package chunker provides a boundary-aware text chunking processor.
//
// Text is split recursively: the processor first tries paragraph breaks,
// then line breaks, sentence ends and spaces, and only cuts inside a word
// when a single word is longer than the chunk size. Adjacent pieces are
// merged back into windows of at most chunkSize characters, carrying up to
// overlap characters of trailing context into the next window.
package chunker

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/custodia-labs/cinepick/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 200

// Name is the registry key for this processor.
const Name = "chunker"

// DefaultSeparators are tried in order, coarsest first.
// The empty separator splits between characters.
var DefaultSeparators = []string{"\n\n", "\n", ". ", " ", ""}

// Processor splits record text into overlapping chunks.
// It implements the PostProcessor interface.
type Processor struct {
	chunkSize  int
	overlap    int
	separators []string
	keepSep    bool
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// WithSeparators replaces the separator hierarchy.
func WithSeparators(separators ...string) Option {
	return func(p *Processor) {
		if len(separators) > 0 {
			p.separators = separators
		}
	}
}

// WithKeepSeparator keeps each separator at the start of the piece that
// follows it instead of dropping it. Windows are then joined without an
// added separator.
func WithKeepSeparator(keep bool) Option {
	return func(p *Processor) {
		p.keepSep = keep
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize:  DefaultChunkSize,
		overlap:    DefaultChunkOverlap,
		separators: DefaultSeparators,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Ensure overlap doesn't exceed chunk size
	if p.overlap >= p.chunkSize {
		p.overlap = p.chunkSize / 4
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return Name
}

// ChunkSize returns the configured window size.
func (p *Processor) ChunkSize() int {
	return p.chunkSize
}

// Overlap returns the configured overlap.
func (p *Processor) Overlap() int {
	return p.overlap
}

// Process splits the record text into chunks.
// Input chunks are ignored; this processor creates new chunks from record text.
func (p *Processor) Process(ctx context.Context, record *domain.Record, _ []domain.Chunk) ([]domain.Chunk, error) {
	if strings.TrimSpace(record.Text) == "" {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	texts := p.Split(record.Text)
	chunks := make([]domain.Chunk, 0, len(texts))
	for i, text := range texts {
		chunks = append(chunks, domain.Chunk{
			ID:       uuid.New().String(),
			RecordID: record.ID,
			Position: i,
			Text:     text,
		})
	}

	return chunks, nil
}

// Split returns the chunk texts for the given text.
func (p *Processor) Split(text string) []string {
	return p.split(text, p.separators)
}

func (p *Processor) split(text string, separators []string) []string {
	// Pick the coarsest separator present in the text.
	sep := separators[len(separators)-1]
	var rest []string
	for i, s := range separators {
		if s == "" || strings.Contains(text, s) {
			sep = s
			rest = separators[i+1:]
			break
		}
	}

	joinSep := sep
	if p.keepSep {
		joinSep = ""
	}

	var (
		out  []string
		good []string
	)
	for _, piece := range splitOn(text, sep, p.keepSep) {
		if length(piece) < p.chunkSize {
			good = append(good, piece)
			continue
		}
		if len(good) > 0 {
			out = append(out, p.merge(good, joinSep)...)
			good = nil
		}
		if len(rest) == 0 {
			out = append(out, piece)
		} else {
			out = append(out, p.split(piece, rest)...)
		}
	}
	if len(good) > 0 {
		out = append(out, p.merge(good, joinSep)...)
	}
	return out
}

// merge joins small pieces into windows no longer than chunkSize, dropping
// pieces from the front of the window until at most overlap characters are
// carried into the next one.
func (p *Processor) merge(pieces []string, sep string) []string {
	sepLen := length(sep)

	var (
		out     []string
		current []string
		total   int
	)
	for _, piece := range pieces {
		n := length(piece)
		if total+n+joinCost(current, sepLen) > p.chunkSize && len(current) > 0 {
			if doc := strings.TrimSpace(strings.Join(current, sep)); doc != "" {
				out = append(out, doc)
			}
			for total > p.overlap || (total > 0 && total+n+joinCost(current, sepLen) > p.chunkSize) {
				total -= length(current[0])
				if len(current) > 1 {
					total -= sepLen
				}
				current = current[1:]
			}
		}
		total += n + joinCost(current, sepLen)
		current = append(current, piece)
	}
	if doc := strings.TrimSpace(strings.Join(current, sep)); doc != "" {
		out = append(out, doc)
	}
	return out
}

// joinCost is the separator length added when appending to current.
func joinCost(current []string, sepLen int) int {
	if len(current) == 0 {
		return 0
	}
	return sepLen
}

// splitOn splits text on sep, dropping empty pieces. Unless keep is set the
// separator text is discarded, so a leading separator vanishes entirely.
// An empty separator splits into individual characters.
func splitOn(text, sep string, keep bool) []string {
	var parts []string
	if sep == "" {
		parts = make([]string, 0, utf8.RuneCountInString(text))
		for _, r := range text {
			parts = append(parts, string(r))
		}
		return parts
	}
	for i, part := range strings.Split(text, sep) {
		if keep && i > 0 {
			part = sep + part
		}
		if part != "" {
			parts = append(parts, part)
		}
	}
	return parts
}

func length(s string) int {
	return utf8.RuneCountInString(s)
}

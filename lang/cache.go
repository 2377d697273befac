package lang

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"sync"

	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"

	"github.com/ardnew/tzlang/lang/ast"
	"github.com/ardnew/tzlang/lang/parser"
	"github.com/ardnew/tzlang/pkg"
)

// registry maps a source hash to the result of parsing that source. Trees
// are never modified after parsing, so one tree is shared by every caller.
var registry sync.Map

type entry struct {
	prog   *ast.BlockStatement
	err    error
	source string
	once   sync.Once
}

// ParseString parses source as a program. Results, including errors, are
// cached by source content.
func ParseString(
	ctx context.Context,
	source string,
	opts ...Option,
) (*ast.BlockStatement, error) {
	cfg := newConfig(opts...)

	hash := xxh3.HashString(source)
	key := strconv.FormatUint(hash, 36)

	value, hit := registry.LoadOrStore(key, &entry{source: source})
	e := value.(*entry)

	cfg.logger.TraceContext(ctx, "cache lookup",
		slog.String("source_hash", strconv.FormatUint(hash, 16)),
		slog.Bool("cache_hit", hit),
	)

	if e.source != source {
		cfg.logger.TraceContext(ctx, "cache collision",
			slog.String("source_hash", strconv.FormatUint(hash, 16)),
		)

		return parser.Parse(source)
	}

	e.once.Do(func() { e.prog, e.err = parser.Parse(source) })

	return e.prog, e.err
}

// ParseReader reads all of r and parses it with [ParseString].
func ParseReader(
	ctx context.Context,
	r io.Reader,
	opts ...Option,
) (*ast.BlockStatement, error) {
	source, err := ReadSource(ctx, r, opts...)
	if err != nil {
		return nil, err
	}

	return ParseString(ctx, source, opts...)
}

// ReadSource reads all of r. Reads run ahead of consumption on a separate
// goroutine.
func ReadSource(ctx context.Context, r io.Reader, opts ...Option) (string, error) {
	cfg := newConfig(opts...)

	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return "", pkg.ErrReadInput.Wrap(err)
	}

	cfg.logger.TraceContext(ctx, "read input",
		slog.Int("source_bytes", len(data)),
		slog.Bool("read_ahead", true),
	)

	return string(data), nil
}

// ClearCache discards every cached parse result.
func ClearCache() { registry.Clear() }

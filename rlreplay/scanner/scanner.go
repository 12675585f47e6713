// Package scanner decodes many replay files concurrently. Each file is decoded
// independently; a failure in one file is reported in its Result and does not
// stop the others.
package scanner

import (
	"context"
	"io/fs"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/reallyoldfogie/rl-replay-go/rlreplay"
)

// Result is the outcome of decoding one file.
type Result struct {
	Path     string
	Replay   *rlreplay.Replay
	Warnings []string
	Err      error
}

// Scanner decodes replay files with a bounded number of workers.
type Scanner struct {
	workers int
	opts    rlreplay.Options
	log     zerolog.Logger

	mu      sync.Mutex
	decoded int
	failed  int
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithWorkers sets the number of files decoded at once. Values below one
// select runtime.NumCPU().
func WithWorkers(n int) Option {
	return func(s *Scanner) { s.workers = n }
}

// WithOptions sets the decoder limits.
func WithOptions(opts rlreplay.Options) Option {
	return func(s *Scanner) { s.opts = opts }
}

// WithLogger sets the logger used for per-file progress and warnings. Decode
// failures are only logged at debug level; they are reported in Result.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Scanner) { s.log = l }
}

// New creates a Scanner. By default it uses one worker per CPU and logs
// nothing.
func New(opts ...Option) *Scanner {
	s := &Scanner{log: zerolog.Nop()}
	for _, o := range opts {
		o(s)
	}
	if s.workers < 1 {
		s.workers = runtime.NumCPU()
	}
	return s
}

// Scan decodes every path and returns one Result per path, in input order.
// It fails only when ctx is cancelled; files not started by then are skipped.
func (s *Scanner) Scan(ctx context.Context, paths []string) ([]Result, error) {
	results := make([]Result, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, path := range paths {
		if gctx.Err() != nil {
			break
		}
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = s.decode(path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	if err := ctx.Err(); err != nil {
		return results, err
	}
	return results, nil
}

// Stats returns how many files decoded and failed so far.
func (s *Scanner) Stats() (decoded, failed int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.decoded, s.failed
}

func (s *Scanner) decode(path string) Result {
	r, warnings, err := rlreplay.Validate(path, s.opts, s.log)

	s.mu.Lock()
	if err != nil {
		s.failed++
	} else {
		s.decoded++
	}
	s.mu.Unlock()

	if err != nil {
		s.log.Debug().Err(err).Str("path", path).Msg("decode failed")
		return Result{Path: path, Err: err}
	}
	return Result{Path: path, Replay: r, Warnings: warnings}
}

// Find returns the ".replay" files under root, in lexical order. A root that
// is itself a file is returned as is.
func Find(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if path == root || strings.EqualFold(filepath.Ext(path), ".replay") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}

package script

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"path/filepath"
	"strings"
	"time"

	"github.com/ironsheep/raster-tools-mcp/internal/codec"
	"github.com/ironsheep/raster-tools-mcp/internal/raster"
)

var (
	// ErrUnknownCommand is returned for a command name with no operation.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrUsage is returned when a command has the wrong number or kind of arguments.
	ErrUsage = errors.New("invalid arguments")

	// ErrNoImage is returned by commands that need a current image before one is loaded.
	ErrNoImage = errors.New("no image loaded")
)

// Result reports the outcome of one command.
type Result struct {
	Command string `json:"command"`
	Message string `json:"message,omitempty"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`

	// Match is set by compare: true when the current image equals the file.
	Match *bool `json:"match,omitempty"`
}

// Session holds the current image and executes commands against it.
//
// A Session is not safe for concurrent use.
type Session struct {
	current *raster.Buffer
	cache   *codec.Cache
	rng     *rand.Rand
	logger  *slog.Logger
	baseDir string
}

// Option configures a Session.
type Option func(*Session)

// WithCache shares a load cache between sessions.
func WithCache(c *codec.Cache) Option {
	return func(s *Session) { s.cache = c }
}

// WithSeed makes the randomized commands (dither-rand, npr-paint) repeatable.
func WithSeed(seed uint64) Option {
	return func(s *Session) { s.rng = rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15)) }
}

// WithLogger sets the logger used for command tracing.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithBaseDir resolves relative paths in commands against dir.
func WithBaseDir(dir string) Option {
	return func(s *Session) { s.baseDir = dir }
}

// NewSession creates a session with no current image.
func NewSession(opts ...Option) *Session {
	s := &Session{}
	for _, opt := range opts {
		opt(s)
	}
	if s.cache == nil {
		s.cache = codec.NewCache()
	}
	if s.rng == nil {
		now := uint64(time.Now().UnixNano())
		s.rng = rand.New(rand.NewPCG(now, now>>32))
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Current returns the current image, or nil before the first load.
func (s *Session) Current() *raster.Buffer {
	return s.current
}

// SetCurrent replaces the current image.
func (s *Session) SetCurrent(b *raster.Buffer) {
	s.current = b
}

// Exec parses and runs one command line such as "rotate 30" or
// "comp-over top.tga". Blank lines and lines starting with '#' are ignored
// and return a nil result.
func (s *Session) Exec(line string) (*Result, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
		return nil, nil
	}

	name, args := strings.ToLower(fields[0]), fields[1:]
	op, ok := Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, name)
	}
	if len(args) != len(op.Args) {
		return nil, fmt.Errorf("%w: usage: %s", ErrUsage, op.Usage())
	}
	if op.needsImage && s.current == nil {
		return nil, fmt.Errorf("%s: %w", name, ErrNoImage)
	}

	start := time.Now()
	result, err := op.run(s, args)
	if err != nil {
		s.logger.Debug("command failed", "command", line, "error", err)
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	result.Command = strings.Join(fields, " ")
	if s.current != nil {
		result.Width, result.Height = s.current.Width(), s.current.Height()
	}
	s.logger.Debug("command done", "command", result.Command,
		"width", result.Width, "height", result.Height, "elapsed", time.Since(start))
	return result, nil
}

// Run executes a script one line at a time and stops at the first failing
// command. The error names the failing line number.
func (s *Session) Run(r io.Reader) ([]Result, error) {
	var results []Result
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		result, err := s.Exec(scanner.Text())
		if err != nil {
			return results, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if result != nil {
			results = append(results, *result)
		}
	}
	if err := scanner.Err(); err != nil {
		return results, fmt.Errorf("reading script: %w", err)
	}
	return results, nil
}

// resolve makes path relative to the session's base directory.
func (s *Session) resolve(path string) string {
	if s.baseDir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(s.baseDir, path)
}

// loadOther reads the second operand of a binary command.
func (s *Session) loadOther(path string) (*raster.Buffer, error) {
	return s.cache.Load(s.resolve(path))
}

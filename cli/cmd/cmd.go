package cmd

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ardnew/churchill/lambda"
	"github.com/ardnew/churchill/log"
)

// contextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// kongVar returns the kong variable named key, if a kong.Context is stored
// in ctx and defines it.
func kongVar(ctx context.Context, key string) (string, bool) {
	ktx := kongContextFrom(ctx)
	if ktx == nil {
		return "", false
	}

	val, ok := ktx.Model.Vars()[key]

	return val, ok
}

type streamsKey struct{}

// Streams are the standard streams a command reads from and writes to.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// WithStreams returns a new context.Context whose commands use the given
// streams. Nil members fall back to the process's standard streams.
func WithStreams(ctx context.Context, s Streams) context.Context {
	return context.WithValue(ctx, streamsKey{}, s)
}

func streamsFrom(ctx context.Context) Streams {
	s, _ := ctx.Value(streamsKey{}).(Streams)

	if s.In == nil {
		s.In = os.Stdin
	}

	if s.Out == nil {
		s.Out = os.Stdout
	}

	if s.Err == nil {
		s.Err = os.Stderr
	}

	return s
}

type (
	sourceFilesKey struct{}
	sourceFiles    struct {
		paths    []string
		hasStdin bool
	}

	// SourceFiles are the prelude definition files loaded into every session
	// before any input is evaluated.
	SourceFiles interface {
		IsZero() bool
		Names() []string
		Load(ctx context.Context, s *lambda.Session, stdin io.Reader) error
	}
)

// IsZero reports whether there are no source files.
func (s *sourceFiles) IsZero() bool { return len(s.paths) == 0 && !s.hasStdin }

// Names returns the source file paths in load order, with [StdinSource]
// last if standard input was requested.
func (s *sourceFiles) Names() []string {
	names := append([]string(nil), s.paths...)
	if s.hasStdin {
		names = append(names, StdinSource)
	}

	return names
}

// Load executes every source file in order into session. Expression lines
// are evaluated but their results are discarded. The first failure is
// returned annotated with the file name.
func (s *sourceFiles) Load(
	ctx context.Context,
	session *lambda.Session,
	stdin io.Reader,
) error {
	for _, name := range s.Names() {
		if err := loadSource(ctx, session, name, stdin); err != nil {
			return err
		}
	}

	return nil
}

func loadSource(
	ctx context.Context,
	session *lambda.Session,
	name string,
	stdin io.Reader,
) error {
	r := stdin

	if name != StdinSource {
		file, err := os.Open(name)
		if err != nil {
			return ErrLoadSource.With(slog.String("file", name)).Wrap(err)
		}
		defer file.Close()

		r = file
	}

	err := session.Load(ctx, r, nil)
	if err != nil {
		attrs := []slog.Attr{slog.String("file", name)}

		var lerr *lambda.LineError
		if errors.As(err, &lerr) {
			attrs = append(attrs, slog.Int("line", lerr.Line))
		}

		return ErrLoadSource.With(attrs...).Wrap(err)
	}

	log.DebugContext(ctx, "loaded source file",
		slog.String("file", name),
		slog.Int("definitions", len(session.Env())),
	)

	return nil
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// WithSourceFiles returns a new context.Context containing the given prelude
// source files.
//
// The function deduplicates files by resolving symlinks and comparing device/
// inode pairs. All occurrences of "-" are replaced with a single stdin entry
// placed last so it loads after all regular files. Files that cannot be
// stat'ed are kept so that loading reports the failure.
func WithSourceFiles(ctx context.Context, sources []string) context.Context {
	return context.WithValue(ctx, sourceFilesKey{}, buildSourceFiles(sources))
}

// buildSourceFiles constructs a SourceFiles from the given source paths.
func buildSourceFiles(sources []string) SourceFiles {
	if len(sources) == 0 {
		return nil
	}

	var srcs sourceFiles

	srcs.paths = make([]string, 0, len(sources))
	seen := make(map[fileKey]struct{})

	stdinKey, stdinOK := statFileKey(os.Stdin.Stat())

	for _, src := range sources {
		if src == StdinSource {
			srcs.hasStdin = true

			continue
		}

		path, key, ok := uniqueFile(src)
		if ok {
			if stdinOK && key == stdinKey {
				srcs.hasStdin = true

				continue
			}

			if _, dup := seen[key]; dup {
				continue
			}

			seen[key] = struct{}{}
		}

		srcs.paths = append(srcs.paths, path)
	}

	if srcs.IsZero() {
		return nil
	}

	return &srcs
}

// uniqueFile resolves path to its symlink-free absolute form and returns the
// identity of the file it names. If the file cannot be resolved, path is
// returned unchanged with ok false.
func uniqueFile(path string) (resolved string, key fileKey, ok bool) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path, key, false
	}

	resolved, err = filepath.EvalSymlinks(abs)
	if err != nil {
		return path, key, false
	}

	key, ok = statFileKey(os.Stat(resolved))

	return resolved, key, ok
}

// statFileKey creates a fileKey from the result of a stat call.
// Returns false if stat failed or the underlying Sys() data is not of type
// *syscall.Stat_t.
func statFileKey(info os.FileInfo, err error) (key fileKey, ok bool) {
	if err != nil {
		return key, false
	}

	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true
}

// sourceFilesFrom retrieves the prelude files stored in ctx by
// WithSourceFiles. Returns nil if none were stored.
func sourceFilesFrom(ctx context.Context) SourceFiles {
	r, _ := ctx.Value(sourceFilesKey{}).(SourceFiles)

	return r
}

// newSession returns a session primed with the prelude files stored in ctx.
func newSession(ctx context.Context, opts ...lambda.Option) (*lambda.Session, error) {
	session := lambda.NewSession(nil, opts...)

	if srcs := sourceFilesFrom(ctx); srcs != nil {
		if err := srcs.Load(ctx, session, streamsFrom(ctx).In); err != nil {
			return nil, err
		}
	}

	return session, nil
}

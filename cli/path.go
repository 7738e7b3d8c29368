package cli

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/ardnew/mung"

	"github.com/ardnew/churchill/cli/cmd"
	"github.com/ardnew/churchill/pkg"
)

// baseConfig is the base name of the configuration file.
const baseConfig = "config.yaml"

// envPath names the environment variable holding the source search path.
const envPath = pkg.EnvPrefix + "PATH"

// defaultDirMode is the default permission mode for created directories.
var defaultDirMode os.FileMode = 0o700

// basePrefix returns the base prefix string used to construct the paths to
// the configuration and cache directories.
//
// By default, basePrefix is the base name of the executable file unless it
// matches one of the following substitution rules:
//   - "__debug_bin" (default output of the dlv debugger): replaced with cmd
//   - "^\.+" (dot-prefixed names): remove the dot prefix
var basePrefix = sync.OnceValue(
	func() string {
		id := os.Args[0]
		exe, err := os.Executable()
		if err == nil {
			id = exe
		}

		ext := filepath.Ext(filepath.Base(id))
		id = strings.TrimSuffix(filepath.Base(id), ext)

		for rex, rep := range map[*regexp.Regexp]string{
			regexp.MustCompile(`^__debug_bin\d+$`): pkg.Name, // dlv default output
			regexp.MustCompile(`^\.+`):             "",       // remove leading dot(s)
		} {
			id = rex.ReplaceAllString(id, rep)
		}

		if id == "" {
			id = pkg.Name
		}

		return id
	},
)

// userDir returns the directory reported by primary, falling back to the
// hidden fallback directory under $HOME, then the working directory.
func userDir(primary func() (string, error), fallback string) string {
	dir, err := primary()
	if err == nil {
		return filepath.Join(dir, basePrefix())
	}

	if dir, err = os.UserHomeDir(); err == nil {
		return filepath.Join(dir, fallback, basePrefix())
	}

	if dir, err = os.Getwd(); err == nil {
		return filepath.Join(dir, basePrefix())
	}

	return basePrefix()
}

// configDir returns the configuration directory path.
var configDir = sync.OnceValue(
	func() string { return userDir(os.UserConfigDir, ".config") },
)

// cacheDir returns the cache directory path used for transient files such as
// the REPL history.
var cacheDir = sync.OnceValue(
	func() string { return userDir(os.UserCacheDir, ".cache") },
)

// configPath returns the absolute path to a file or directory formed by joining
// the global configuration directory path with the given path elements.
//
// If no elements are given, it is equivalent to calling [configDir].
func configPath(elem ...string) string {
	return filepath.Join(append([]string{configDir()}, elem...)...)
}

// mkdirAllRequired creates all required runtime directories.
func mkdirAllRequired() error {
	for _, dir := range []string{configDir(), cacheDir()} {
		if err := os.MkdirAll(dir, defaultDirMode); err != nil {
			return err
		}
	}

	return nil
}

// searchPath returns the directories consulted when resolving a relative
// source file: the given directories first, followed by those listed in
// $CHURCHILL_PATH. Entries that are not existing directories are dropped.
func searchPath(dirs ...string) []string {
	list := mung.Make(
		mung.WithSubjectItems(os.Getenv(envPath)),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(dirs...),
		mung.WithFilter(isDir),
	).String()

	return filepath.SplitList(list)
}

func isDir(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.IsDir()
}

// resolveSources maps each source name to an existing file. Absolute names,
// the stdin marker "-" and names that exist relative to the working directory
// are kept as given; anything else is looked up in each directory of path in
// order.
func resolveSources(names []string, path []string) ([]string, error) {
	resolved := make([]string, 0, len(names))

	for _, name := range names {
		file, ok := resolveSource(name, path)
		if !ok {
			return nil, cmd.ErrSourceNotFound.Wrap(&os.PathError{
				Op:   "resolve",
				Path: name,
				Err:  os.ErrNotExist,
			})
		}

		resolved = append(resolved, file)
	}

	return resolved, nil
}

func resolveSource(name string, path []string) (string, bool) {
	if name == cmd.StdinSource || filepath.IsAbs(name) {
		return name, true
	}

	if isFile(name) {
		return name, true
	}

	for _, dir := range path {
		if file := filepath.Join(dir, name); isFile(file) {
			return file, true
		}
	}

	return "", false
}

func isFile(path string) bool {
	info, err := os.Stat(path)

	return err == nil && !info.IsDir()
}

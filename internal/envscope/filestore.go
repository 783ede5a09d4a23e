package envscope

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/syntax"
)

// FileStore reads persisted values from environment files.
//
// Each scope maps to an ordered list of files or glob patterns. Files hold
// shell-style assignments (FOO=bar, FOO="bar", export FOO=bar); when a
// variable is assigned more than once, the last assignment wins. Missing
// files are treated as empty.
//
// Values are expanded the way a login shell would expand them: $NAME and
// ${NAME} resolve to an earlier assignment in the same scope, else to the
// environment lookup (the process environment by default). PATH=$PATH:/x
// therefore yields the live PATH followed by /x.
type FileStore struct {
	files   map[Scope][]string
	environ func(string) string
}

// FileStoreOption configures a FileStore.
type FileStoreOption func(*FileStore)

// WithEnviron sets the lookup for variables a file references but does not
// assign.
func WithEnviron(fn func(string) string) FileStoreOption {
	return func(s *FileStore) {
		if fn != nil {
			s.environ = fn
		}
	}
}

// NewFileStore creates a FileStore from a scope-to-files mapping.
func NewFileStore(files map[Scope][]string, opts ...FileStoreOption) *FileStore {
	copied := make(map[Scope][]string, len(files))
	for scope, paths := range files {
		copied[scope] = append([]string(nil), paths...)
	}
	s := &FileStore{files: copied, environ: os.Getenv}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Lookup implements Store.
func (s *FileStore) Lookup(name string, scope Scope) (string, error) {
	if !scope.IsValid() {
		return "", &UnknownScopeError{Name: scope.String()}
	}

	paths, err := s.expand(scope)
	if err != nil {
		return "", err
	}

	vars := make(map[string]string)
	for _, path := range paths {
		if err := s.parseEnvFile(path, vars); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return "", err
		}
	}
	return vars[name], nil
}

// expand resolves glob patterns for scope, sorted within each pattern.
func (s *FileStore) expand(scope Scope) ([]string, error) {
	var out []string
	for _, pattern := range s.files[scope] {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("expand %s: %w", pattern, err)
		}
		if len(matches) == 0 && !hasMeta(pattern) {
			// Keep plain paths so a missing file is reported as ErrNotExist.
			matches = []string{pattern}
		}
		sort.Strings(matches)
		out = append(out, matches...)
	}
	return out, nil
}

func hasMeta(pattern string) bool {
	return strings.ContainsAny(pattern, `*?[`)
}

// parseEnvFile applies the assignments in path to vars.
func (s *FileStore) parseEnvFile(path string, vars map[string]string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	file, err := syntax.NewParser(syntax.Variant(syntax.LangBash)).Parse(f, path)
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	lookup := func(name string) string {
		if v, ok := vars[name]; ok {
			return v
		}
		return s.environ(name)
	}
	cfg := &expand.Config{Env: expand.FuncEnviron(lookup)}

	for _, stmt := range file.Stmts {
		var assigns []*syntax.Assign
		switch cmd := stmt.Cmd.(type) {
		case *syntax.CallExpr:
			// A bare assignment has no arguments; FOO=bar cmd is not persistent.
			if len(cmd.Args) == 0 {
				assigns = cmd.Assigns
			}
		case *syntax.DeclClause:
			assigns = cmd.Args
		}
		for _, as := range assigns {
			if as.Name == nil || as.Naked || as.Array != nil {
				continue
			}
			value, err := expand.Literal(cfg, as.Value)
			if err != nil {
				// Command substitutions are never run; the assignment is skipped.
				continue
			}
			if as.Append {
				value = lookup(as.Name.Value) + value
			}
			vars[as.Name.Value] = value
		}
	}
	return nil
}

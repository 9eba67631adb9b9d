package service

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/ludo-technologies/distclust/domain"
)

// InputResolverImpl implements domain.InputResolver over the local
// filesystem. "-" reads from the configured stdin.
type InputResolverImpl struct {
	stdin io.Reader
}

// NewInputResolver creates a resolver. A nil stdin means os.Stdin.
func NewInputResolver(stdin io.Reader) *InputResolverImpl {
	if stdin == nil {
		stdin = os.Stdin
	}
	return &InputResolverImpl{stdin: stdin}
}

// Resolve expands doublestar globs and checks that every plain path is a
// readable file. Order is preserved; glob matches are sorted. A pattern that
// matches nothing is an error, as is a path given twice.
func (r *InputResolverImpl) Resolve(paths []string) ([]string, error) {
	if len(paths) == 0 {
		return nil, domain.NewInvalidInputError("no input paths given", nil)
	}

	var sources []string
	seen := make(map[string]bool)
	add := func(p string) error {
		if seen[p] {
			return domain.NewInvalidInputError(fmt.Sprintf("input given more than once: %s", p), nil)
		}
		seen[p] = true
		sources = append(sources, p)
		return nil
	}

	for _, path := range paths {
		if path == domain.StdinPath {
			if err := add(path); err != nil {
				return nil, err
			}
			continue
		}

		if isGlobPattern(path) {
			matches, err := r.expandGlob(path)
			if err != nil {
				return nil, err
			}
			for _, m := range matches {
				if err := add(m); err != nil {
					return nil, err
				}
			}
			continue
		}

		if err := r.validateFile(path); err != nil {
			return nil, err
		}
		if err := add(path); err != nil {
			return nil, err
		}
	}

	return sources, nil
}

// Open opens one resolved source for reading
func (r *InputResolverImpl) Open(source string) (io.ReadCloser, error) {
	if source == domain.StdinPath {
		return io.NopCloser(r.stdin), nil
	}
	f, err := os.Open(source)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.NewFileNotFoundError(source, err)
		}
		return nil, domain.NewInvalidInputError(fmt.Sprintf("cannot open input: %s", source), err)
	}
	return f, nil
}

// Size returns the byte size of a source, or -1 when it is not a regular file
func (r *InputResolverImpl) Size(source string) int64 {
	if source == domain.StdinPath {
		return -1
	}
	info, err := os.Stat(source)
	if err != nil || !info.Mode().IsRegular() {
		return -1
	}
	return info.Size()
}

func (r *InputResolverImpl) expandGlob(pattern string) ([]string, error) {
	if !doublestar.ValidatePattern(filepath.ToSlash(pattern)) {
		return nil, domain.NewInvalidInputError(fmt.Sprintf("invalid glob pattern: %s", pattern), nil)
	}

	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, domain.NewInvalidInputError(fmt.Sprintf("failed to expand glob: %s", pattern), err)
	}
	if len(matches) == 0 {
		return nil, domain.NewFileNotFoundError(pattern, nil)
	}
	sort.Strings(matches)
	return matches, nil
}

func (r *InputResolverImpl) validateFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.NewFileNotFoundError(path, err)
		}
		return domain.NewInvalidInputError(fmt.Sprintf("cannot access path: %s", path), err)
	}
	if info.IsDir() {
		return domain.NewInvalidInputError(
			fmt.Sprintf("%s is a directory (use a glob such as %s)", path, filepath.Join(path, "**", "*.txt")), nil)
	}
	return nil
}

func isGlobPattern(path string) bool {
	return strings.ContainsAny(path, "*?[{")
}

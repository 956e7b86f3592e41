package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrNotFound reports that a country or program slug has no content file.
var ErrNotFound = errors.New("content not found")

const (
	// CountryFile is the per-country summary file inside each country directory.
	CountryFile = "_country.mdx"

	contentExt = ".mdx"
)

// Store reads residency content from a directory tree:
//
//	<root>/<countrySlug>/_country.mdx
//	<root>/<countrySlug>/<programSlug>.mdx
//
// The root is injected at construction so the store can run against fixture
// directories. The tree is read-only; the store never writes.
type Store struct {
	root string
}

// New creates a store rooted at the given content directory. The directory
// does not have to exist; list calls against a missing root return empty
// results.
func New(root string) *Store {
	return &Store{root: root}
}

// Root returns the configured content root path.
func (s *Store) Root() string {
	return s.root
}

// ListCountrySlugs enumerates the country subdirectories of the content root,
// sorted ascending. A missing root is an empty catalog, not an error.
func (s *Store) ListCountrySlugs() []string {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil
	}

	var slugs []string
	for _, e := range entries {
		if e.IsDir() {
			slugs = append(slugs, e.Name())
		}
	}
	sort.Strings(slugs)
	return slugs
}

// ListProgramSlugs enumerates program content files in a country directory,
// excluding the country summary file. Missing directory means no programs.
func (s *Store) ListProgramSlugs(countrySlug string) []string {
	entries, err := os.ReadDir(filepath.Join(s.root, countrySlug))
	if err != nil {
		return nil
	}

	var slugs []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, contentExt) || name == CountryFile {
			continue
		}
		slugs = append(slugs, strings.TrimSuffix(name, contentExt))
	}
	sort.Strings(slugs)
	return slugs
}

// ReadCountryRaw returns the raw country summary file for a slug.
func (s *Store) ReadCountryRaw(countrySlug string) (string, error) {
	return s.readFile(filepath.Join(s.root, countrySlug, CountryFile))
}

// ReadProgramRaw returns the raw program file for a (country, program) pair.
func (s *Store) ReadProgramRaw(countrySlug, programSlug string) (string, error) {
	return s.readFile(filepath.Join(s.root, countrySlug, programSlug+contentExt))
}

func (s *Store) readFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%s: %w", path, ErrNotFound)
		}
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

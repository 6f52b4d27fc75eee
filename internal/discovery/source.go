// Package discovery supplies candidate types to the generator. The engine
// only sees the Source capability; FileSource reads YAML descriptor files and
// StaticSource serves descriptors built in memory.
package discovery

import (
	"slices"

	"github.com/toyz/propgen/internal/errors"
	"github.com/toyz/propgen/internal/models"
)

// Source lists candidate types and their members. Descriptors are
// self-contained values; nothing refers back into the source.
type Source interface {
	ListCandidateTypes() ([]models.TypeDescriptor, error)
	ListMembers(t models.TypeDescriptor) ([]models.MemberDescriptor, error)
}

// Candidate is a type together with the file it was declared in
type Candidate struct {
	Type models.TypeDescriptor
	File string
}

// StaticSource serves a fixed list of descriptors
type StaticSource struct {
	types []models.TypeDescriptor
}

// NewStaticSource creates a source over types
func NewStaticSource(types ...models.TypeDescriptor) *StaticSource {
	return &StaticSource{types: slices.Clone(types)}
}

// ListCandidateTypes returns the types in the order given
func (s *StaticSource) ListCandidateTypes() ([]models.TypeDescriptor, error) {
	return slices.Clone(s.types), nil
}

// ListMembers returns the members of t
func (s *StaticSource) ListMembers(t models.TypeDescriptor) ([]models.MemberDescriptor, error) {
	return slices.Clone(t.Members), nil
}

// FileSource reads candidate types from descriptor files
type FileSource struct {
	files  []string
	loader *Loader
}

// NewFileSource creates a source over the given descriptor files
func NewFileSource(loader *Loader, files ...string) *FileSource {
	if loader == nil {
		loader = NewLoader(nil)
	}
	return &FileSource{files: slices.Clone(files), loader: loader}
}

// Files returns the descriptor files of the source
func (s *FileSource) Files() []string {
	return slices.Clone(s.files)
}

// ListCandidateTypes loads every file and returns its types in file order.
// All failing files are reported together.
func (s *FileSource) ListCandidateTypes() ([]models.TypeDescriptor, error) {
	candidates, err := s.Candidates()
	if err != nil {
		return nil, err
	}
	types := make([]models.TypeDescriptor, len(candidates))
	for i, c := range candidates {
		types[i] = c.Type
	}
	return types, nil
}

// Candidates is ListCandidateTypes keeping track of the declaring file
func (s *FileSource) Candidates() ([]Candidate, error) {
	errs := errors.NewMultipleErrors()
	var candidates []Candidate
	for _, file := range s.files {
		types, err := s.loader.LoadFile(file)
		if err != nil {
			errs.Add(err)
			continue
		}
		for _, t := range types {
			candidates = append(candidates, Candidate{Type: t, File: file})
		}
	}
	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	return candidates, nil
}

// ListMembers returns a copy of the members loaded with t
func (s *FileSource) ListMembers(t models.TypeDescriptor) ([]models.MemberDescriptor, error) {
	return slices.Clone(t.Members), nil
}

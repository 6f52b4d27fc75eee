package discovery

import (
	"fmt"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/toyz/propgen/internal/annotations"
	"github.com/toyz/propgen/internal/errors"
	"github.com/toyz/propgen/internal/literal"
	"github.com/toyz/propgen/internal/models"
	"github.com/toyz/propgen/internal/utils"
)

// Loader turns descriptor files into type descriptors. Parsed files are
// cached until they change on disk.
type Loader struct {
	parser *annotations.Parser
	reader *utils.FileReader
	cache  *utils.Cache[string, []models.TypeDescriptor]
}

// NewLoader creates a loader resolving modifier names against registry. A
// nil registry selects the built-in vocabulary.
func NewLoader(registry annotations.Registry) *Loader {
	return NewLoaderWithReader(registry, utils.NewFileReader())
}

// NewLoaderWithReader creates a loader reading descriptors through reader
func NewLoaderWithReader(registry annotations.Registry, reader *utils.FileReader) *Loader {
	return &Loader{
		parser: annotations.NewParser(registry),
		reader: reader,
		cache:  utils.NewCache[string, []models.TypeDescriptor](),
	}
}

// LoadFile returns the types declared in a descriptor file. The returned
// descriptors are shared with the cache and must not be modified.
func (l *Loader) LoadFile(path string) ([]models.TypeDescriptor, error) {
	clean := filepath.Clean(path)
	return l.cache.Load(clean, clean, func() ([]models.TypeDescriptor, error) {
		data, err := l.reader.ReadFile(clean)
		if err != nil {
			return nil, errors.WrapFileSystemError("read", clean, err)
		}
		return l.Parse(data, clean)
	})
}

// Invalidate drops a file from the caches
func (l *Loader) Invalidate(path string) {
	clean := filepath.Clean(path)
	l.cache.Delete(clean)
	l.reader.InvalidateFile(clean)
}

// CacheStats reports descriptor cache usage
func (l *Loader) CacheStats() utils.CacheStats {
	return l.cache.GetStats()
}

// Parse decodes descriptor YAML. path is only used for locations and
// messages. Every problem in the file is reported, not just the first.
func (l *Loader) Parse(data []byte, path string) ([]models.TypeDescriptor, error) {
	var file DescriptorFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.WrapDescriptorError(path, errors.WrapParseError("YAML", err))
	}

	errs := errors.NewMultipleErrors()
	if err := utils.ValidateNamespace("namespace")(file.Namespace); err != nil {
		errs.Add(errors.Wrap(errors.DescriptorErrorCode, "invalid namespace", err).
			WithLocation(errors.SourceLocation{File: path, Line: 1}))
	}

	seen := make(map[string]int, len(file.Types))
	types := make([]models.TypeDescriptor, 0, len(file.Types))
	for _, entry := range file.Types {
		desc, err := l.convertType(file.Namespace, entry, path)
		if err != nil {
			errs.Add(err)
			continue
		}
		key := models.FragmentKey(desc.Namespace, desc.Name, desc.Generics)
		if line, dup := seen[key]; dup {
			errs.Add(errors.Newf(errors.DescriptorErrorCode, "type %s is already declared on line %d", desc.DisplayName(), line).
				WithLocation(desc.Location))
			continue
		}
		seen[key] = entry.Line
		types = append(types, desc)
	}

	if err := errs.ErrorOrNil(); err != nil {
		return nil, errors.WrapDescriptorError(path, err)
	}
	return types, nil
}

func (l *Loader) convertType(fileNamespace string, entry TypeEntry, path string) (models.TypeDescriptor, error) {
	loc := errors.SourceLocation{File: path, Line: entry.Line, Column: entry.Column}
	fail := func(format string, args ...interface{}) (models.TypeDescriptor, error) {
		return models.TypeDescriptor{}, errors.Newf(errors.DescriptorErrorCode, format, args...).WithLocation(loc)
	}

	if err := utils.ValidateTypeName("name")(entry.Name); err != nil {
		return fail("type %q: %v", entry.Name, err)
	}

	namespace := fileNamespace
	if entry.Namespace != nil {
		namespace = *entry.Namespace
		if err := utils.ValidateNamespace("namespace")(namespace); err != nil {
			return fail("type %s: %v", entry.Name, err)
		}
	}

	if entry.Kind != "" {
		if err := utils.IsOneOf("kind", models.TypeKindKeywords...)(entry.Kind); err != nil {
			return fail("type %s: %v", entry.Name, err)
		}
	}
	kind, _ := models.ParseTypeKind(entry.Kind)

	if err := utils.ValidateEach("generics", utils.IsIdentifier("generic"))(entry.Generics); err != nil {
		return fail("type %s: %v", entry.Name, err)
	}

	mods, err := l.convertModifiers(entry.Modifiers, path)
	if err != nil {
		return models.TypeDescriptor{}, err
	}

	errs := errors.NewMultipleErrors()
	names := make(map[string]bool, len(entry.Members))
	members := make([]models.MemberDescriptor, 0, len(entry.Members))
	for _, m := range entry.Members {
		member, err := l.convertMember(m, path)
		if err != nil {
			errs.Add(err)
			continue
		}
		if names[member.Name] {
			errs.Add(errors.Newf(errors.DescriptorErrorCode, "member %s is declared twice in %s", member.Name, entry.Name).
				WithLocation(member.Location))
			continue
		}
		names[member.Name] = true
		members = append(members, member)
	}
	if err := errs.ErrorOrNil(); err != nil {
		return models.TypeDescriptor{}, err
	}

	return models.NewTypeBuilder(namespace, entry.Name).
		WithKind(kind).
		WithGenerics(entry.Generics...).
		WithModifiers(mods...).
		WithLocation(loc).
		WithMembers(members...).
		Build(), nil
}

func (l *Loader) convertMember(entry MemberEntry, path string) (models.MemberDescriptor, error) {
	loc := errors.SourceLocation{File: path, Line: entry.Line, Column: entry.Column}
	fail := func(format string, args ...interface{}) (models.MemberDescriptor, error) {
		return models.MemberDescriptor{}, errors.Newf(errors.DescriptorErrorCode, format, args...).WithLocation(loc)
	}

	if err := utils.NewValidatorChain(utils.NotEmpty("name"), utils.IsIdentifier("name")).Validate(entry.Name); err != nil {
		return fail("member %q: %v", entry.Name, err)
	}
	if err := utils.NotEmpty("type")(entry.Type); err != nil {
		return fail("member %s: %v", entry.Name, err)
	}

	if entry.Kind != "" {
		if err := utils.IsOneOf("kind", models.MemberKindKeywords...)(entry.Kind); err != nil {
			return fail("member %s: %v", entry.Name, err)
		}
	}
	kind, _ := models.ParseMemberKind(entry.Kind)

	var b *models.MemberBuilder
	switch kind {
	case models.MemberKindPartialProperty:
		b = models.NewPartialProperty(entry.Name, entry.Type)
	case models.MemberKindProperty:
		b = models.NewProperty(entry.Name, entry.Type)
	default:
		b = models.NewField(entry.Name, entry.Type)
	}

	if entry.ReadOnly {
		b.ReadOnly()
	}
	switch {
	case entry.Enum:
		b.Enum()
	case entry.Reference != nil && !*entry.Reference:
		b.Struct()
	}
	if entry.NonNull {
		b.NonNull()
	}

	mods, err := l.convertModifiers(entry.Modifiers, path)
	if err != nil {
		return models.MemberDescriptor{}, err
	}

	desc := b.WithDoc(entry.Doc).WithModifiers(mods...).WithLocation(loc).Build()
	if entry.Reference != nil && *entry.Reference && !entry.Enum {
		desc.Type.IsReference = true
		desc.Type.Primitive = false
		desc.Type.Nullable = false
	}
	return desc, nil
}

func (l *Loader) convertModifiers(entries []ModifierEntry, path string) ([]annotations.ModifierInstance, error) {
	errs := errors.NewMultipleErrors()
	mods := make([]annotations.ModifierInstance, 0, len(entries))
	for _, entry := range entries {
		loc := errors.SourceLocation{File: path, Line: entry.Line, Column: entry.Column}
		if entry.IsText() {
			m, err := l.parser.Parse(entry.Text, loc)
			if err != nil {
				errs.Add(err)
				continue
			}
			mods = append(mods, m)
			continue
		}
		mods = append(mods, l.structuredModifier(entry, loc))
	}
	return mods, errs.ErrorOrNil()
}

// structuredModifier converts a kind/args/named mapping. Argument values go
// through literal.FromGo; values without a literal form surface when the
// modifier is validated or serialized.
func (l *Loader) structuredModifier(entry ModifierEntry, loc errors.SourceLocation) annotations.ModifierInstance {
	kind, ok := l.parser.Registry().Lookup(entry.Kind)
	if !ok {
		kind = annotations.Unrecognized
	}

	m := annotations.ModifierInstance{Kind: kind, Name: entry.Kind, Location: loc}
	for _, arg := range entry.Args {
		m.Positional = append(m.Positional, literal.FromGo(arg))
	}
	for _, named := range entry.Named {
		m.Named = append(m.Named, annotations.NamedArg{Name: named.Name, Value: literal.FromGo(named.Value)})
	}
	return m
}

// String describes the loader state for explain output
func (l *Loader) String() string {
	stats := l.CacheStats()
	return fmt.Sprintf("descriptor cache: %d files, %d hits, %d misses", stats.Size, stats.Hits, stats.Misses)
}

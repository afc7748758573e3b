package decl

import "strings"

// NamespaceSeparator joins namespace segments in fully qualified names.
const NamespaceSeparator = "."

// NameScope resolves relative class-like names appearing in annotations to
// fully qualified ones, honoring the file's namespace and use-imports.
type NameScope struct {
	Namespace string
	aliases   map[string]string
}

// NewNameScope returns a scope for the given namespace ("" for the root).
func NewNameScope(namespace string) *NameScope {
	return &NameScope{
		Namespace: strings.Trim(namespace, NamespaceSeparator),
		aliases:   make(map[string]string),
	}
}

// AddAlias registers a use-import: alias resolves to the fully qualified
// target.
func (s *NameScope) AddAlias(alias, target string) {
	s.aliases[strings.ToLower(alias)] = strings.Trim(target, NamespaceSeparator)
}

// Resolve turns an annotation name into a fully qualified one. A leading
// separator marks an already-absolute name; otherwise the first segment is
// checked against the alias table before falling back to namespace
// qualification.
func (s *NameScope) Resolve(name string) string {
	if strings.HasPrefix(name, NamespaceSeparator) {
		return strings.TrimPrefix(name, NamespaceSeparator)
	}

	first, rest, _ := strings.Cut(name, NamespaceSeparator)
	if target, ok := s.aliases[strings.ToLower(first)]; ok {
		if rest == "" {
			return target
		}
		return target + NamespaceSeparator + rest
	}

	if s.Namespace == "" {
		return name
	}
	return s.Namespace + NamespaceSeparator + name
}

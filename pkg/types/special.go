package types

// TNull is the null type.
type TNull struct{}

func (t *TNull) Key() string         { return "null" }
func (t *TNull) Intersectable() bool { return false }
func (t *TNull) String() string      { return t.Key() }

// TMixed is the top type. FromAny marks mixed values that arose from an
// `any`-flavored source (no annotation at all), which downstream diagnostics
// treat more leniently. NonNull marks the mixed variant that excludes null.
type TMixed struct {
	FromAny bool
	NonNull bool
}

func (t *TMixed) Key() string {
	switch {
	case t.NonNull && t.FromAny:
		return "nonnull-mixed-from-any"
	case t.NonNull:
		return "nonnull-mixed"
	case t.FromAny:
		return "mixed-from-any"
	default:
		return "mixed"
	}
}

func (t *TMixed) Intersectable() bool { return false }
func (t *TMixed) String() string      { return t.Key() }

// TNever is the bottom type. A union built from no atomics collapses to it.
type TNever struct{}

func (t *TNever) Key() string         { return "never" }
func (t *TNever) Intersectable() bool { return false }
func (t *TNever) String() string      { return t.Key() }

// TVoid is the absence of a value in return position.
type TVoid struct{}

func (t *TVoid) Key() string         { return "void" }
func (t *TVoid) Intersectable() bool { return false }
func (t *TVoid) String() string      { return t.Key() }

// TResource is an external resource handle.
type TResource struct{}

func (t *TResource) Key() string         { return "resource" }
func (t *TResource) Intersectable() bool { return false }
func (t *TResource) String() string      { return t.Key() }

// TPlaceholder is the universal `_` placeholder that matches anything. It
// appears in explicit type arguments where the author does not care about a
// parameter.
type TPlaceholder struct{}

func (t *TPlaceholder) Key() string         { return "_" }
func (t *TPlaceholder) Intersectable() bool { return false }
func (t *TPlaceholder) String() string      { return t.Key() }

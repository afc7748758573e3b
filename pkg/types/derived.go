package types

// TKeyOf is `key-of<T>` applied to a single target atomic. The builder
// emits one TKeyOf per member of the target union rather than one merged
// atomic.
type TKeyOf struct {
	Target Atomic
}

func (t *TKeyOf) Key() string         { return "key-of<" + t.Target.Key() + ">" }
func (t *TKeyOf) Intersectable() bool { return false }
func (t *TKeyOf) String() string      { return t.Key() }

// TValueOf is `value-of<T>` applied to a single target atomic.
type TValueOf struct {
	Target Atomic
}

func (t *TValueOf) Key() string         { return "value-of<" + t.Target.Key() + ">" }
func (t *TValueOf) Intersectable() bool { return false }
func (t *TValueOf) String() string      { return t.Key() }

// PropsVisibility filters properties-of by visibility.
type PropsVisibility int

const (
	AllVisibilities PropsVisibility = iota
	PublicOnly
	ProtectedOnly
	PrivateOnly
)

func (v PropsVisibility) String() string {
	switch v {
	case PublicOnly:
		return "public-"
	case ProtectedOnly:
		return "protected-"
	case PrivateOnly:
		return "private-"
	default:
		return ""
	}
}

// TPropertiesOf is `properties-of<T>` applied to a single target atomic,
// optionally filtered by visibility.
type TPropertiesOf struct {
	Target Atomic
	Filter PropsVisibility
}

func (t *TPropertiesOf) Key() string {
	return t.Filter.String() + "properties-of<" + t.Target.Key() + ">"
}

func (t *TPropertiesOf) Intersectable() bool { return false }
func (t *TPropertiesOf) String() string      { return t.Key() }

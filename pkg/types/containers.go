package types

import (
	"strconv"
	"strings"
)

// ArrayKey is a literal string or integer array key.
type ArrayKey struct {
	Str   string
	Int   int64
	IsInt bool
}

// IntKey makes an integer array key.
func IntKey(i int64) ArrayKey { return ArrayKey{Int: i, IsInt: true} }

// StrKey makes a string array key.
func StrKey(s string) ArrayKey { return ArrayKey{Str: s} }

func (k ArrayKey) String() string {
	if k.IsInt {
		return strconv.FormatInt(k.Int, 10)
	}
	return k.Str
}

// AtomicType returns the atomic type describing this key.
func (k ArrayKey) AtomicType() Atomic {
	if k.IsInt {
		v := k.Int
		return &TInt{Literal: &v}
	}
	s := k.Str
	return &TString{Literal: &s}
}

// KnownItem is one known field of a keyed array shape.
type KnownItem struct {
	Key      ArrayKey
	Optional bool
	Type     *Union
}

// TKeyedArray is an associative array. Either the open key/value parameters
// are set (`array<K, V>`), or KnownItems carries a shape, or both when the
// shape is unsealed.
type TKeyedArray struct {
	KeyType    *Union
	ValueType  *Union
	KnownItems []KnownItem
	NonEmpty   bool
}

func (t *TKeyedArray) Key() string {
	var sb strings.Builder
	if t.NonEmpty && len(t.KnownItems) == 0 {
		sb.WriteString("non-empty-")
	}
	sb.WriteString("array")
	if len(t.KnownItems) > 0 {
		sb.WriteString("{")
		for i, item := range t.KnownItems {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(item.Key.String())
			if item.Optional {
				sb.WriteString("?")
			}
			sb.WriteString(": ")
			sb.WriteString(item.Type.ID())
		}
		if t.KeyType != nil && t.ValueType != nil {
			sb.WriteString(", ...<" + t.KeyType.ID() + ", " + t.ValueType.ID() + ">")
		}
		sb.WriteString("}")
		return sb.String()
	}
	key, value := "array-key", "mixed"
	if t.KeyType != nil {
		key = t.KeyType.ID()
	}
	if t.ValueType != nil {
		value = t.ValueType.ID()
	}
	sb.WriteString("<" + key + ", " + value + ">")
	return sb.String()
}

func (t *TKeyedArray) Intersectable() bool { return false }
func (t *TKeyedArray) String() string      { return t.Key() }

// Item looks up a known item by key.
func (t *TKeyedArray) Item(key ArrayKey) (KnownItem, bool) {
	for _, item := range t.KnownItems {
		if item.Key == key {
			return item, true
		}
	}
	return KnownItem{}, false
}

// OpenKeyType returns the open key parameter, defaulting to array-key.
func (t *TKeyedArray) OpenKeyType() *Union {
	if t.KeyType != nil {
		return t.KeyType
	}
	return ArrayKeyType()
}

// OpenValueType returns the open value parameter, defaulting to mixed.
func (t *TKeyedArray) OpenValueType() *Union {
	if t.ValueType != nil {
		return t.ValueType
	}
	return MixedType()
}

// IsListShaped reports whether the known items form a sequential
// integer-keyed prefix and no string keys can appear.
func (t *TKeyedArray) IsListShaped() bool {
	if t.KeyType != nil {
		for _, k := range t.KeyType.Atomics() {
			if _, ok := k.(*TInt); !ok {
				return false
			}
		}
	}
	for i, item := range t.KnownItems {
		if !item.Key.IsInt || item.Key.Int != int64(i) {
			return false
		}
	}
	return true
}

// ListElem is one known element of a list shape, keyed positionally.
type ListElem struct {
	Optional bool
	Type     *Union
}

// TList is a sequentially-indexed array with keys 0..n-1 and no gaps.
type TList struct {
	Elem          *Union
	KnownElements []ListElem
	NonEmpty      bool
}

func (t *TList) Key() string {
	var sb strings.Builder
	if t.NonEmpty && len(t.KnownElements) == 0 {
		sb.WriteString("non-empty-")
	}
	sb.WriteString("list")
	if len(t.KnownElements) > 0 {
		sb.WriteString("{")
		for i, el := range t.KnownElements {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(strconv.Itoa(i))
			if el.Optional {
				sb.WriteString("?")
			}
			sb.WriteString(": ")
			sb.WriteString(el.Type.ID())
		}
		sb.WriteString("}")
		return sb.String()
	}
	elem := "mixed"
	if t.Elem != nil {
		elem = t.Elem.ID()
	}
	sb.WriteString("<" + elem + ">")
	return sb.String()
}

func (t *TList) Intersectable() bool { return false }
func (t *TList) String() string      { return t.Key() }

// ElemType returns the element union covering both the open element type
// and any known elements.
func (t *TList) ElemType() *Union {
	var atomics []Atomic
	if t.Elem != nil {
		atomics = append(atomics, t.Elem.Atomics()...)
	}
	for _, el := range t.KnownElements {
		atomics = append(atomics, el.Type.Atomics()...)
	}
	if len(atomics) == 0 {
		return MixedType()
	}
	return NewUnion(atomics...)
}

// TIterable is anything foreach-able, parameterized by key and value.
type TIterable struct {
	KeyType   *Union
	ValueType *Union
	Extra     []Atomic
}

func (t *TIterable) Key() string {
	key, value := "mixed", "mixed"
	if t.KeyType != nil {
		key = t.KeyType.ID()
	}
	if t.ValueType != nil {
		value = t.ValueType.ID()
	}
	return "iterable<" + key + ", " + value + ">" + extrasKey(t.Extra)
}

func (t *TIterable) Intersectable() bool { return true }
func (t *TIterable) String() string      { return t.Key() }

func (t *TIterable) Extras() []Atomic { return t.Extra }

func (t *TIterable) WithExtras(extras []Atomic) Atomic {
	dup := *t
	dup.Extra = append(append([]Atomic{}, t.Extra...), extras...)
	return &dup
}

// OpenKeyType returns the key parameter, defaulting to mixed.
func (t *TIterable) OpenKeyType() *Union {
	if t.KeyType != nil {
		return t.KeyType
	}
	return MixedType()
}

// OpenValueType returns the value parameter, defaulting to mixed.
func (t *TIterable) OpenValueType() *Union {
	if t.ValueType != nil {
		return t.ValueType
	}
	return MixedType()
}

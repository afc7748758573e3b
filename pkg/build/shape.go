package build

import (
	"strings"

	"github.com/loamlang/loam/pkg/decl"
	"github.com/loamlang/loam/pkg/types"
	"github.com/loamlang/loam/pkg/typexpr"
)

// shape compiles array{...} and list{...} literals. List shapes require
// strictly sequential keys starting at the next free offset; array shapes
// accept literal keys, positional fields, and symbolic key expressions.
func (b *builder) shape(n *typexpr.ShapeNode) ([]types.Atomic, error) {
	switch n.Base {
	case "list", "non-empty-list":
		return b.listShape(n)
	case "array", "non-empty-array":
		return b.arrayShape(n)
	default:
		return nil, unsupportedf(n.Loc, "unrecognized shape base %q", n.Base)
	}
}

func (b *builder) listShape(n *typexpr.ShapeNode) ([]types.Atomic, error) {
	list := &types.TList{}
	for i, field := range n.Fields {
		if field.KeyExpr != nil {
			return nil, invalidf(field.Loc, "list shape keys must be sequential integers")
		}
		if field.Key != nil {
			if !field.Key.IsInt || field.Key.Int != int64(i) {
				return nil, invalidf(field.Loc, "list shape key %s out of sequence; expected %d", field.Key, i)
			}
		}
		value, err := b.union(field.Value)
		if err != nil {
			return nil, err
		}
		list.KnownElements = append(list.KnownElements, types.ListElem{
			Optional: field.Optional,
			Type:     value,
		})
		if !field.Optional {
			list.NonEmpty = true
		}
	}
	if n.Unsealed {
		list.Elem = types.MixedType()
	}
	if strings.HasPrefix(n.Base, "non-empty-") {
		list.NonEmpty = true
	}
	return []types.Atomic{list}, nil
}

func (b *builder) arrayShape(n *typexpr.ShapeNode) ([]types.Atomic, error) {
	arr := &types.TKeyedArray{}
	seen := map[types.ArrayKey]bool{}
	nextOffset := int64(0)
	for _, field := range n.Fields {
		key, err := b.shapeKey(field, &nextOffset)
		if err != nil {
			return nil, err
		}
		if seen[key] {
			return nil, invalidf(field.Loc, "duplicate shape key %s", key)
		}
		seen[key] = true

		value, err := b.union(field.Value)
		if err != nil {
			return nil, err
		}
		arr.KnownItems = append(arr.KnownItems, types.KnownItem{
			Key:      key,
			Optional: field.Optional,
			Type:     value,
		})
		if !field.Optional {
			arr.NonEmpty = true
		}
	}
	if n.Unsealed {
		arr.KeyType, arr.ValueType = types.ArrayKeyType(), types.MixedType()
	}
	if strings.HasPrefix(n.Base, "non-empty-") {
		arr.NonEmpty = true
	}
	return []types.Atomic{arr}, nil
}

// shapeKey resolves one field's key. Literal keys are used directly;
// positional fields take the next integer offset; symbolic key expressions
// fall back to the trailing segment of the referenced name as a string key.
func (b *builder) shapeKey(field typexpr.ShapeField, nextOffset *int64) (types.ArrayKey, error) {
	if field.Key != nil {
		if field.Key.IsInt {
			if field.Key.Int >= *nextOffset {
				*nextOffset = field.Key.Int + 1
			}
			return types.IntKey(field.Key.Int), nil
		}
		return types.StrKey(field.Key.Str), nil
	}

	switch expr := field.KeyExpr.(type) {
	case nil:
		key := types.IntKey(*nextOffset)
		*nextOffset++
		return key, nil
	case *typexpr.MemberRefNode:
		return types.StrKey(expr.Member), nil
	case *typexpr.NameNode:
		return types.StrKey(trailingSegment(expr.Name)), nil
	default:
		return types.ArrayKey{}, invalidf(field.Loc, "shape keys must be literals or symbol references")
	}
}

func trailingSegment(name string) string {
	if idx := strings.LastIndex(name, "::"); idx >= 0 {
		return name[idx+2:]
	}
	if idx := strings.LastIndex(name, decl.NamespaceSeparator); idx >= 0 {
		return name[idx+len(decl.NamespaceSeparator):]
	}
	return name
}

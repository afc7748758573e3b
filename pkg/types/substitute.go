package types

// ReplaceGenericParams returns a union in which every generic-parameter
// atomic whose defining entity matches definingEntity and whose name has a
// binding is replaced by that binding's atomics. The walk recurses into
// container payloads. When nothing matches, the original union is returned
// unchanged (copy-on-write).
func ReplaceGenericParams(u *Union, definingEntity string, bindings map[string]*Union) *Union {
	if u == nil || len(bindings) == 0 {
		return u
	}
	var out []Atomic
	changed := false
	for _, a := range u.Atomics() {
		if gp, ok := a.(*TGenericParam); ok && gp.DefiningEntity == definingEntity {
			if binding, found := bindings[gp.Name]; found {
				out = append(out, binding.Atomics()...)
				changed = true
				continue
			}
		}
		replaced := replaceInAtomic(a, definingEntity, bindings)
		if replaced != a {
			changed = true
		}
		out = append(out, replaced)
	}
	if !changed {
		return u
	}
	dup := NewUnion(out...)
	dup.FromTemplate = true
	return dup
}

func replaceInAtomic(a Atomic, entity string, bindings map[string]*Union) Atomic {
	switch t := a.(type) {
	case *TList:
		elem := ReplaceGenericParams(t.Elem, entity, bindings)
		known, knownChanged := replaceListElems(t.KnownElements, entity, bindings)
		if elem == t.Elem && !knownChanged {
			return a
		}
		return &TList{Elem: elem, KnownElements: known, NonEmpty: t.NonEmpty}
	case *TKeyedArray:
		key := ReplaceGenericParams(t.KeyType, entity, bindings)
		value := ReplaceGenericParams(t.ValueType, entity, bindings)
		items, itemsChanged := replaceKnownItems(t.KnownItems, entity, bindings)
		if key == t.KeyType && value == t.ValueType && !itemsChanged {
			return a
		}
		return &TKeyedArray{KeyType: key, ValueType: value, KnownItems: items, NonEmpty: t.NonEmpty}
	case *TIterable:
		key := ReplaceGenericParams(t.KeyType, entity, bindings)
		value := ReplaceGenericParams(t.ValueType, entity, bindings)
		if key == t.KeyType && value == t.ValueType {
			return a
		}
		return &TIterable{KeyType: key, ValueType: value, Extra: t.Extra}
	case *TNamedObject:
		params, changed := replaceParams(t.TypeParams, entity, bindings)
		if !changed {
			return a
		}
		return &TNamedObject{Name: t.Name, TypeParams: params, IsThis: t.IsThis, Extra: t.Extra}
	case *TReference:
		params, changed := replaceParams(t.TypeParams, entity, bindings)
		if !changed {
			return a
		}
		return &TReference{Name: t.Name, TypeParams: params, Extra: t.Extra}
	case *TCallable:
		var params []CallableParam
		changed := false
		for _, p := range t.Params {
			pt := ReplaceGenericParams(p.Type, entity, bindings)
			if pt != p.Type {
				changed = true
			}
			params = append(params, CallableParam{Type: pt, Name: p.Name, Optional: p.Optional, Variadic: p.Variadic})
		}
		ret := ReplaceGenericParams(t.Return, entity, bindings)
		if ret == t.Return && !changed {
			return a
		}
		return &TCallable{Params: params, Return: ret}
	case *TKeyOf:
		target := replaceInAtomic(t.Target, entity, bindings)
		if target == t.Target {
			return a
		}
		return &TKeyOf{Target: target}
	case *TValueOf:
		target := replaceInAtomic(t.Target, entity, bindings)
		if target == t.Target {
			return a
		}
		return &TValueOf{Target: target}
	case *TPropertiesOf:
		target := replaceInAtomic(t.Target, entity, bindings)
		if target == t.Target {
			return a
		}
		return &TPropertiesOf{Target: target, Filter: t.Filter}
	case *TClassString:
		if t.OfParam != nil && t.OfParam.DefiningEntity == entity {
			if binding, found := bindings[t.OfParam.Name]; found {
				// class-string<T> collapses to class-string of each named
				// object the binding resolves to; non-object members keep
				// the unconstrained form.
				for _, b := range binding.Atomics() {
					if obj, ok := b.(*TNamedObject); ok {
						return &TClassString{Kind: t.Kind, Of: obj}
					}
				}
				return &TClassString{Kind: t.Kind}
			}
		}
		return a
	case *TConditional:
		target := ReplaceGenericParams(t.Target, entity, bindings)
		then := ReplaceGenericParams(t.Then, entity, bindings)
		els := ReplaceGenericParams(t.Else, entity, bindings)
		if target == t.Target && then == t.Then && els == t.Else {
			return a
		}
		return &TConditional{Subject: t.Subject, DefiningEntity: t.DefiningEntity, Target: target, Then: then, Else: els}
	default:
		return a
	}
}

func replaceParams(params []*Union, entity string, bindings map[string]*Union) ([]*Union, bool) {
	changed := false
	out := make([]*Union, len(params))
	for i, p := range params {
		out[i] = ReplaceGenericParams(p, entity, bindings)
		if out[i] != p {
			changed = true
		}
	}
	return out, changed
}

func replaceKnownItems(items []KnownItem, entity string, bindings map[string]*Union) ([]KnownItem, bool) {
	changed := false
	out := make([]KnownItem, len(items))
	for i, item := range items {
		t := ReplaceGenericParams(item.Type, entity, bindings)
		if t != item.Type {
			changed = true
		}
		out[i] = KnownItem{Key: item.Key, Optional: item.Optional, Type: t}
	}
	return out, changed
}

func replaceListElems(elems []ListElem, entity string, bindings map[string]*Union) ([]ListElem, bool) {
	changed := false
	out := make([]ListElem, len(elems))
	for i, el := range elems {
		t := ReplaceGenericParams(el.Type, entity, bindings)
		if t != el.Type {
			changed = true
		}
		out[i] = ListElem{Optional: el.Optional, Type: t}
	}
	return out, changed
}

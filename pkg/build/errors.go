package build

import (
	"fmt"

	"github.com/loamlang/loam/pkg/typexpr"
)

// InvalidTypeError reports a malformed annotation: bad intersections,
// non-sequential list-shape keys, illegal shape keys, sign wrappers on
// non-numeric literals, and similar. The span points at the offending node.
type InvalidTypeError struct {
	Reason string
	Span   typexpr.Span
}

func (e *InvalidTypeError) Error() string {
	return fmt.Sprintf("invalid type at %s: %s", e.Span, e.Reason)
}

// UnsupportedTypeError reports a syntax-tree node the builder does not
// understand. The caller decides whether to substitute mixed or surface a
// diagnostic.
type UnsupportedTypeError struct {
	Reason string
	Span   typexpr.Span
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported type at %s: %s", e.Span, e.Reason)
}

func invalidf(span typexpr.Span, format string, args ...any) error {
	return &InvalidTypeError{Reason: fmt.Sprintf(format, args...), Span: span}
}

func unsupportedf(span typexpr.Span, format string, args ...any) error {
	return &UnsupportedTypeError{Reason: fmt.Sprintf(format, args...), Span: span}
}

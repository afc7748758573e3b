package decl

import (
	"github.com/loamlang/loam/pkg/types"
)

// MemberID identifies a method, property, or constant by its owning
// class-like and member name.
type MemberID struct {
	ClassName  string
	MemberName string
}

func (id MemberID) String() string { return id.ClassName + "::" + id.MemberName }

// Visibility of a class member.
type Visibility int

const (
	Public Visibility = iota
	Protected
	Private
)

func (v Visibility) String() string {
	switch v {
	case Protected:
		return "protected"
	case Private:
		return "private"
	default:
		return "public"
	}
}

// Param is one declared parameter of a method.
type Param struct {
	Name     string
	Type     *types.Union
	Optional bool
	Variadic bool
	ByRef    bool
}

// Method is the raw storage for one declared method.
type Method struct {
	Name       string
	Params     []Param
	ReturnType *types.Union
	Visibility Visibility
	Static     bool
	Final      bool
	Abstract   bool

	// Templates declared on the method itself, visible in its signature.
	Templates []TemplateParam
}

// Property is the raw storage for one declared property.
type Property struct {
	Name       string
	Type       *types.Union
	Visibility Visibility
	Static     bool
	ReadOnly   bool
}

// Constant is the raw storage for one declared class constant.
type Constant struct {
	Name       string
	Type       *types.Union
	Visibility Visibility
}

// TemplateParam is one declared template parameter of a class-like or
// method, with its upper-bound constraint.
type TemplateParam struct {
	Name       string
	Constraint *types.Union
}

// Package irtypes implements the type system of the Gypsum IR: the
// primitive/class/variable type lattice, nullability, substitution and
// subtyping (spec section 4.1).
package irtypes

import "fmt"

// Flag is a bit set of type modifiers. NULLABLE is the only one defined.
type Flag uint8

const (
	Nullable Flag = 1 << iota
)

func (f Flag) Has(bit Flag) bool { return f&bit != 0 }

// Kind discriminates the type variant.
type Kind int

const (
	KindUnit Kind = iota
	KindBoolean
	KindInteger
	KindFloat
	KindClass
	KindVariable
)

// Width constants for integer/float types.
const (
	W8 = 8
	W16 = 16
	W32 = 32
	W64 = 64
)

// ClassRef is the subset of ir.Class the type system needs, kept as an
// interface to avoid a cyclic import between irtypes and ir: ir.Class
// implements this.
type ClassRef interface {
	ClassName() string
	ClassID() int
	DirectSuperclass() ClassRef
	IsPrimitiveClass() bool
}

// TypeParamRef is the subset of ir.TypeParameter the type system needs.
type TypeParamRef interface {
	ParamName() string
	ParamID() int
}

// Type is a tagged variant over the six type forms in section 4.1.
type Type struct {
	Kind  Kind
	Flags Flag

	// KindInteger / KindFloat
	Width int

	// KindClass
	Class         ClassRef
	TypeArguments []Type

	// KindVariable
	Param TypeParamRef
}

func Unit() Type    { return Type{Kind: KindUnit} }
func Boolean() Type { return Type{Kind: KindBoolean} }
func Integer(width int) Type { return Type{Kind: KindInteger, Width: width} }
func Float(width int) Type   { return Type{Kind: KindFloat, Width: width} }

func ClassType(clas ClassRef, args ...Type) Type {
	return Type{Kind: KindClass, Class: clas, TypeArguments: args}
}

func Variable(param TypeParamRef) Type {
	return Type{Kind: KindVariable, Param: param}
}

func (t Type) IsNullable() bool { return t.Flags.Has(Nullable) }

func (t Type) WithFlag(f Flag) Type {
	t.Flags |= f
	return t
}

func (t Type) WithoutFlag(f Flag) Type {
	t.Flags &^= f
	return t
}

func (t Type) IsObject() bool { return t.Kind == KindClass || t.Kind == KindVariable }

// Equal is structural equality: same kind, same flags, same width or
// class/args or param, recursively for class type arguments.
func Equal(a, b Type) bool {
	if a.Kind != b.Kind || a.Flags != b.Flags {
		return false
	}
	switch a.Kind {
	case KindInteger, KindFloat:
		return a.Width == b.Width
	case KindClass:
		if a.Class.ClassID() != b.Class.ClassID() || len(a.TypeArguments) != len(b.TypeArguments) {
			return false
		}
		for i := range a.TypeArguments {
			if !Equal(a.TypeArguments[i], b.TypeArguments[i]) {
				return false
			}
		}
		return true
	case KindVariable:
		return a.Param.ParamID() == b.Param.ParamID()
	default:
		return true
	}
}

// Substitute replaces each VariableType whose parameter appears in
// params with the corresponding entry in args, recursing into class
// type arguments (section 4.1).
func Substitute(t Type, params []TypeParamRef, args []Type) Type {
	switch t.Kind {
	case KindVariable:
		for i, p := range params {
			if p.ParamID() == t.Param.ParamID() {
				return args[i]
			}
		}
		return t
	case KindClass:
		if len(t.TypeArguments) == 0 {
			return t
		}
		out := make([]Type, len(t.TypeArguments))
		for i, a := range t.TypeArguments {
			out[i] = Substitute(a, params, args)
		}
		t.TypeArguments = out
		return t
	default:
		return t
	}
}

// Superclasses walks clas and its ancestors depth-first, first-parent
// only, yielding clas itself first (Class.superclasses in ir.py).
func Superclasses(clas ClassRef) []ClassRef {
	var out []ClassRef
	for c := clas; c != nil; c = c.DirectSuperclass() {
		out = append(out, c)
	}
	return out
}

// IsSubclassOf reports whether self is other or a descendant of other.
// Nothing (a class with ClassID -2 by the builtins catalogue's
// convention) is a subclass of everything.
func IsSubclassOf(self, other ClassRef, nothingClassID int) bool {
	if self.ClassID() == other.ClassID() {
		return true
	}
	if self.ClassID() == nothingClassID {
		return true
	}
	if other.ClassID() == nothingClassID {
		return false
	}
	for _, c := range Superclasses(self) {
		if c.ClassID() == other.ClassID() {
			return true
		}
	}
	return false
}

// IsSubtypeOf implements the subtyping rule for ClassType (section 4.1):
// structural types compare by kind and width; class types compare via
// IsSubclassOf; nullability is covariant and required on the supertype
// side (a non-nullable type is a subtype of its nullable counterpart,
// never the reverse).
func IsSubtypeOf(sub, sup Type, nothingClassID int) bool {
	if sub.IsNullable() && !sup.IsNullable() {
		return false
	}
	switch sup.Kind {
	case KindUnit, KindBoolean:
		return sub.Kind == sup.Kind
	case KindInteger, KindFloat:
		return sub.Kind == sup.Kind && sub.Width == sup.Width
	case KindVariable:
		return sub.Kind == KindVariable && sub.Param.ParamID() == sup.Param.ParamID()
	case KindClass:
		if sub.Kind != KindClass {
			return false
		}
		if !IsSubclassOf(sub.Class, sup.Class, nothingClassID) {
			return false
		}
		if len(sub.TypeArguments) != len(sup.TypeArguments) {
			return len(sup.TypeArguments) == 0
		}
		for i := range sub.TypeArguments {
			if !Equal(sub.TypeArguments[i], sup.TypeArguments[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func (t Type) String() string {
	suffix := ""
	if t.IsNullable() {
		suffix = "?"
	}
	switch t.Kind {
	case KindUnit:
		return "unit"
	case KindBoolean:
		return "boolean"
	case KindInteger:
		return fmt.Sprintf("i%d", t.Width)
	case KindFloat:
		return fmt.Sprintf("f%d", t.Width)
	case KindVariable:
		return t.Param.ParamName() + suffix
	case KindClass:
		name := t.Class.ClassName()
		if len(t.TypeArguments) > 0 {
			args := ""
			for i, a := range t.TypeArguments {
				if i > 0 {
					args += ", "
				}
				args += a.String()
			}
			name += "[" + args + "]"
		}
		return name + suffix
	default:
		return "<unknown type>"
	}
}

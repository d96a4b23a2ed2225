package irtypes_test

import (
	"testing"

	"gypsumc/internal/irtypes"
)

// fakeClass is a minimal irtypes.ClassRef for tests that don't need a
// full *ir.Class (and would otherwise have to import internal/ir, which
// imports irtypes back).
type fakeClass struct {
	name  string
	id    int
	super *fakeClass
	prim  bool
}

func (c *fakeClass) ClassName() string { return c.name }
func (c *fakeClass) ClassID() int      { return c.id }
func (c *fakeClass) IsPrimitiveClass() bool { return c.prim }
func (c *fakeClass) DirectSuperclass() irtypes.ClassRef {
	if c.super == nil {
		return nil
	}
	return c.super
}

type fakeParam struct {
	name string
	id   int
}

func (p *fakeParam) ParamName() string { return p.name }
func (p *fakeParam) ParamID() int      { return p.id }

func TestIntegerWidthEquality(t *testing.T) {
	a := irtypes.Integer(irtypes.W32)
	b := irtypes.Integer(irtypes.W32)
	c := irtypes.Integer(irtypes.W64)
	if !irtypes.Equal(a, b) {
		t.Error("two i32 types should be equal")
	}
	if irtypes.Equal(a, c) {
		t.Error("i32 and i64 should not be equal")
	}
}

func TestNullableSubtyping(t *testing.T) {
	root := &fakeClass{name: "Object", id: 0}
	str := &fakeClass{name: "String", id: 1, super: root}

	nonNull := irtypes.ClassType(str)
	nullable := nonNull.WithFlag(irtypes.Nullable)

	if !irtypes.IsSubtypeOf(nonNull, nullable, -2) {
		t.Error("a non-nullable type should be a subtype of its nullable counterpart")
	}
	if irtypes.IsSubtypeOf(nullable, nonNull, -2) {
		t.Error("a nullable type should never be a subtype of its non-nullable counterpart")
	}
}

func TestIsSubclassOfWalksSuperclassChain(t *testing.T) {
	root := &fakeClass{name: "Object", id: 0}
	base := &fakeClass{name: "Base", id: 1, super: root}
	derived := &fakeClass{name: "Derived", id: 2, super: base}

	if !irtypes.IsSubclassOf(derived, root, -2) {
		t.Error("Derived should be a subclass of Object through Base")
	}
	if irtypes.IsSubclassOf(root, derived, -2) {
		t.Error("Object should not be a subclass of Derived")
	}
}

func TestNothingIsSubclassOfEverything(t *testing.T) {
	root := &fakeClass{name: "Object", id: 0}
	nothing := &fakeClass{name: "Nothing", id: -2}

	if !irtypes.IsSubclassOf(nothing, root, -2) {
		t.Error("Nothing should be a subclass of every class")
	}
	if irtypes.IsSubclassOf(root, nothing, -2) {
		t.Error("Object should not be a subclass of Nothing")
	}
}

func TestSubstituteReplacesTypeVariable(t *testing.T) {
	param := &fakeParam{name: "T", id: 0}
	box := &fakeClass{name: "Box", id: 1}

	varType := irtypes.Variable(param)
	boxOfT := irtypes.ClassType(box, varType)

	out := irtypes.Substitute(boxOfT, []irtypes.TypeParamRef{param}, []irtypes.Type{irtypes.Integer(irtypes.W32)})
	if len(out.TypeArguments) != 1 || out.TypeArguments[0].Kind != irtypes.KindInteger {
		t.Errorf("Substitute(Box[T], T=i32) = %v, want Box[i32]", out)
	}
}

func TestTypeStringRendersNullableClass(t *testing.T) {
	str := &fakeClass{name: "String", id: 1}
	got := irtypes.ClassType(str).WithFlag(irtypes.Nullable).String()
	if got != "String?" {
		t.Errorf("String() = %q, want %q", got, "String?")
	}
}

func TestTypeStringRendersClassWithTypeArguments(t *testing.T) {
	param := &fakeParam{name: "T", id: 0}
	box := &fakeClass{name: "Box", id: 1}
	got := irtypes.ClassType(box, irtypes.Variable(param)).String()
	if got != "Box[T]" {
		t.Errorf("String() = %q, want %q", got, "Box[T]")
	}
}

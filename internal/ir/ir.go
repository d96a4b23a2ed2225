// Package ir implements the in-memory package/function/class graph that
// the CFG builder populates and the serializer walks (spec section 3).
//
// Ownership follows section 3's "Ownership and lifetime" note: a
// Package exclusively owns its Functions, Classes, Globals and
// TypeParameters. A Class holds its constructors, methods and
// initializer as *Function pointers into the same Package, and
// Function.Clas points back; neither side owns the other. Every
// Package.Add* id-assignment method panics (rather than returning an
// error) if called twice on the same entity, matching the original's `assert not hasattr(x, "id")`
// invariant checks (ir.py) — these are compiler-internal invariant
// violations per spec section 7, not user-facing CompileErrors.
package ir

import (
	"sync"

	"gypsumc/internal/irtypes"
)

// VarKind distinguishes a local slot from a parameter slot (section 3).
type VarKind int

const (
	Local VarKind = iota
	Parameter
)

func (k VarKind) String() string {
	if k == Local {
		return "local"
	}
	return "parameter"
}

// CompileHint names a canned, synthesized function body (section 4.5,
// glossary "Compile hint"). Functions without a hint carry an explicit
// AST-derived CFG instead.
type CompileHint int

const (
	NoHint CompileHint = iota
	ContextCtorHint
	ClosureCtorHint
)

// Variable is a local or parameter slot (section 3).
type Variable struct {
	Name  string
	Type  irtypes.Type
	Kind  VarKind
	Flags Flags
	Index int
}

// Field is a class member slot; Index is assigned by internal/layout,
// equal to the field's position in the owning class's Fields list.
type Field struct {
	Name  string
	Type  irtypes.Type
	Flags Flags
	Index int
}

// TypeParameter is a generic type parameter with upper/lower bounds.
type TypeParameter struct {
	id      int
	hasID   bool
	Name    string
	UpperBound irtypes.Type
	LowerBound irtypes.Type
	Flags   Flags
}

func (tp *TypeParameter) ID() int { return tp.id }
func (tp *TypeParameter) ParamName() string { return tp.Name }
func (tp *TypeParameter) ParamID() int { return tp.id }

func (tp *TypeParameter) IsEquivalent(other *TypeParameter) bool {
	return irtypes.Equal(tp.UpperBound, other.UpperBound) &&
		irtypes.Equal(tp.LowerBound, other.LowerBound)
}

// Global is a package-level variable (kept for completeness; Gypsum's
// surface language exposes globals but the spec's call-lowering table
// never lowers a direct reference to one — see internal/cfg/expr.go).
type Global struct {
	id    int
	hasID bool
	Name  string
	Type  irtypes.Type
	Value interface{}
	Flags Flags
}

func (g *Global) ID() int { return g.id }

// Function is a top-level function, method, or constructor (section 3).
type Function struct {
	id    int
	hasID bool

	Name           string
	ReturnType     irtypes.Type
	TypeParameters []*TypeParameter
	ParameterTypes []irtypes.Type
	Variables      []*Variable
	Blocks         []*BasicBlock
	Flags          Flags

	// Clas is set when this Function is a method or constructor; nil
	// for ordinary top-level functions. It's a back-reference only
	// (lookup, never traversed for ownership) per section 3.
	Clas *Class

	// CompileHint selects a canned body instead of AST-driven lowering.
	CompileHint CompileHint

	// Insts holds an inline instruction sequence for builtin methods
	// whose body is a fixed primitive-operator sequence (section 4.4,
	// "Method" call shape: "if the function has inline instruction
	// hints ... splice those").
	Insts []InlineInst
}

// InlineInst names a zero-operand instruction to splice at a call site
// for a primitive operator method (e.g. i32-add). The builtins loader
// populates this from the catalogue's "insts" field.
type InlineInst struct {
	Op OpName
}

// OpName is a string alias used only by InlineInst to avoid an import
// cycle between ir and bytecode (bytecode.OpCode values are looked up
// by name at the call site in internal/cfg).
type OpName string

func (f *Function) ID() int { return f.id }

// BindBuiltinID gives f a fixed id outside the normal Package-owned
// AddFunction sequence. Only internal/builtins calls this, once per
// catalogue entry, since builtin functions aren't added to any Package
// but still need the well-known negative ids section 4.2 requires.
func (f *Function) BindBuiltinID(id int) { f.id, f.hasID = id, true }

func (f *Function) IsMethod() bool { return f.Clas != nil }

func (f *Function) IsConstructor() bool {
	if f.Clas == nil {
		return false
	}
	for _, ctor := range f.Clas.Constructors {
		if ctor == f {
			return true
		}
	}
	return false
}

// IsFinal reports whether calls to f may be resolved statically
// (section 4.4, "Method" call shape): non-methods, constructors, and
// methods of primitive classes can't be called virtually.
func (f *Function) IsFinal() bool {
	return !f.IsMethod() || f.IsConstructor() || (f.Clas != nil && f.Clas.IsPrimitive)
}

// Class is a class or interface definition (section 3).
type Class struct {
	id    int
	hasID bool

	Name           string
	TypeParameters []*TypeParameter

	// Supertypes[0], if present, is the direct superclass (as a
	// ClassType). Empty for the root class and for Nothing.
	Supertypes []irtypes.Type

	// Initializer runs after the super-ctor in every constructor that
	// didn't call an alternate constructor; nil only for primitive
	// classes and the root (section 3).
	Initializer *Function

	Constructors []*Function
	Fields       []*Field
	Methods      []*Function
	Flags        Flags
	IsPrimitive  bool
}

func (c *Class) ID() int { return c.id }

// BindBuiltinID is BindBuiltinID's Class counterpart: internal/builtins
// uses it to give each catalogue class its well-known negative id
// without routing it through Package.AddClass.
func (c *Class) BindBuiltinID(id int) { c.id, c.hasID = id, true }
func (c *Class) ClassName() string { return c.Name }
func (c *Class) ClassID() int { return c.id }
func (c *Class) IsPrimitiveClass() bool { return c.IsPrimitive }

func (c *Class) DirectSuperclass() irtypes.ClassRef {
	if len(c.Supertypes) == 0 {
		return nil
	}
	sup := c.Supertypes[0].Class
	if sup == nil {
		return nil
	}
	return sup
}

// Superclass returns the direct superclass *ir.Class, or nil for the
// root/Nothing.
func (c *Class) Superclass() *Class {
	ref := c.DirectSuperclass()
	if ref == nil {
		return nil
	}
	return ref.(*Class)
}

func (c *Class) IsSubclassOf(other *Class, nothingClassID int) bool {
	return irtypes.IsSubclassOf(c, other, nothingClassID)
}

func (c *Class) GetField(name string) *Field {
	for _, f := range c.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

func (c *Class) GetMethod(name string) *Function {
	for _, m := range c.Methods {
		if m.Name == name {
			return m
		}
	}
	return nil
}

func (c *Class) GetMethodIndex(method *Function) int {
	for i, m := range c.Methods {
		if m == method {
			return i
		}
	}
	panic("method does not belong to this class: " + method.Name)
}

func (c *Class) GetConstructor() *Function {
	if len(c.Constructors) == 0 {
		return nil
	}
	return c.Constructors[0]
}

// Package is the unit of compilation (section 3).
type Package struct {
	Globals        []*Global
	Functions      []*Function
	Classes        []*Class
	TypeParameters []*TypeParameter

	stringsMu sync.Mutex
	strings   []string

	// EntryFunction is the id of the package's entry function, or -1.
	EntryFunction int
}

func NewPackage() *Package {
	return &Package{EntryFunction: -1}
}

func (p *Package) AddFunction(f *Function) int {
	if f.hasID {
		panic("function already has an id")
	}
	f.id, f.hasID = len(p.Functions), true
	p.Functions = append(p.Functions, f)
	return f.id
}

func (p *Package) AddClass(c *Class) int {
	if c.hasID {
		panic("class already has an id")
	}
	c.id, c.hasID = len(p.Classes), true
	p.Classes = append(p.Classes, c)
	return c.id
}

func (p *Package) AddGlobal(g *Global) int {
	if g.hasID {
		panic("global already has an id")
	}
	g.id, g.hasID = len(p.Globals), true
	p.Globals = append(p.Globals, g)
	return g.id
}

func (p *Package) AddTypeParameter(tp *TypeParameter) int {
	if tp.hasID {
		panic("type parameter already has an id")
	}
	tp.id, tp.hasID = len(p.TypeParameters), true
	p.TypeParameters = append(p.TypeParameters, tp)
	return tp.id
}

// FindOrAddString returns the 0-based index of s in the string table,
// adding it if absent. Idempotent: calling it twice with the same s
// returns the same index without growing the table (section 8). Safe
// for concurrent use, since independent functions of the same package
// may be compiled concurrently (section 5).
func (p *Package) FindOrAddString(s string) int {
	p.stringsMu.Lock()
	defer p.stringsMu.Unlock()
	for i, existing := range p.strings {
		if existing == s {
			return i
		}
	}
	p.strings = append(p.strings, s)
	return len(p.strings) - 1
}

// Strings returns the string table in insertion order.
func (p *Package) Strings() []string { return p.strings }

func (p *Package) FindFunction(name string) *Function {
	for _, f := range p.Functions {
		if f.Name == name {
			return f
		}
	}
	return nil
}

func (p *Package) FindClass(name string) *Class {
	for _, c := range p.Classes {
		if c.Name == name {
			return c
		}
	}
	return nil
}

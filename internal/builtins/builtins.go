// Package builtins loads the builtin catalogue and materializes its
// classes and functions with negative ids, exposing lookup-by-name
// (spec section 4.2). Grounded on original_source/compiler/builtins.py's
// _initialize(): two passes over the class list (declare, then define,
// so a subclass can forward-reference a supertype declared earlier in
// the same pass), followed by a single pass over the function list.
//
// The Python original gates this behind a package-level `_initialized`
// flag checked non-atomically on every call; section 5 calls that out
// explicitly and asks for a one-shot initialization primitive, so this
// port uses sync.Once instead.
package builtins

import (
	"bytes"
	_ "embed"
	"fmt"
	"regexp"
	"sync"

	"gopkg.in/yaml.v3"

	"gypsumc/internal/ir"
	"gypsumc/internal/irtypes"
)

//go:embed catalogue.yaml
var catalogueYAML []byte

// Well-known class ids, pinned by the catalogue's declaration order
// (see the comment at the top of catalogue.yaml).
const (
	RootClassID      = -1
	NothingClassID   = -2
	ExceptionClassID = -3
	TypeClassID      = -4
	StringClassID    = -5
	UnitClassID      = -6
	BooleanClassID   = -7
)

// Registry is the materialized, immutable builtin catalogue.
type Registry struct {
	classesByID    map[int]*ir.Class
	classesByName  map[string]*ir.Class
	functionsByID  map[int]*ir.Function
	functionsByName map[string]*ir.Function
}

// RootClass, NothingClass, ExceptionClass, TypeClass and StringClass
// give typed access to the catalogue entries internal/cfg and
// internal/layout must name directly (default superclass lookup,
// Nothing-is-subclass-of-everything, exception dispatch, Type/String
// literal construction).
func (r *Registry) RootClass() *ir.Class      { return r.classesByID[RootClassID] }
func (r *Registry) NothingClass() *ir.Class   { return r.classesByID[NothingClassID] }
func (r *Registry) ExceptionClass() *ir.Class { return r.classesByID[ExceptionClassID] }
func (r *Registry) TypeClass() *ir.Class      { return r.classesByID[TypeClassID] }
func (r *Registry) StringClass() *ir.Class    { return r.classesByID[StringClassID] }

// IsBuiltinID reports whether id refers to a builtin entity (negative),
// per section 4.2: "Every builtin id is negative".
func IsBuiltinID(id int) bool { return id < 0 }

func (r *Registry) FindClass(name string) *ir.Class       { return r.classesByName[name] }
func (r *Registry) FindFunction(name string) *ir.Function { return r.functionsByName[name] }
func (r *Registry) Class(id int) *ir.Class                { return r.classesByID[id] }
func (r *Registry) Function(id int) *ir.Function          { return r.functionsByID[id] }

func (r *Registry) Classes() []*ir.Class {
	out := make([]*ir.Class, 0, len(r.classesByID))
	for _, c := range r.classesByID {
		out = append(out, c)
	}
	return out
}

// ClassForType returns the builtin class that backs t, whether t is a
// primitive kind (Unit/Boolean/Integer/Float) or a ClassType referring
// to a builtin class — the Go analogue of builtins.py's
// getBuiltinClassFromType, used by internal/serialize's appendType
// (every encoded type is ultimately written as a class id, section 6).
func (r *Registry) ClassForType(t irtypes.Type) *ir.Class {
	switch t.Kind {
	case irtypes.KindUnit:
		return r.classesByID[UnitClassID]
	case irtypes.KindBoolean:
		return r.classesByID[BooleanClassID]
	case irtypes.KindInteger:
		return r.classesByName[fmt.Sprintf("I%d", t.Width)]
	case irtypes.KindFloat:
		return r.classesByName[fmt.Sprintf("F%d", t.Width)]
	case irtypes.KindClass:
		if c, ok := t.Class.(*ir.Class); ok {
			return c
		}
		return r.classesByName[t.Class.ClassName()]
	case irtypes.KindVariable:
		// A type-parameter-typed slot serializes under erasure as its
		// upper bound's class (the root class for an unbounded
		// parameter), since the binary format has no representation for
		// an unresolved type variable (section 4.6: "every encoded type
		// is ultimately written as a class id").
		if tp, ok := t.Param.(*ir.TypeParameter); ok {
			return r.ClassForType(tp.UpperBound)
		}
		return r.RootClass()
	default:
		return nil
	}
}

var (
	registry *Registry
	initOnce sync.Once
)

func Get() *Registry {
	initOnce.Do(load)
	return registry
}

type classData struct {
	Name         string           `yaml:"name"`
	IsPrimitive  bool             `yaml:"isPrimitive"`
	Supertype    *string          `yaml:"supertype"`
	Fields       []fieldData      `yaml:"fields"`
	Constructors []functionData   `yaml:"constructors"`
	Methods      []functionData   `yaml:"methods"`
}

type fieldData struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

type functionData struct {
	Name           string   `yaml:"name"`
	ReturnType     string   `yaml:"returnType"`
	ParameterTypes []string `yaml:"parameterTypes"`
	Insts          []string `yaml:"insts"`
}

var primitiveTypeRE = regexp.MustCompile(`^([A-Za-z0-9_]+)(\??)$`)

func load() {
	dec := yaml.NewDecoder(bytes.NewReader(catalogueYAML))

	var classes []classData
	if err := dec.Decode(&classes); err != nil {
		panic(fmt.Sprintf("builtins: parsing class document: %v", err))
	}
	var functions []functionData
	if err := dec.Decode(&functions); err != nil {
		panic(fmt.Sprintf("builtins: parsing function document: %v", err))
	}

	r := &Registry{
		classesByID:     make(map[int]*ir.Class),
		classesByName:   make(map[string]*ir.Class),
		functionsByID:   make(map[int]*ir.Function),
		functionsByName: make(map[string]*ir.Function),
	}

	// Pass 1: declare every class so forward references (a subtype
	// listed before... in practice here, after... its supertype) resolve.
	id := -1
	for _, cd := range classes {
		c := &ir.Class{Name: cd.Name}
		c.BindBuiltinID(id)
		r.classesByID[id] = c
		r.classesByName[cd.Name] = c
		id--
	}

	buildType := func(name string) irtypes.Type {
		switch name {
		case "unit":
			return irtypes.Unit()
		case "boolean":
			return irtypes.Boolean()
		case "i8":
			return irtypes.Integer(irtypes.W8)
		case "i16":
			return irtypes.Integer(irtypes.W16)
		case "i32":
			return irtypes.Integer(irtypes.W32)
		case "i64":
			return irtypes.Integer(irtypes.W64)
		case "f32":
			return irtypes.Float(irtypes.W32)
		case "f64":
			return irtypes.Float(irtypes.W64)
		default:
			m := primitiveTypeRE.FindStringSubmatch(name)
			if m == nil {
				panic("builtins: malformed type name " + name)
			}
			clas, ok := r.classesByName[m[1]]
			if !ok {
				panic("builtins: unknown class in type " + name)
			}
			ty := irtypes.ClassType(clas)
			if m[2] == "?" {
				ty = ty.WithFlag(irtypes.Nullable)
			}
			return ty
		}
	}

	buildFunction := func(fd functionData) *ir.Function {
		name := fd.Name
		if name == "" {
			name = "$constructor"
		}
		params := make([]irtypes.Type, len(fd.ParameterTypes))
		for i, p := range fd.ParameterTypes {
			params[i] = buildType(p)
		}
		f := &ir.Function{
			Name:           name,
			ReturnType:     buildType(fd.ReturnType),
			ParameterTypes: params,
		}
		for _, inst := range fd.Insts {
			f.Insts = append(f.Insts, ir.InlineInst{Op: ir.OpName(inst)})
		}
		return f
	}

	// Pass 2: populate supertypes/fields/constructors/methods. Every
	// constructor, method and free function shares one negative id
	// space (section 4.2: "indexing into builtin tables uses the
	// bitwise complement" — one table, one counter), so fnID is NOT
	// reset per class.
	id = -1
	fnID := -1
	for _, cd := range classes {
		c := r.classesByID[id]
		if cd.IsPrimitive {
			c.IsPrimitive = true
		} else if cd.Supertype != nil {
			super := r.classesByName[*cd.Supertype]
			c.Supertypes = []irtypes.Type{irtypes.ClassType(super)}
			c.Fields = append([]*ir.Field(nil), super.Fields...)
			c.Methods = append([]*ir.Function(nil), super.Methods...)
		}
		for _, fld := range cd.Fields {
			c.Fields = append(c.Fields, &ir.Field{
				Name:  fld.Name,
				Type:  buildType(fld.Type),
				Index: len(c.Fields),
			})
		}
		for _, ctorData := range cd.Constructors {
			ctor := buildFunction(ctorData)
			ctor.Clas = c
			ctor.BindBuiltinID(fnID)
			r.functionsByID[fnID] = ctor
			c.Constructors = append(c.Constructors, ctor)
			fnID--
		}
		for _, methodData := range cd.Methods {
			method := buildFunction(methodData)
			method.Clas = c
			method.BindBuiltinID(fnID)
			r.functionsByID[fnID] = method
			if method.Name != "" {
				r.functionsByName[c.Name+"."+method.Name] = method
			}
			// An override takes the slot of the inherited method it
			// replaces; a new method is appended.
			replaced := false
			for i, inherited := range c.Methods {
				if inherited.Name == method.Name && inherited.Clas != c {
					c.Methods[i] = method
					replaced = true
					break
				}
			}
			if !replaced {
				c.Methods = append(c.Methods, method)
			}
			fnID--
		}
		id--
	}

	for _, fd := range functions {
		f := buildFunction(fd)
		f.BindBuiltinID(fnID)
		r.functionsByID[fnID] = f
		r.functionsByName[f.Name] = f
		fnID--
	}

	registry = r
}

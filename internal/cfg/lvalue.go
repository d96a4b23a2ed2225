package cfg

import (
	"fmt"

	"gypsumc/internal/ast"
	"gypsumc/internal/ir"
)

// LValue is an assignable location (compiler.py's LValue hierarchy:
// VarLValue, PropertyLValue). Evaluate reads the location's current
// value onto the stack (used by compound-assignment method calls);
// Assign stores the value already on top of the stack into the
// location, leaving a copy behind iff mode == ForValue.
//
// A PropertyLValue re-evaluates its receiver expression on every
// Evaluate/Assign call rather than caching it in a temporary, so a
// receiver with side effects (anything beyond a variable or `this`
// reference) is evaluated more than once for a compound assignment —
// an accepted simplification documented in DESIGN.md.
type LValue interface {
	Evaluate() error
	Assign(mode Mode) error
}

// VarLValue assigns to a local or parameter slot.
type VarLValue struct {
	b *Builder
	v *ir.Variable
}

func (lv *VarLValue) Evaluate() error {
	lv.b.ldlocal(lv.v.Index)
	return nil
}

func (lv *VarLValue) Assign(mode Mode) error {
	if mode == ForValue {
		lv.b.dup()
	}
	lv.b.stlocal(lv.v.Index)
	return nil
}

// PropertyLValue assigns to a field through a receiver expression.
type PropertyLValue struct {
	b        *Builder
	receiver ast.Expr
	field    *ir.Field
}

func (lv *PropertyLValue) Evaluate() error {
	if err := lv.b.visit(lv.receiver, ForValue); err != nil {
		return err
	}
	lv.b.loadField(lv.field)
	return nil
}

func (lv *PropertyLValue) Assign(mode Mode) error {
	if mode == ForValue {
		lv.b.dup()
	}
	if err := lv.b.visit(lv.receiver, ForValue); err != nil {
		return err
	}
	lv.b.storeField(lv.field)
	return nil
}

// ContextFieldLValue assigns to a field reached through a captured
// context object rather than `this` directly (internal/cfg/closure.go).
type ContextFieldLValue struct {
	b       *Builder
	scopeID int
	field   *ir.Field
}

func (lv *ContextFieldLValue) Evaluate() error {
	if err := lv.b.loadContext(lv.scopeID); err != nil {
		return err
	}
	lv.b.loadField(lv.field)
	return nil
}

func (lv *ContextFieldLValue) Assign(mode Mode) error {
	if mode == ForValue {
		lv.b.dup()
	}
	if err := lv.b.loadContext(lv.scopeID); err != nil {
		return err
	}
	lv.b.storeField(lv.field)
	return nil
}

// compileLValue resolves expr (a VariableRef or Property) to an
// assignable location (compiler.py's compileLValue).
func (b *Builder) compileLValue(expr ast.Expr) (LValue, error) {
	switch e := expr.(type) {
	case *ast.VariableRef:
		switch d := e.Defn.(type) {
		case *ir.Variable:
			return &VarLValue{b: b, v: d}, nil
		case *ir.Field:
			return &ContextFieldLValue{b: b, scopeID: e.ScopeID, field: d}, nil
		default:
			return nil, fmt.Errorf("cfg: variable reference does not resolve to an assignable location (got %T)", d)
		}
	case *ast.Property:
		field, ok := e.Defn.(*ir.Field)
		if !ok {
			return nil, fmt.Errorf("cfg: property is not assignable (resolves to %T, not a field)", e.Defn)
		}
		return &PropertyLValue{b: b, receiver: e.Receiver, field: field}, nil
	default:
		return nil, fmt.Errorf("cfg: %T is not an assignable expression", expr)
	}
}

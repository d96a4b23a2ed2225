package cfg

import (
	"fmt"

	"gypsumc/internal/ast"
	"gypsumc/internal/ir"
)

// loadContext pushes the context object reachable from the current
// function for scopeID (spec section 4.5, "Context" / "Closure"). A
// scope with no entry in b.contexts needs no boxing: `this` doubles as
// its own context. Grounded on compiler.py's loadContext.
func (b *Builder) loadContext(scopeID int) error {
	defn, ok := b.contexts[scopeID]
	if !ok {
		b.loadThis()
		return nil
	}
	switch d := defn.(type) {
	case *ir.Variable:
		b.ldlocal(d.Index)
	case *ir.Field:
		b.loadThis()
		b.loadField(d)
	default:
		return fmt.Errorf("cfg: context for scope %d resolves to unsupported type %T", scopeID, defn)
	}
	return nil
}

// loadVariable loads `this`, or a captured copy of it reached through
// a context object when defn names where the capture was stored
// (compiler.py's loadVariable, specialized to ThisExpr's use).
func (b *Builder) loadVariable(defn ast.Defn, scopeID int) error {
	if defn == nil {
		b.loadThis()
		return nil
	}
	switch d := defn.(type) {
	case *ir.Variable:
		b.ldlocal(d.Index)
	case *ir.Field:
		if err := b.loadContext(scopeID); err != nil {
			return err
		}
		b.loadField(d)
	default:
		return fmt.Errorf("cfg: unsupported captured-this representation %T", defn)
	}
	return nil
}

// storeVariable stores the value on top of the stack into defn: a
// local/parameter slot, or a field on the scope's context object
// (compiler.py's storeVariable).
func (b *Builder) storeVariable(defn ast.Defn, scopeID int) error {
	switch d := defn.(type) {
	case *ir.Variable:
		b.stlocal(d.Index)
	case *ir.Field:
		if err := b.loadContext(scopeID); err != nil {
			return err
		}
		b.storeField(d)
	default:
		return fmt.Errorf("cfg: cannot store into %T", defn)
	}
	return nil
}

// createContext allocates this scope's context object and stores it
// into contextVar (a *ir.Variable local, or a *ir.Field when the
// context itself is captured by a further-nested scope) — spec section
// 4.5's context-object construction, using the class's canned
// ContextCtorHint body (internal/cfg/prologue.go's compileWithHint).
func (b *Builder) createContext(contextClass *ir.Class, contextVarDefn ast.Defn) error {
	ctor := contextClass.GetConstructor()
	if ctor == nil {
		return fmt.Errorf("cfg: context class %s has no constructor", contextClass.Name)
	}
	b.allocobj(contextClass.ID())
	b.dup()
	b.callg(1, ctor.ID())
	b.drop()
	return b.storeVariable(contextVarDefn, 0)
}

// buildDeclarations allocates a closure object for each nested
// function/class this scope declares, passing the captured contexts as
// constructor arguments in CapturedScopeIDs order, and stores each
// result into its declared variable or field (spec section 4.5's
// "Closure" shape; compiler.py's buildDeclarations).
func (b *Builder) buildDeclarations(closures []ast.ClosureDecl) error {
	for _, cd := range closures {
		clas, ok := cd.Class.(*ir.Class)
		if !ok {
			return fmt.Errorf("cfg: ClosureDecl.Class is not *ir.Class (got %T)", cd.Class)
		}
		ctor := clas.GetConstructor()
		if ctor == nil {
			return fmt.Errorf("cfg: closure class %s has no constructor", clas.Name)
		}
		b.allocobj(clas.ID())
		b.dup()
		argCount := 1
		for _, scopeID := range cd.CapturedScopeIDs {
			if err := b.loadContext(scopeID); err != nil {
				return err
			}
			argCount++
		}
		b.callg(argCount, ctor.ID())
		b.drop()
		if err := b.storeVariable(cd.Var, 0); err != nil {
			return err
		}
	}
	return nil
}

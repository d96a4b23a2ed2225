package cfg

import (
	"fmt"

	"gypsumc/internal/ast"
	"gypsumc/internal/bytecode"
	"gypsumc/internal/ir"
	"gypsumc/internal/irtypes"
)

// buildCall lowers a call expression (spec section 4.4, "Call lowering
// shape"): a plain function/global call, a method call (implicit or
// explicit receiver, including this()/super() constructor delegation),
// or a compound-assignment operator call whose receiver is an lvalue
// that must be re-stored with the call's result. Grounded on
// compiler.py's buildCall.
func (b *Builder) buildCall(call *ast.Call, mode Mode) error {
	var target *ir.Function
	var receiver ast.Expr
	var lvalue LValue

	switch callee := call.Callee.(type) {
	case *ast.ThisExpr, *ast.SuperExpr:
		t, ok := call.CtorTarget.(*ir.Function)
		if !ok {
			return fmt.Errorf("cfg: constructor delegation call has no resolved CtorTarget")
		}
		target = t
		receiver = &ast.ThisExpr{}
	case *ast.VariableRef:
		t, ok := callee.Defn.(*ir.Function)
		if !ok {
			return fmt.Errorf("cfg: call callee VariableRef does not resolve to a function (got %T)", callee.Defn)
		}
		target = t
		if target.IsMethod() {
			// Implicit receiver: the enclosing method's `this`.
			receiver = &ast.ThisExpr{}
		}
	case *ast.Property:
		t, ok := callee.Defn.(*ir.Function)
		if !ok {
			return fmt.Errorf("cfg: call callee Property does not resolve to a function (got %T)", callee.Defn)
		}
		target = t
		if call.IsCompound {
			var err error
			lvalue, err = b.compileLValue(call.CompoundRecv)
			if err != nil {
				return err
			}
		} else {
			receiver = callee.Receiver
		}
	default:
		return fmt.Errorf("cfg: unsupported call callee type %T", call.Callee)
	}

	argCount := 0
	switch {
	case lvalue != nil:
		if err := lvalue.Evaluate(); err != nil {
			return err
		}
		argCount++
	case receiver != nil:
		if err := b.visit(receiver, ForValue); err != nil {
			return err
		}
		argCount++
	}
	for _, arg := range call.Args {
		if err := b.visit(arg, ForValue); err != nil {
			return err
		}
		argCount++
	}

	if err := b.emitCall(target, argCount); err != nil {
		return err
	}

	if lvalue != nil {
		return b.buildAssignment(lvalue, mode)
	}
	b.dropForEffect(mode)
	return nil
}

// emitCall chooses between splicing a builtin's inline instruction
// sequence, a static call, and a virtual call (spec section 4.4's
// "Method" call shape).
func (b *Builder) emitCall(target *ir.Function, argCount int) error {
	if len(target.Insts) > 0 {
		for _, inst := range target.Insts {
			op, ok := bytecode.ByName(string(inst.Op))
			if !ok {
				return fmt.Errorf("cfg: unknown inline instruction %q on %s", inst.Op, target.Name)
			}
			b.emit(ir.Instruction{Op: op})
		}
		return nil
	}
	if target.IsFinal() {
		b.callg(argCount, target.ID())
	} else {
		b.callv(argCount, target.Clas.GetMethodIndex(target))
	}
	return nil
}

// buildNew lowers `new Class(args)` (spec section 4.4, "Constructor"
// call shape): allocate the object, duplicate the reference so one
// copy survives the constructor call (which returns unit), run the
// constructor on the other copy, then drop the constructor's unit
// result.
func (b *Builder) buildNew(n *ast.New, mode Mode) error {
	class, ok := n.Class.(*ir.Class)
	if !ok {
		return fmt.Errorf("cfg: New.Class is not *ir.Class (got %T)", n.Class)
	}
	ctor, ok := n.Ctor.(*ir.Function)
	if !ok {
		return fmt.Errorf("cfg: New.Ctor is not *ir.Function (got %T)", n.Ctor)
	}
	b.allocobj(class.ID())
	b.dup()
	argCount := 1
	for _, arg := range n.Args {
		if err := b.visit(arg, ForValue); err != nil {
			return err
		}
		argCount++
	}
	b.callg(argCount, ctor.ID())
	b.drop()
	b.dropForEffect(mode)
	return nil
}

// buildCallSimpleMethod calls method on an already-stacked receiver
// plus argCount-1 already-stacked arguments, used by pattern matching's
// `typeof`/`isSubtypeOf` dispatch (internal/cfg/match.go). argCount
// counts the receiver, so a zero-argument method passes 1.
func (b *Builder) buildCallSimpleMethod(method *ir.Function, argCount int) {
	if method.IsFinal() {
		b.callg(argCount, method.ID())
	} else {
		b.callv(argCount, method.Clas.GetMethodIndex(method))
	}
}

// buildAssignment stores the value already on top of the stack into
// lvalue, leaving a copy behind iff mode == ForValue (compiler.py's
// buildAssignment).
func (b *Builder) buildAssignment(lvalue LValue, mode Mode) error {
	return lvalue.Assign(mode)
}

// buildType pushes a runtime Type object representing ty onto the
// stack (section 4.1's reified types; used by pattern matching and by
// reflection-style builtins). Grounded on compiler.py's buildType:
// allocate a Type instance, push its static type arguments, then call
// its constructor.
func (b *Builder) buildType(ty irtypes.Type) error {
	reg := b.reg
	typeClass := reg.TypeClass()
	b.allocobj(typeClass.ID())
	b.dup()
	b.tycs(ty.Class.ClassID())
	for _, arg := range ty.TypeArguments {
		if err := b.buildStaticTypeArgument(arg); err != nil {
			return err
		}
	}
	ctor := typeClass.GetConstructor()
	b.callg(2+len(ty.TypeArguments), ctor.ID())
	b.drop()
	return nil
}

// buildStaticTypeArgument pushes one static type argument for a Type
// constructor call: a class-id constant for a concrete class type, or
// a type-parameter reference for a variable type (compiler.py's
// buildStaticTypeArgument).
func (b *Builder) buildStaticTypeArgument(ty irtypes.Type) error {
	switch ty.Kind {
	case irtypes.KindClass:
		b.tycs(ty.Class.ClassID())
	case irtypes.KindVariable:
		b.tyvs(ty.Param.ParamID())
	default:
		return fmt.Errorf("cfg: %s cannot appear as a static type argument", ty.String())
	}
	return nil
}

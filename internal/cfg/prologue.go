package cfg

import (
	"fmt"

	"gypsumc/internal/ast"
	"gypsumc/internal/ir"
)

// FunctionBody is the lowering-ready shape of a function/method/
// constructor body (spec section 2, compiler.py's compile(): "Get the
// body of the function as a list of statements. Also parameters.").
type FunctionBody struct {
	// Parameters are the function's declared parameter variables, in
	// order (receiver excluded — Function.IsMethod() implies an
	// implicit $this at local index 0, handled by enumerateParameters).
	Parameters []*ir.Variable

	// PrimaryCtorFields is set only for a class's primary constructor:
	// its parameter variables, which get parameter slots like ordinary
	// parameters and whose values are also stored into the same-named
	// fields (spec section 3.4, "Primary constructor"). When set,
	// Parameters is ignored; Body's statements are still compiled after
	// the field stores.
	PrimaryCtorFields []*ir.Variable

	// Body is the statement list this function runs, wrapped in a
	// Block so it carries its own scope id / context / closure
	// annotations (spec section 1).
	Body *ast.Block
}

// Compile lowers body into b.fn's CFG (compiler.py's compile()).
func (b *Builder) Compile(body *FunctionBody) error {
	if b.fn.CompileHint != ir.NoHint {
		b.compileWithHint()
		return nil
	}

	b.enumerateLocals()
	if body.PrimaryCtorFields != nil {
		b.enumerateParameters(body.PrimaryCtorFields)
	} else {
		b.enumerateParameters(body.Parameters)
	}

	statements := body.Body.Statements
	altCtorCalled := false
	superCtorCalled := false
	if b.fn.IsConstructor() && len(statements) > 0 {
		if call, ok := statements[0].(*ast.Call); ok {
			switch call.Callee.(type) {
			case *ast.ThisExpr:
				if err := b.buildCall(call, ForEffect); err != nil {
					return err
				}
				altCtorCalled, superCtorCalled = true, true
				statements = statements[1:]
			case *ast.SuperExpr:
				if err := b.buildCall(call, ForEffect); err != nil {
					return err
				}
				superCtorCalled = true
				statements = statements[1:]
			}
		}
	}

	if b.fn.IsConstructor() && !superCtorCalled {
		if err := b.buildDefaultSuperCtorCall(); err != nil {
			return err
		}
	}

	if b.fn.IsConstructor() && body.PrimaryCtorFields != nil {
		b.unpackPrimaryConstructorFields(body.PrimaryCtorFields)
	}

	if b.fn.IsConstructor() && !altCtorCalled {
		b.callInitializer()
	}

	mode := ForValue
	if b.fn.IsConstructor() {
		mode = ForEffect
	}
	newBody := *body.Body
	newBody.Statements = statements
	if err := b.compileBlock(&newBody, mode); err != nil {
		return err
	}

	if !b.unreachable {
		if mode == ForEffect {
			b.unit()
		}
		b.ret()
	}

	b.OrderBlocks()
	return nil
}

// compileWithHint runs a canned body for a synthesized function (spec
// section 4.5). ContextCtorHint needs nothing: context values are
// stored after the context object itself is constructed. ClosureCtorHint
// copies its parameters (the captured contexts, in field order) into
// the closure object's fields.
func (b *Builder) compileWithHint() {
	switch b.fn.CompileHint {
	case ir.ContextCtorHint:
		b.unit()
		b.ret()
	case ir.ClosureCtorHint:
		fields := b.fn.Clas.Fields
		for i, field := range fields {
			paramIndex := i + 1 // skip receiver
			b.ldlocal(paramIndex)
			b.loadThis()
			b.storeField(field)
			_ = field
		}
		b.unit()
		b.ret()
	}
}

// buildDefaultSuperCtorCall finds the superclass's zero-argument
// constructor and calls it with `this` as the sole argument
// (compiler.py: "try to find a default super constructor").
func (b *Builder) buildDefaultSuperCtorCall() error {
	super := b.fn.Clas.Superclass()
	if super == nil {
		return fmt.Errorf("cfg: class %s has no superclass to call a default constructor on", b.fn.Clas.Name)
	}
	var defaultCtor *ir.Function
	for _, ctor := range super.Constructors {
		if len(ctor.ParameterTypes) == 1 {
			if defaultCtor != nil {
				return fmt.Errorf("cfg: superclass %s has more than one default constructor", super.Name)
			}
			defaultCtor = ctor
		}
	}
	if defaultCtor == nil {
		return fmt.Errorf("cfg: no default constructor in superclass %s", super.Name)
	}
	b.loadThis()
	b.callg(1, defaultCtor.ID())
	b.drop()
	return nil
}

// unpackPrimaryConstructorFields stores each primary-constructor
// parameter straight into the same-named field (spec section 3.4).
// Parameters occupy locals 1..N (local 0 is the receiver); once stored,
// they aren't kept as locals.
func (b *Builder) unpackPrimaryConstructorFields(fields []*ir.Variable) {
	for i := range fields {
		paramIndex := i + 1
		b.ldlocal(paramIndex)
		b.loadThis()
		field := b.fn.Clas.GetField(fields[i].Name)
		if field == nil {
			panic("cfg: primary constructor field " + fields[i].Name + " not found on " + b.fn.Clas.Name)
		}
		b.storeField(field)
	}
}

// callInitializer runs the class's field-initializer function, unless
// an alternate constructor already ran it on our behalf (spec section
// 3.4, "Initializer call ordering").
func (b *Builder) callInitializer() {
	init := b.fn.Clas.Initializer
	if init == nil {
		return
	}
	b.loadThis()
	b.callg(1, init.ID())
	b.drop()
}

// enumerateLocals assigns fp-offsets to the function's local variables,
// in declaration order, starting at -1 and counting down (compiler.py's
// enumerateLocals: locals live below the frame pointer).
func (b *Builder) enumerateLocals() {
	next := -1
	for _, v := range b.fn.Variables {
		if v.Kind == ir.Local {
			v.Index = next
			next--
		}
	}
}

// enumerateParameters assigns indices to parameter variables: the
// receiver (if any) is local 0, then each declared parameter in order.
func (b *Builder) enumerateParameters(parameters []*ir.Variable) {
	implicit := 0
	if b.fn.IsMethod() {
		implicit = 1
		if len(b.fn.Variables) > 0 && b.fn.Variables[0].Kind == ir.Parameter {
			b.fn.Variables[0].Index = 0
		}
	}
	for i, p := range parameters {
		p.Index = i + implicit
	}
}

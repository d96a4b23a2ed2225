package cfg

import (
	"fmt"

	"gypsumc/internal/ast"
	"gypsumc/internal/ir"
)

// visitPattern binds a value into pattern.Var (FOR-EFFECT: the value is
// already on the stack; FOR-UNINITIALIZED: push unit first). Pattern
// type-testing (FOR-MATCH) is handled separately by
// compilePartialFunction, which needs success/failure block wiring that
// a plain variable-definition binding doesn't.
func (b *Builder) visitPattern(pattern *ast.VariablePattern, mode Mode) error {
	switch mode {
	case ForUninitialized:
		b.uninitialized()
		return b.storeVariable(pattern.Var, 0)
	case ForEffect:
		return b.storeVariable(pattern.Var, 0)
	default:
		return fmt.Errorf("cfg: visitPattern called in unsupported mode %v", mode)
	}
}

// compilePartialFunction dispatches a scrutinee (already on top of the
// stack) through pf's cases in order: each case that declares a type
// tests the scrutinee's runtime type against it via typeof/isSubtypeOf,
// binds the pattern variable, optionally checks a guard condition, then
// compiles the case's expression in mode. A case whose pattern doesn't
// match, or whose guard fails, falls through to nextBlock — the next
// case's type test, or failBlock on the last case — with the scrutinee
// restored on the stack.
func (b *Builder) compilePartialFunction(pf *ast.PartialFunction, mode Mode, failBlock *ir.BasicBlock) error {
	joinBlock := b.newBlock()
	for i, c := range pf.Cases {
		var nextBlock *ir.BasicBlock
		if i == len(pf.Cases)-1 {
			nextBlock = failBlock
		} else {
			nextBlock = b.newBlock()
		}

		b.dup()
		if c.Pattern.HasType {
			typeofMethod := b.reg.RootClass().GetMethod("typeof")
			if typeofMethod == nil {
				return fmt.Errorf("cfg: builtin Object.typeof is not registered")
			}
			b.buildCallSimpleMethod(typeofMethod, 1)
			if err := b.buildType(c.Pattern.MatchTy); err != nil {
				return err
			}
			isSubtypeOf := b.reg.TypeClass().GetMethod("isSubtypeOf")
			if isSubtypeOf == nil {
				return fmt.Errorf("cfg: builtin Type.isSubtypeOf is not registered")
			}
			// isSubtypeOf takes the receiver Type plus one Type
			// argument (catalogue.yaml: parameterTypes: [Type, Type]);
			// buildType just pushed that argument.
			b.buildCallSimpleMethod(isSubtypeOf, 2)
		} else {
			b.drop()
			b.true_()
		}

		bindBlock := b.newBlock()
		b.branchif(bindBlock.ID(), nextBlock.ID())
		b.setCurrentBlock(bindBlock)
		if c.Condition != nil {
			// Keep a copy of the scrutinee for nextBlock in case the
			// guard fails; guardBlock drops it.
			b.dup()
		}
		if err := b.storeVariable(c.Pattern.Var, 0); err != nil {
			return err
		}
		if c.Condition != nil {
			if err := b.visit(c.Condition, ForValue); err != nil {
				return err
			}
			guardBlock := b.newBlock()
			b.branchif(guardBlock.ID(), nextBlock.ID())
			b.setCurrentBlock(guardBlock)
			b.drop()
		}
		if err := b.visit(c.Expr, mode); err != nil {
			return err
		}
		b.branch(joinBlock.ID())
		b.setCurrentBlock(nextBlock)
	}
	b.setCurrentBlock(joinBlock)
	return nil
}

// visitTryCatch lowers try/catch/finally (spec section 4.3). Grounded
// on compiler.py's visitAstTryCatchExpression: pushtry installs the
// active handler for the protected region; an exception caught there
// resumes at catchBlock with the exception value already on the
// stack; poptry deactivates the handler on normal completion.
//
// finally must run on every exit from the protected region (section
// 4.3: "the finally handler runs on both normal and exceptional
// exits"), exactly once per entry. Rather than join the normal and
// exceptional paths behind a single copy of finally — which would
// make a rethrow skip it — compileFinally is spliced onto each of the
// three exit edges: the normal completion edge, the
// caught-and-handled edge, and the rethrow edge (no catch clause, or
// catch's cases all fail to match). Each edge reaches exactly one
// copy, so finally still runs exactly once per entry.
func (b *Builder) visitTryCatch(n *ast.TryCatch, mode Mode) error {
	tryBlock := b.newBlock()
	catchBlock := b.newBlock()
	afterTryBlock := b.newBlock()
	joinBlock := b.newBlock()

	b.pushtry(tryBlock.ID(), catchBlock.ID())
	b.setCurrentBlock(tryBlock)
	if err := b.visit(n.Try, mode); err != nil {
		return err
	}
	b.poptry(afterTryBlock.ID())

	b.setCurrentBlock(afterTryBlock)
	if err := b.compileFinally(n.Finally); err != nil {
		return err
	}
	b.branch(joinBlock.ID())

	b.setCurrentBlock(catchBlock)
	rethrowBlock := catchBlock
	if n.Catch != nil {
		failBlock := b.newBlock()
		if err := b.compilePartialFunction(n.Catch, mode, failBlock); err != nil {
			return err
		}
		if err := b.compileFinally(n.Finally); err != nil {
			return err
		}
		b.branch(joinBlock.ID())
		rethrowBlock = failBlock
	}
	b.setCurrentBlock(rethrowBlock)
	rethrowScope := b.enterUnreachableScope()
	if err := b.compileFinally(n.Finally); err != nil {
		return err
	}
	b.throwOp()
	rethrowScope.exit()

	b.setCurrentBlock(joinBlock)
	return nil
}

// compileFinally visits n.Finally for effect if present, a no-op
// otherwise. Factored out because visitTryCatch splices it onto
// multiple exit edges.
func (b *Builder) compileFinally(finally ast.Expr) error {
	if finally == nil {
		return nil
	}
	return b.visit(finally, ForEffect)
}

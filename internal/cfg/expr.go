package cfg

import (
	"fmt"
	"math"

	"gypsumc/internal/ast"
	"gypsumc/internal/ir"
	"gypsumc/internal/irtypes"
)

// visit is the single dispatch point over ast.Stmt (design note 9.1: a
// Go type switch replaces the original's per-node-kind visitor method).
func (b *Builder) visit(node ast.Stmt, mode Mode) error {
	switch n := node.(type) {
	case *ast.Literal:
		return b.visitLiteral(n, mode)
	case *ast.VariableRef:
		return b.visitVariableRef(n, mode)
	case *ast.ThisExpr:
		return b.visitThis(n, mode)
	case *ast.Assign:
		return b.visitAssign(n, mode)
	case *ast.Property:
		return b.visitProperty(n, mode)
	case *ast.Call:
		return b.buildCall(n, mode)
	case *ast.Block:
		return b.compileBlock(n, mode)
	case *ast.If:
		return b.visitIf(n, mode)
	case *ast.While:
		return b.visitWhile(n, mode)
	case *ast.LogicAnd:
		return b.visitLogic(n.Left, n.Right, true, mode)
	case *ast.LogicOr:
		return b.visitLogic(n.Left, n.Right, false, mode)
	case *ast.Throw:
		return b.visitThrow(n)
	case *ast.TryCatch:
		return b.visitTryCatch(n, mode)
	case *ast.Return:
		return b.visitReturn(n)
	case *ast.VariableDefn:
		return b.visitVariableDefn(n, mode)
	case *ast.New:
		return b.buildNew(n, mode)
	default:
		return fmt.Errorf("cfg: unsupported node type %T", node)
	}
}

func (b *Builder) visitLiteral(lit *ast.Literal, mode Mode) error {
	switch lit.Kind {
	case ast.LitInteger:
		switch lit.Width {
		case irtypes.W8:
			b.i8(lit.Int)
		case irtypes.W16:
			b.i16(lit.Int)
		case irtypes.W32:
			b.i32(lit.Int)
		default:
			b.i64(lit.Int)
		}
	case ast.LitFloat:
		if lit.Width == irtypes.W32 {
			b.f32(uint64(math.Float32bits(float32(lit.Float))))
		} else {
			b.f64(math.Float64bits(lit.Float))
		}
	case ast.LitString:
		b.str(b.pkg.FindOrAddString(lit.Str))
	case ast.LitBoolean:
		if lit.Boolean {
			b.true_()
		} else {
			b.false_()
		}
	case ast.LitNull:
		b.null()
	case ast.LitUnit:
		b.unit()
	default:
		return fmt.Errorf("cfg: unknown literal kind %d", lit.Kind)
	}
	b.dropForEffect(mode)
	return nil
}

func (b *Builder) visitVariableRef(ref *ast.VariableRef, mode Mode) error {
	switch d := ref.Defn.(type) {
	case *ir.Variable:
		b.ldlocal(d.Index)
		b.dropForEffect(mode)
		return nil
	case *ir.Field:
		if err := b.loadContext(ref.ScopeID); err != nil {
			return err
		}
		b.loadField(d)
		b.dropForEffect(mode)
		return nil
	case *ir.Function:
		// A bare reference to a function used as a call target with no
		// arguments (e.g. a zero-arg method/function invoked by name).
		return b.buildCall(&ast.Call{Callee: ref}, mode)
	default:
		return fmt.Errorf("cfg: variable reference resolves to unsupported type %T", d)
	}
}

func (b *Builder) visitThis(t *ast.ThisExpr, mode Mode) error {
	if err := b.loadVariable(t.Defn, t.ScopeID); err != nil {
		return err
	}
	b.dropForEffect(mode)
	return nil
}

func (b *Builder) visitAssign(a *ast.Assign, mode Mode) error {
	lv, err := b.compileLValue(a.Left)
	if err != nil {
		return err
	}
	if err := b.visit(a.Right, ForValue); err != nil {
		return err
	}
	return b.buildAssignment(lv, mode)
}

func (b *Builder) visitProperty(p *ast.Property, mode Mode) error {
	switch d := p.Defn.(type) {
	case *ir.Field:
		if err := b.visit(p.Receiver, ForValue); err != nil {
			return err
		}
		b.loadField(d)
		b.dropForEffect(mode)
		return nil
	case *ir.Function:
		return b.buildCall(&ast.Call{Callee: p}, mode)
	default:
		return fmt.Errorf("cfg: property resolves to unsupported type %T", d)
	}
}

// compileBlock mirrors compiler.py's compileStatements: optionally
// materialize this scope's context object, allocate any nested-closure
// objects, then compile each statement, dropping every result but the
// last (which is compiled in mode).
func (b *Builder) compileBlock(block *ast.Block, mode Mode) error {
	if block.ContextClass != nil {
		contextClass, ok := block.ContextClass.(*ir.Class)
		if !ok {
			return fmt.Errorf("cfg: Block.ContextClass is not *ir.Class")
		}
		if err := b.createContext(contextClass, block.ContextVar); err != nil {
			return err
		}
	}
	if err := b.buildDeclarations(block.Closures); err != nil {
		return err
	}

	statements := block.Statements
	for _, stmt := range statements[:max(0, len(statements)-1)] {
		if err := b.visit(stmt, ForEffect); err != nil {
			return err
		}
	}

	needUnit := true
	if len(statements) > 0 {
		last := statements[len(statements)-1]
		if _, isDefn := last.(*ast.VariableDefn); isDefn {
			if err := b.visit(last, ForEffect); err != nil {
				return err
			}
		} else {
			if err := b.visit(last, mode); err != nil {
				return err
			}
			needUnit = false
		}
	}
	if mode == ForValue && needUnit {
		b.unit()
	}
	return nil
}

func (b *Builder) visitVariableDefn(defn *ast.VariableDefn, mode Mode) error {
	if mode != ForEffect {
		return fmt.Errorf("cfg: variable definition compiled in non-effect mode")
	}
	if defn.Value == nil {
		return b.visitPattern(defn.Pattern, ForUninitialized)
	}
	if err := b.visit(defn.Value, ForValue); err != nil {
		return err
	}
	return b.visitPattern(defn.Pattern, ForEffect)
}

func (b *Builder) visitIf(n *ast.If, mode Mode) error {
	if err := b.visit(n.Condition, ForValue); err != nil {
		return err
	}
	trueBlock := b.newBlock()
	if n.FalseExpr == nil {
		joinBlock := b.newBlock()
		b.branchif(trueBlock.ID(), joinBlock.ID())
		b.setCurrentBlock(trueBlock)
		scope := b.enterUnreachableScope()
		if err := b.visit(n.TrueExpr, ForEffect); err != nil {
			return err
		}
		b.branch(joinBlock.ID())
		scope.exit()
		b.setCurrentBlock(joinBlock)
		if mode == ForValue {
			b.unit()
		}
		return nil
	}

	falseBlock := b.newBlock()
	joinBlock := b.newBlock()
	b.branchif(trueBlock.ID(), falseBlock.ID())

	b.setCurrentBlock(trueBlock)
	trueScope := b.enterUnreachableScope()
	if err := b.visit(n.TrueExpr, mode); err != nil {
		return err
	}
	b.branch(joinBlock.ID())
	trueUnreachable := b.unreachable
	trueScope.exit()

	b.setCurrentBlock(falseBlock)
	falseScope := b.enterUnreachableScope()
	if err := b.visit(n.FalseExpr, mode); err != nil {
		return err
	}
	b.branch(joinBlock.ID())
	falseUnreachable := b.unreachable
	falseScope.exit()

	if trueUnreachable && falseUnreachable {
		b.unreachable = true
	}
	b.setCurrentBlock(joinBlock)
	return nil
}

func (b *Builder) visitWhile(n *ast.While, mode Mode) error {
	condBlock := b.newBlock()
	b.branch(condBlock.ID())
	b.setCurrentBlock(condBlock)
	if err := b.visit(n.Condition, ForValue); err != nil {
		return err
	}
	bodyBlock := b.newBlock()
	endBlock := b.newBlock()
	b.branchif(bodyBlock.ID(), endBlock.ID())
	b.setCurrentBlock(bodyBlock)
	scope := b.enterUnreachableScope()
	if err := b.visit(n.Body, ForEffect); err != nil {
		return err
	}
	b.branch(condBlock.ID())
	scope.exit()
	b.setCurrentBlock(endBlock)
	if mode == ForValue {
		b.unit()
	}
	return nil
}

func (b *Builder) visitLogic(left, right ast.Expr, isAnd bool, mode Mode) error {
	longBlock := b.newBlock()
	joinBlock := b.newBlock()
	if err := b.visit(left, ForValue); err != nil {
		return err
	}
	b.dup()
	if isAnd {
		b.branchif(longBlock.ID(), joinBlock.ID())
	} else {
		b.branchif(joinBlock.ID(), longBlock.ID())
	}
	b.setCurrentBlock(longBlock)
	b.drop()
	if err := b.visit(right, ForValue); err != nil {
		return err
	}
	b.branch(joinBlock.ID())
	b.setCurrentBlock(joinBlock)
	b.dropForEffect(mode)
	return nil
}

func (b *Builder) visitThrow(n *ast.Throw) error {
	if err := b.visit(n.Exception, ForValue); err != nil {
		return err
	}
	b.throwOp()
	return nil
}

func (b *Builder) visitReturn(n *ast.Return) error {
	if n.Value == nil {
		b.unit()
	} else if err := b.visit(n.Value, ForValue); err != nil {
		return err
	}
	b.ret()
	return nil
}

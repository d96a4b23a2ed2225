// Package ast is the annotated-AST contract the CFG builder consumes
// (spec section 1: "the core consumes ... an AST annotated with per-node
// definition info, use info, type info, closure info, and context
// info"). The lexer, parser, declaration analysis, scope analysis and
// type checker that would produce this tree are out of scope (external
// collaborators); this package only declares the shape their output
// must have for internal/cfg to lower it.
//
// Each node carries its resolution directly (a *ir.Variable, *ir.Field,
// *ir.Function or *ir.Class pointer, or a resolved irtypes.Type) rather
// than through a side-table keyed by node id, the way the original
// compiler.py's CompileInfo/UseInfo/DefnInfo indirection does — a
// pre-resolved field is the idiomatic Go rendition of "the annotation a
// prior pass already computed for this node".
package ast

import "gypsumc/internal/irtypes"

// Node is the common marker for every AST node the builder dispatches
// on (internal/cfg/expr.go's type switch — design note 9.1).
type Node interface{ astNode() }

// Stmt is anything that can appear in a statement list: an Expr, or a
// VariableDefn (which isn't itself an expression).
type Stmt interface{ Node }

// Expr is anything the builder can compile FOR-VALUE, FOR-EFFECT or
// FOR-MATCH (section 2.1).
type Expr interface {
	Stmt
	exprNode()
}

type base struct{}

func (base) astNode() {}

type exprBase struct{ base }

func (exprBase) exprNode() {}

// LiteralKind discriminates Literal's payload.
type LiteralKind int

const (
	LitUnit LiteralKind = iota
	LitBoolean
	LitInteger
	LitFloat
	LitString
	LitNull
)

// Literal is a constant value (section 2.2, "Literal operand").
type Literal struct {
	exprBase
	Kind    LiteralKind
	Width   int // for LitInteger/LitFloat: 8/16/32/64
	Int     int64
	Float   float64
	Str     string
	Boolean bool
}

// Defn is whatever a name resolves to: *ir.Variable, *ir.Field,
// *ir.Function, or *ir.Class (mirrors compiler.py's irDefn union).
type Defn interface{}

// VariableRef is a reference to a resolved local, parameter, field,
// function or class (AstVariableExpression's use info).
type VariableRef struct {
	exprBase
	Defn Defn
	// ScopeID identifies the lexical scope the reference's context
	// chain must be loaded through, when Defn is a captured Field
	// (the original's DefnInfo.scopeId — see internal/cfg/closure.go).
	ScopeID int
}

// ThisExpr references the receiver.
type ThisExpr struct {
	exprBase
	Defn    Defn // the receiver Variable/Field, when captured
	ScopeID int
}

// SuperExpr is only meaningful as the callee of a Call.
type SuperExpr struct{ exprBase }

// Assign is `left = right`.
type Assign struct {
	exprBase
	Left  Expr
	Right Expr
}

// Property is `receiver.name`, pre-resolved to a field or method.
type Property struct {
	exprBase
	Receiver Expr
	Defn     Defn // *ir.Field or *ir.Function
	ScopeID  int
}

// Call is a call expression. Callee is a VariableRef (global/static call
// or implicit-receiver method call) or a Property (explicit-receiver
// method call) whose Defn is the resolved *ir.Function; or a ThisExpr/
// SuperExpr (constructor delegation), in which case CtorTarget carries
// the resolved *ir.Function since ThisExpr/SuperExpr's own Defn means
// "the receiver", not "the call target".
type Call struct {
	exprBase
	Callee       Expr
	Args         []Expr
	TypeArgs     []irtypes.Type
	CtorTarget   Defn // resolved *ir.Function, set when Callee is ThisExpr/SuperExpr
	IsUnary      bool
	IsCompound   bool // binary `+=`-style operator lowering to a compiled lvalue receiver
	CompoundRecv Expr // present when IsCompound: the original lvalue expression
}

// Block is `{ stmt; stmt; ... }` (section 2.1, compileStatements).
//
// ContextClass/ContextVar/Closures carry the closure/context
// annotations section 1 says the AST arrives with: ContextClass is set
// when this scope's captured variables must be boxed into a context
// object (nil otherwise); Closures lists the nested-function objects
// this scope must allocate before running its statements
// (internal/cfg/closure.go's buildDeclarations).
type Block struct {
	exprBase
	ScopeID      int
	ContextClass Defn // *ir.Class, nil if no context object is needed
	ContextVar   Defn // *ir.Variable that receives the constructed context object
	Closures     []ClosureDecl
	Statements   []Stmt
}

// ClosureDecl is one nested function/class this scope must allocate a
// closure object for before running its own statements.
type ClosureDecl struct {
	Class            Defn // *ir.Class
	Var              Defn // *ir.Variable or *ir.Field that receives the closure object
	CapturedScopeIDs []int
}

// VariableDefn declares a local with an optional initializer
// (AstVariableDefinition). Not an Expr: it never produces a value.
type VariableDefn struct {
	base
	Pattern *VariablePattern
	Value   Expr // nil if uninitialized
}

// VariablePattern binds a value to a variable, optionally testing its
// runtime type first (FOR-MATCH mode, section 2.3).
type VariablePattern struct {
	base
	Var     Defn // *ir.Variable
	MatchTy irtypes.Type
	HasType bool
}

// If is `if (cond) trueExpr [else falseExpr]`.
type If struct {
	exprBase
	Condition Expr
	TrueExpr  Expr
	FalseExpr Expr // nil when there's no else branch
}

// While is `while (cond) body`.
type While struct {
	exprBase
	Condition Expr
	Body      Expr
}

// LogicAnd/LogicOr are `&&`/`||`, short-circuited (never lowered to a
// method call, unlike every other binary operator — section 2.2).
type LogicAnd struct {
	exprBase
	Left, Right Expr
}
type LogicOr struct {
	exprBase
	Left, Right Expr
}

// Throw is `throw exception`.
type Throw struct {
	exprBase
	Exception Expr
}

// TryCatch is `try expr catch { cases } [finally handler]`.
type TryCatch struct {
	exprBase
	Try     Expr
	Catch   *PartialFunction // nil if there's no catch handler
	Finally Expr             // nil if there's no finally handler
}

// PartialFunction is a `catch { case p1 => e1; case p2 if c => e2 }`
// handler: an ordered list of pattern-matching cases.
type PartialFunction struct {
	base
	Cases []PartialFunctionCase
}

// PartialFunctionCase is one `case pattern [if condition] => expression`.
type PartialFunctionCase struct {
	Pattern   *VariablePattern
	Condition Expr // nil if there's no guard
	Expr      Expr
}

// Return is `return [expression]`.
type Return struct {
	exprBase
	Value Expr // nil means unit
}

// New constructs a class via a resolved constructor (section 4.4,
// "Constructor" call shape). Class and Ctor are *ir.Class and
// *ir.Function respectively, carried as Defn to avoid an ast->ir import.
type New struct {
	exprBase
	Class Defn
	Ctor  Defn
	Args  []Expr
}

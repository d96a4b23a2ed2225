package main

// buildSamplePackage constructs a small annotated AST entirely through
// Go constructors and lowers it into a *ir.Package, standing in for the
// declaration-analysis/type-checking front end spec.md places out of
// scope (external collaborators; see spec.md's CLI note: "inputs are
// source paths"). Until a real front end exists, gypsumc always builds
// this fixed package; the dump-ir and compile commands both
// run off of it.
//
// The package models:
//
//	class Counter(count: i32)
//	  def increment(n: i32): i32 = {
//	    this.count = this.count + n
//	    return this.count
//	  }
//
//	def main: i32 = {
//	  var c = new Counter(0)
//	  return c.increment(41)
//	}
import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"gypsumc/internal/ast"
	"gypsumc/internal/builtins"
	"gypsumc/internal/cfg"
	"gypsumc/internal/ir"
	"gypsumc/internal/irtypes"
	"gypsumc/internal/layout"
)

func buildSamplePackage() (*ir.Package, error) {
	reg := builtins.Get()
	pkg := ir.NewPackage()

	i32 := irtypes.Integer(irtypes.W32)

	counterClass := &ir.Class{
		Name:       "Counter",
		Supertypes: []irtypes.Type{irtypes.ClassType(reg.RootClass())},
	}
	countField := &ir.Field{Name: "count", Type: i32}
	counterClass.Fields = []*ir.Field{countField}
	pkg.AddClass(counterClass)

	ctorThis := &ir.Variable{Name: "this", Kind: ir.Parameter, Type: irtypes.ClassType(counterClass)}
	ctorCount := &ir.Variable{Name: "count", Kind: ir.Parameter, Type: i32}
	ctor := &ir.Function{
		Name:           "$constructor",
		ReturnType:     irtypes.Unit(),
		ParameterTypes: []irtypes.Type{irtypes.ClassType(counterClass), i32},
		Variables:      []*ir.Variable{ctorThis, ctorCount},
		Clas:           counterClass,
	}
	counterClass.Constructors = []*ir.Function{ctor}
	pkg.AddFunction(ctor)

	incThis := &ir.Variable{Name: "this", Kind: ir.Parameter, Type: irtypes.ClassType(counterClass)}
	incN := &ir.Variable{Name: "n", Kind: ir.Parameter, Type: i32}
	increment := &ir.Function{
		Name:           "increment",
		ReturnType:     i32,
		ParameterTypes: []irtypes.Type{irtypes.ClassType(counterClass), i32},
		Variables:      []*ir.Variable{incThis, incN},
		Clas:           counterClass,
	}
	counterClass.Methods = []*ir.Function{increment}
	pkg.AddFunction(increment)

	layout.AssignFieldIndices(pkg)

	i32Class := reg.FindClass("I32")
	if i32Class == nil {
		return nil, fmt.Errorf("gypsumc: builtin catalogue has no I32 class")
	}
	addMethod := i32Class.GetMethod("+")
	if addMethod == nil {
		return nil, fmt.Errorf("gypsumc: builtin I32 has no + method")
	}

	// this.count = this.count + n
	incBody := &ast.Block{
		Statements: []ast.Stmt{
			&ast.Assign{
				Left: &ast.Property{Receiver: &ast.ThisExpr{Defn: incThis}, Defn: countField},
				Right: &ast.Call{
					Callee: &ast.Property{
						Receiver: &ast.Property{Receiver: &ast.ThisExpr{Defn: incThis}, Defn: countField},
						Defn:     addMethod,
					},
					Args: []ast.Expr{&ast.VariableRef{Defn: incN}},
				},
			},
			&ast.Return{Value: &ast.Property{Receiver: &ast.ThisExpr{Defn: incThis}, Defn: countField}},
		},
	}
	// def main: i32 = { var c = new Counter(0); return c.increment(41) }
	cLocal := &ir.Variable{Name: "c", Kind: ir.Local, Type: irtypes.ClassType(counterClass)}
	mainFn := &ir.Function{
		Name:       "main",
		ReturnType: i32,
		Variables:  []*ir.Variable{cLocal},
	}
	pkg.AddFunction(mainFn)
	pkg.EntryFunction = mainFn.ID()

	mainBody := &ast.Block{
		Statements: []ast.Stmt{
			&ast.VariableDefn{
				Pattern: &ast.VariablePattern{Var: cLocal},
				Value: &ast.New{
					Class: counterClass,
					Ctor:  ctor,
					Args:  []ast.Expr{&ast.Literal{Kind: ast.LitInteger, Width: irtypes.W32, Int: 0}},
				},
			},
			&ast.Return{
				Value: &ast.Call{
					Callee: &ast.Property{Receiver: &ast.VariableRef{Defn: cLocal}, Defn: increment},
					Args:   []ast.Expr{&ast.Literal{Kind: ast.LitInteger, Width: irtypes.W32, Int: 41}},
				},
			},
		},
	}
	// Counter's constructor, Counter.increment and main each compile into
	// their own *ir.Function's Blocks independently (section 5: function
	// bodies compile in parallel); run the three cfg.Builder passes
	// through an errgroup.Group instead of one after another.
	var g errgroup.Group
	g.Go(func() error {
		incBuilder := cfg.NewBuilder(pkg, increment, reg, nil)
		if err := incBuilder.Compile(&cfg.FunctionBody{
			Parameters: []*ir.Variable{incN},
			Body:       incBody,
		}); err != nil {
			return fmt.Errorf("gypsumc: compiling Counter.increment: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		ctorBuilder := cfg.NewBuilder(pkg, ctor, reg, nil)
		if err := ctorBuilder.Compile(&cfg.FunctionBody{
			PrimaryCtorFields: []*ir.Variable{ctorCount},
			Body:              &ast.Block{},
		}); err != nil {
			return fmt.Errorf("gypsumc: compiling Counter's primary constructor: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		mainBuilder := cfg.NewBuilder(pkg, mainFn, reg, nil)
		if err := mainBuilder.Compile(&cfg.FunctionBody{
			Parameters: nil,
			Body:       mainBody,
		}); err != nil {
			return fmt.Errorf("gypsumc: compiling main: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return pkg, nil
}

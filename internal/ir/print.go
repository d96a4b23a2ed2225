package ir

import (
	"fmt"
	"strings"
)

// String restores ir.py's Package.__str__: a human-readable dump of
// every function and class, used by the dump-ir CLI command (SPEC_FULL.md
// "Supplemented features").
func (p *Package) String() string {
	var sb strings.Builder
	for _, g := range p.Globals {
		sb.WriteString(g.String())
		sb.WriteString("\n\n")
	}
	for _, f := range p.Functions {
		sb.WriteString(f.String())
		sb.WriteString("\n\n")
	}
	for _, c := range p.Classes {
		sb.WriteString(c.String())
		sb.WriteString("\n\n")
	}
	for _, tp := range p.TypeParameters {
		sb.WriteString(tp.String())
		sb.WriteString("\n\n")
	}
	fmt.Fprintf(&sb, "entry function: %d\n", p.EntryFunction)
	return sb.String()
}

// String restores Function.__str__: signature line, then one line per
// local/parameter variable, then one line per block with its
// instructions disassembled via bytecode.OpCode.String().
func (f *Function) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%sdef %s#%d", flagsPrefix(f.Flags), f.Name, f.id)
	if len(f.TypeParameters) > 0 {
		sb.WriteString("[")
		for i, tp := range f.TypeParameters {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(tp.Name)
		}
		sb.WriteString("]")
	}
	if len(f.ParameterTypes) > 0 {
		sb.WriteString("(")
		for i, pt := range f.ParameterTypes {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(pt.String())
		}
		sb.WriteString(")")
	}
	sb.WriteString(": ")
	sb.WriteString(f.ReturnType.String())
	if len(f.Variables) > 0 || len(f.Blocks) > 0 {
		sb.WriteString(" =\n")
	}
	for _, v := range f.Variables {
		fmt.Fprintf(&sb, "  var %s: %s (%s)\n", v.Name, v.Type.String(), v.Kind.String())
	}
	for _, block := range f.Blocks {
		fmt.Fprintf(&sb, "%d:\n", block.id)
		for _, inst := range block.Instructions {
			fmt.Fprintf(&sb, "  %s\n", instructionString(inst))
		}
	}
	return sb.String()
}

func instructionString(inst Instruction) string {
	var sb strings.Builder
	sb.WriteString(inst.Op.String())
	for _, operand := range inst.Operands {
		fmt.Fprintf(&sb, " %d", operand)
	}
	if inst.FloatBits != 0 {
		fmt.Fprintf(&sb, " 0x%x", inst.FloatBits)
	}
	return sb.String()
}

// String restores Class.__str__: signature line, fields, initializer,
// then one line per constructor/method id (ir.py prints only the id —
// the function itself is dumped separately, by Package.String's
// functions loop).
func (c *Class) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%sclass %s#%d\n", flagsPrefix(c.Flags), c.Name, c.id)
	for _, field := range c.Fields {
		fmt.Fprintf(&sb, "  %s: %s\n", field.Name, field.Type.String())
	}
	if c.Initializer != nil {
		sb.WriteString("  initializer #")
		fmt.Fprintf(&sb, "%d\n", c.Initializer.id)
	}
	for _, ctor := range c.Constructors {
		fmt.Fprintf(&sb, "  constructor #%d\n", ctor.id)
	}
	for _, method := range c.Methods {
		fmt.Fprintf(&sb, "  method #%d\n", method.id)
	}
	return sb.String()
}

// String restores Global.__str__.
func (g *Global) String() string {
	return fmt.Sprintf("%svar %s#%d: %s", flagsPrefix(g.Flags), g.Name, g.id, g.Type.String())
}

// String restores TypeParameter.__str__.
func (tp *TypeParameter) String() string {
	return fmt.Sprintf("%stype %s#%d <: %s >: %s", flagsPrefix(tp.Flags), tp.Name, tp.id,
		tp.UpperBound.String(), tp.LowerBound.String())
}

func flagsPrefix(flags Flags) string {
	s := flags.String()
	if s == "" {
		return ""
	}
	return s + " "
}

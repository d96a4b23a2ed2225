package ir

// Flags is a small named flag set, mirroring the original compiler's use
// of Python frozensets of flag names (e.g. frozenset(["public", "override"])).
// A map keeps membership tests and construction simple without needing a
// fixed enumeration shared across every definition kind.
type Flags map[string]struct{}

// NewFlags builds a Flags set from the given names.
func NewFlags(names ...string) Flags {
	f := make(Flags, len(names))
	for _, n := range names {
		f[n] = struct{}{}
	}
	return f
}

// Has reports whether name is present in the set.
func (f Flags) Has(name string) bool {
	_, ok := f[name]
	return ok
}

// With returns a new set with name added.
func (f Flags) With(name string) Flags {
	out := make(Flags, len(f)+1)
	for n := range f {
		out[n] = struct{}{}
	}
	out[name] = struct{}{}
	return out
}

func (f Flags) String() string {
	if len(f) == 0 {
		return ""
	}
	out := ""
	for n := range f {
		if out != "" {
			out += " "
		}
		out += n
	}
	return out
}

package cmd

import "strings"

// Arg declares one positional argument.
type Arg struct {
	Name     string
	Required bool
	Example  string
}

// Args holds argument values bound by name. Absent arguments have no value at all,
// which is different from an empty string.
type Args struct {
	values map[string]string
	extra  []string
	raw    string
}

// Get returns the value bound to name and whether it was present.
func (a Args) Get(name string) (string, bool) {
	v, ok := a.values[name]
	return v, ok
}

// String returns the value bound to name, or "" when absent.
func (a Args) String(name string) string {
	return a.values[name]
}

// Has reports whether name was bound.
func (a Args) Has(name string) bool {
	_, ok := a.values[name]
	return ok
}

// Len returns how many arguments were bound.
func (a Args) Len() int {
	return len(a.values)
}

// Raw returns the text the arguments were bound from.
func (a Args) Raw() string {
	return a.raw
}

// Extra returns tokens left over after every declared argument was bound.
func (a Args) Extra() []string {
	return a.extra
}

// ArgsOf builds Args from name/value pairs. It is meant for tests and for
// transports that bind arguments on their own.
func ArgsOf(pairs ...string) Args {
	a := Args{values: make(map[string]string, len(pairs)/2)}
	for i := 0; i+1 < len(pairs); i += 2 {
		a.values[pairs[i]] = pairs[i+1]
	}
	return a
}

// bindArgs binds tokens to specs in order. The first required spec without a
// non-empty token is returned as missing.
func bindArgs(specs []Arg, tokens []string) (Args, string) {
	a := Args{values: make(map[string]string, len(specs))}
	for i, spec := range specs {
		if i < len(tokens) && tokens[i] != "" {
			a.values[spec.Name] = tokens[i]
			continue
		}
		if spec.Required {
			return a, spec.Name
		}
	}
	if len(tokens) > len(specs) {
		a.extra = tokens[len(specs):]
	}
	return a, ""
}

func formatArgs(specs []Arg, lastArgIsText bool) string {
	parts := make([]string, 0, len(specs))
	for i, spec := range specs {
		name := spec.Name
		if lastArgIsText && i == len(specs)-1 {
			name += "..."
		}
		if spec.Required {
			parts = append(parts, "<"+name+">")
		} else {
			parts = append(parts, "["+name+"]")
		}
	}
	return strings.Join(parts, " ")
}

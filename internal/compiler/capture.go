package compiler

import (
	"regexp"
)

// Wrapper names recognised by the resolver.
const (
	ResultWrapper = "Result"
	ListWrapper   = "Vec"
	BoxWrapper    = "Box"
)

// Matchers are compiled once and shared read-only by every parse.
var (
	captureResult = NewGenericCapture(ResultWrapper)
	captureList   = NewGenericCapture(ListWrapper)
	captureBox    = NewGenericCapture(BoxWrapper)
)

// GenericCapture extracts the single type argument of a wrapper shape.
//
// The input must be a normalized (whitespace-free) type string of the form
// `[path::]*Name<inner>`. Only one top-level argument is supported: a comma
// in the argument list never matches, so `HashMap<K,V>` and `Result<T,E>`
// are not recognised.
type GenericCapture struct {
	name string
	re   *regexp.Regexp
}

// NewGenericCapture compiles a matcher for the wrapper called name.
func NewGenericCapture(name string) *GenericCapture {
	pattern := `^(?:[A-Za-z_][A-Za-z0-9_]*::)*` + regexp.QuoteMeta(name) + `<([A-Za-z0-9_<>():]+)>$`
	return &GenericCapture{
		name: name,
		re:   regexp.MustCompile(pattern),
	}
}

// Name returns the wrapper name this matcher recognises.
func (c *GenericCapture) Name() string {
	return c.name
}

// Captures returns the inner type string, e.g. Vec<Point> => Point.
// The inner segment is returned verbatim and may itself be generic.
func (c *GenericCapture) Captures(ty string) (string, bool) {
	m := c.re.FindStringSubmatch(ty)
	if m == nil {
		return "", false
	}
	inner := m[1]
	if !balancedAngles(inner) {
		// Vec<A>B<C> would otherwise capture "A>B<C".
		return "", false
	}
	return inner, true
}

func balancedAngles(s string) bool {
	depth := 0
	for _, r := range s {
		switch r {
		case '<':
			depth++
		case '>':
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}

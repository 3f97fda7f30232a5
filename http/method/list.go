package method

import "strings"

// List is an ordered set of methods, as configured on a route.
type List []Method

func (l List) Contains(m Method) bool {
	for _, el := range l {
		if el == m {
			return true
		}
	}

	return false
}

// String joins the list the way CORS headers want it: "GET, POST, DELETE".
func (l List) String() string {
	switch len(l) {
	case 0:
		return ""
	case 1:
		return l[0].String()
	}

	var b strings.Builder
	b.WriteString(l[0].String())

	for _, m := range l[1:] {
		b.WriteString(", ")
		b.WriteString(m.String())
	}

	return b.String()
}

package caller

import (
	"runtime"
	"strings"
)

// Name returns the name of the function or method that invoked it. It is
// used to name trace spans after the code that opened them.
//
//	func (c *Counter) Run(ctx context.Context) {
//		ctx, span := tracer.Start(ctx, caller.Name()) // "Counter.Run"
//		defer span.End()
//	}
//
// skip moves further up the stack: Name(1) names the caller's caller.
func Name(skip ...int) string {
	depth := 1
	if len(skip) > 0 {
		depth += skip[0]
	}

	pcs := make([]uintptr, depth+8)
	n := runtime.Callers(1, pcs)
	frames := runtime.CallersFrames(pcs[:n])

	// frame 0 is Name itself
	for i := 0; ; i++ {
		frame, more := frames.Next()
		if i == depth {
			return shortName(frame.Function)
		}
		if !more {
			return ""
		}
	}
}

// shortName turns a fully qualified runtime name such as
// "github.com/tymbaca/wordfreq/wordfreq.(*Counter).Run.func1" into
// "Counter.Run".
func shortName(full string) string {
	// package path may itself contain dots (github.com), only the last
	// path element carries the symbol
	if i := strings.LastIndexByte(full, '/'); i >= 0 {
		full = full[i+1:]
	}

	parts := strings.Split(full, ".")

	// closures: drop "func1", "func2.3" and friends
	for len(parts) > 1 && isClosure(parts[len(parts)-1]) {
		parts = parts[:len(parts)-1]
	}
	for len(parts) > 1 && isDigits(parts[len(parts)-1]) {
		parts = parts[:len(parts)-1]
		for len(parts) > 1 && isClosure(parts[len(parts)-1]) {
			parts = parts[:len(parts)-1]
		}
	}

	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	case 2:
		// package.Func
		return parts[1]
	default:
		// package.(*Type).Method
		typeName := strings.Trim(parts[len(parts)-2], "(*)")
		return typeName + "." + parts[len(parts)-1]
	}
}

func isClosure(s string) bool {
	return strings.HasPrefix(s, "func") && isDigits(strings.TrimPrefix(s, "func"))
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Package tt supports table-driven tests with little boilerplate.
//
// A typical use of this package looks like this:
//
//	// Function being tested
//	func neg(i int) { return -i }
//
//	func TestNeg(t *testing.T) {
//		tt.Test(t, neg,
//			// Unnamed test case
//			tt.Args(1).Rets(-1),
//			// Named test case
//			tt.It("returns 0 for 0").Args(0).Rets(0),
//		)
//	}
package tt

import (
	"errors"
	"fmt"
	"reflect"
	"runtime"
	"strings"

	"github.com/google/go-cmp/cmp"
)

// Case is a test case. It is created by Args or It, and offers setters that
// augment and return itself; those calls can be chained like
// It(...).Args(...).Rets(...).
type Case struct {
	desc         string
	args         []any
	retsMatchers [][]any
}

// Args returns a new Case with the given arguments.
func Args(args ...any) *Case {
	return &Case{args: args}
}

// It returns a new Case with the given description.
func It(desc string) *Case {
	return &Case{desc: desc}
}

// Args modifies the Case to pass the given arguments. It returns the receiver.
func (c *Case) Args(args ...any) *Case {
	c.args = args
	return c
}

// Rets modifies the Case to expect the given return values. It returns the
// receiver.
//
// The arguments may implement the Matcher interface, in which case its Match
// method is called with the actual return value. Otherwise, reflect.DeepEqual
// is used to determine matches.
func (c *Case) Rets(matchers ...any) *Case {
	c.retsMatchers = append(c.retsMatchers, matchers)
	return c
}

// FnDescriptor describes a function to test. It has the same fields as Fn,
// and its setters make the descriptor chainable.
type FnDescriptor struct {
	name    string
	body    any
	argsFmt string
	retsFmt string
}

// Fn creates a FnDescriptor for the given function. If the function is passed
// to Test directly, its name is derived from its fully qualified name as
// reported by the runtime.
func Fn(body any) *FnDescriptor {
	return &FnDescriptor{body: body}
}

// Named sets the name of the function. It returns the receiver.
func (fn *FnDescriptor) Named(name string) *FnDescriptor {
	fn.name = name
	return fn
}

// ArgsFmt sets the string for formatting arguments in test error messages. It
// returns the receiver.
func (fn *FnDescriptor) ArgsFmt(s string) *FnDescriptor {
	fn.argsFmt = s
	return fn
}

// RetsFmt sets the string for formatting return values in test error messages.
// It returns the receiver.
func (fn *FnDescriptor) RetsFmt(s string) *FnDescriptor {
	fn.retsFmt = s
	return fn
}

// T is the interface for accessing testing.T.
type T interface {
	Helper()
	Errorf(format string, args ...any)
}

// Test tests a function against test cases. The fn argument is either a
// function or a *FnDescriptor.
func Test(t T, fn any, tests ...*Case) {
	t.Helper()
	var fd *FnDescriptor
	switch fn := fn.(type) {
	case *FnDescriptor:
		fd = fn
	default:
		fd = Fn(fn)
	}
	if fd.name == "" {
		fd.name = funcName(fd.body)
	}
	for _, test := range tests {
		rets := call(fd.body, test.args)
		for _, retsMatcher := range test.retsMatchers {
			if match(retsMatcher, rets) {
				continue
			}
			var args string
			if fd.argsFmt == "" {
				args = sprintCommaDelimited(test.args...)
			} else {
				args = fmt.Sprintf(fd.argsFmt, test.args...)
			}
			var diff string
			if fd.retsFmt == "" {
				diff = cmp.Diff(retsMatcher, rets, cmpOpt)
			} else {
				diff = "-" + fmt.Sprintf(fd.retsFmt, retsMatcher...) + "\n" +
					"+" + fmt.Sprintf(fd.retsFmt, rets...) + "\n"
			}
			if test.desc == "" {
				t.Errorf("%s(%s) returns (-want +got):\n%s", fd.name, args, diff)
			} else {
				t.Errorf("%s (%s(%s)) returns (-want +got):\n%s", test.desc, fd.name, args, diff)
			}
		}
	}
}

// Allow go-cmp to look into unexported fields of error values, which are
// common as return values of the functions under test.
var cmpOpt = cmp.Exporter(func(reflect.Type) bool { return true })

// RetValue is an empty interface used in the Matcher interface.
type RetValue any

// Matcher wraps the Match method.
type Matcher interface {
	// Match reports whether a return value is considered a match. The argument
	// is of type RetValue so that it cannot be implemented accidentally.
	Match(RetValue) bool
}

// Any is a Matcher that matches any value.
var Any Matcher = anyMatcher{}

type anyMatcher struct{}

func (anyMatcher) Match(RetValue) bool { return true }

// ErrorIs returns a Matcher that matches an error for which errors.Is(err,
// target) is true.
func ErrorIs(target error) Matcher { return errorIsMatcher{target} }

type errorIsMatcher struct{ target error }

func (m errorIsMatcher) Match(v RetValue) bool {
	err, ok := v.(error)
	return ok && errors.Is(err, m.target)
}

func (m errorIsMatcher) String() string { return fmt.Sprintf("ErrorIs(%v)", m.target) }

func match(matchers, actual []any) bool {
	if len(matchers) != len(actual) {
		return false
	}
	for i, matcher := range matchers {
		if !matchOne(matcher, actual[i]) {
			return false
		}
	}
	return true
}

func matchOne(m, a any) bool {
	if m, ok := m.(Matcher); ok {
		return m.Match(a)
	}
	return reflect.DeepEqual(m, a)
}

func sprintCommaDelimited(args ...any) string {
	var b strings.Builder
	for i, arg := range args {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprint(&b, arg)
	}
	return b.String()
}

func funcName(f any) string {
	name := runtime.FuncForPC(reflect.ValueOf(f).Pointer()).Name()
	return name[strings.LastIndexByte(name, '/')+1:]
}

func call(fn any, args []any) []any {
	fnType := reflect.TypeOf(fn)
	argsReflect := make([]reflect.Value, len(args))
	for i, arg := range args {
		if arg == nil {
			// reflect.ValueOf(nil) returns a zero Value; use a zero value of
			// the parameter type instead.
			var t reflect.Type
			if fnType.IsVariadic() && i >= fnType.NumIn()-1 {
				t = fnType.In(fnType.NumIn() - 1).Elem()
			} else {
				t = fnType.In(i)
			}
			argsReflect[i] = reflect.Zero(t)
		} else {
			argsReflect[i] = reflect.ValueOf(arg)
		}
	}
	retsReflect := reflect.ValueOf(fn).Call(argsReflect)
	rets := make([]any, len(retsReflect))
	for i, retReflect := range retsReflect {
		rets[i] = retReflect.Interface()
	}
	return rets
}

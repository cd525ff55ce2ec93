// Filename: charcode/resolve.go
package charcode

import (
	"github.com/xkilldash9x/charsift/internal/ast"
)

// resolveArray resolves an expression believed to denote a numeric array to
// its concrete values, trying four indirection shapes in order:
//
//  1. a non-empty array literal of numeric literals
//  2. an identifier whose indexed initializer is such a literal
//  3. a zero-argument IIFE whose top-level statements return such a literal
//  4. a `.map(...)` call, recursing into the receiver one level at a time
//     (unwraps `arr.map(f).map(g)` and `(iife()).map(f)` shapes)
//
// Any other shape is "unresolved" -- a reportable state, not an error, and
// distinct from a valid empty decode (case 1 requires a non-empty literal).
func resolveArray(node ast.Node, index declIndex) ([]int64, bool) {
	switch n := node.(type) {
	case *ast.ArrayExpression:
		return numericElements(n)

	case *ast.Identifier:
		init, ok := index[n.Name]
		if !ok {
			return nil, false
		}
		arr, ok := init.(*ast.ArrayExpression)
		if !ok {
			return nil, false
		}
		return numericElements(arr)

	case *ast.CallExpression:
		// A .map chain: drill into the immediate receiver.
		if recv, ok := mapReceiver(n); ok {
			return resolveArray(recv, index)
		}
		// An immediately-invoked inline function returning the literal.
		if len(n.Arguments) == 0 && ast.IsFunction(n.Callee) {
			return iifeReturnArray(n.Callee)
		}
	}
	return nil, false
}

// numericElements extracts the ordered integer values of an all-numeric,
// non-empty array literal. Elisions, non-literal elements and non-integral
// numbers disqualify the whole literal.
func numericElements(arr *ast.ArrayExpression) ([]int64, bool) {
	if len(arr.Elements) == 0 {
		return nil, false
	}
	values := make([]int64, 0, len(arr.Elements))
	for _, el := range arr.Elements {
		if el == nil {
			return nil, false
		}
		num, ok := ast.NumberValue(el)
		if !ok {
			return nil, false
		}
		v := int64(num)
		if float64(v) != num {
			return nil, false
		}
		values = append(values, v)
	}
	return values, true
}

// iifeReturnArray searches the function's top-level statement list (not
// nested blocks) for a return of a qualifying array literal. Arrow functions
// with a bare array-expression body qualify directly.
func iifeReturnArray(fn ast.Node) ([]int64, bool) {
	body := ast.FunctionBody(fn)
	switch b := body.(type) {
	case *ast.BlockStatement:
		for _, stmt := range b.Body {
			ret, ok := stmt.(*ast.ReturnStatement)
			if !ok {
				continue
			}
			arr, ok := ret.Argument.(*ast.ArrayExpression)
			if !ok {
				continue
			}
			if values, ok := numericElements(arr); ok {
				return values, true
			}
		}
	case *ast.ArrayExpression:
		return numericElements(b)
	}
	return nil, false
}

// mapReceiver returns the receiver of a `<recv>.map(...)` call.
func mapReceiver(call *ast.CallExpression) (ast.Node, bool) {
	member, ok := call.Callee.(*ast.MemberExpression)
	if !ok || member.Computed {
		return nil, false
	}
	prop, ok := member.Property.(*ast.Identifier)
	if !ok || prop.Name != "map" {
		return nil, false
	}
	return member.Object, true
}

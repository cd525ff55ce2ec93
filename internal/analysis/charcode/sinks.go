// Filename: charcode/sinks.go
package charcode

import (
	"github.com/xkilldash9x/charsift/internal/ast"
)

// transformOperators is the binary operator set a sink's first argument may
// carry for the site to record a transform. Only a subset of these is
// auto-decodable; see decode.go.
var transformOperators = map[string]bool{
	">>": true, ">>>": true, "^": true, "+": true, "-": true, "&": true, "|": true,
}

// Site is one located `.map`-to-sink call pattern, the unit the decoder acts
// on. Immutable once constructed.
type Site struct {
	Loc      ast.Loc
	Receiver ast.Node            // candidate array source (the .map receiver)
	MapCall  *ast.CallExpression // the matched .map call
	Sink     *ast.CallExpression // the String.fromCharCode/fromCodePoint call
	Operator string              // transform operator, "" when absent
	Operand  ast.Node            // right-hand operand of the transform, nil when absent
}

// locateSites walks the full tree for calls shaped as
// `<recv>.map(<single function argument>)` whose callback body contains a
// call to the character-construction sink. Matches without such a nested
// sink are discarded; matches whose sink argument is not a recognized binary
// transform are still reported, with the transform recorded as absent.
func locateSites(root ast.Node) ([]Site, error) {
	var sites []Site

	err := ast.Walk(root, func(node, parent ast.Node) {
		call, ok := node.(*ast.CallExpression)
		if !ok {
			return
		}
		if _, isMap := mapReceiver(call); !isMap {
			return
		}
		if len(call.Arguments) != 1 || !ast.IsFunction(call.Arguments[0]) {
			return
		}

		sink := findSinkCall(ast.FunctionBody(call.Arguments[0]))
		if sink == nil {
			return
		}

		site := Site{
			Loc:      call.Pos(),
			Receiver: call.Callee.(*ast.MemberExpression).Object,
			MapCall:  call,
			Sink:     sink,
		}
		if len(sink.Arguments) > 0 {
			if bin, ok := sink.Arguments[0].(*ast.BinaryExpression); ok && transformOperators[bin.Operator] {
				site.Operator = bin.Operator
				site.Operand = bin.Right
			}
		}
		sites = append(sites, site)
	})
	if err != nil {
		return nil, err
	}
	return sites, nil
}

// findSinkCall searches a callback body for the first call on
// `String.fromCharCode` or `String.fromCodePoint`. Member access must be on
// the bare identifier `String`; argument count is irrelevant beyond the
// first argument mattering to the caller.
func findSinkCall(body ast.Node) *ast.CallExpression {
	var sink *ast.CallExpression

	// The callback body is a subtree of an already depth-checked walk, so a
	// depth error here is not reachable in practice; treat it as no match.
	_ = ast.Walk(body, func(node, parent ast.Node) {
		if sink != nil {
			return
		}
		call, ok := node.(*ast.CallExpression)
		if !ok {
			return
		}
		member, ok := call.Callee.(*ast.MemberExpression)
		if !ok || member.Computed {
			return
		}
		obj, ok := member.Object.(*ast.Identifier)
		if !ok || obj.Name != "String" {
			return
		}
		prop, ok := member.Property.(*ast.Identifier)
		if !ok {
			return
		}
		if prop.Name == "fromCharCode" || prop.Name == "fromCodePoint" {
			sink = call
		}
	})
	return sink
}

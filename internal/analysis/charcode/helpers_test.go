package charcode

import (
	"go.uber.org/zap"

	"github.com/xkilldash9x/charsift/internal/ast"
)

func zapNop() *zap.Logger {
	return zap.NewNop()
}

// Small constructors to keep hand-built trees readable.

func num(v float64) *ast.Literal {
	return &ast.Literal{Kind: ast.LiteralNumber, Num: v}
}

func str(s string) *ast.Literal {
	return &ast.Literal{Kind: ast.LiteralString, Str: s}
}

func ident(name string) *ast.Identifier {
	return &ast.Identifier{Name: name}
}

func arr(values ...float64) *ast.ArrayExpression {
	a := &ast.ArrayExpression{}
	for _, v := range values {
		a.Elements = append(a.Elements, num(v))
	}
	return a
}

func bin(op string, left, right ast.Node) *ast.BinaryExpression {
	return &ast.BinaryExpression{Operator: op, Left: left, Right: right}
}

func assign(op string, name string, right ast.Node) *ast.ExpressionStatement {
	return &ast.ExpressionStatement{Expression: &ast.AssignmentExpression{
		Operator: op,
		Left:     ident(name),
		Right:    right,
	}}
}

func declare(name string, init ast.Node) *ast.VariableDeclaration {
	return &ast.VariableDeclaration{Declarations: []*ast.VariableDeclarator{{
		ID:   ident(name),
		Init: init,
	}}}
}

func member(object ast.Node, property string) *ast.MemberExpression {
	return &ast.MemberExpression{Object: object, Property: ident(property)}
}

func call(callee ast.Node, args ...ast.Node) *ast.CallExpression {
	return &ast.CallExpression{Callee: callee, Arguments: args}
}

// mapSink builds `<recv>.map(function(v){ return String.fromCharCode(v <op> <operand>); })`.
func mapSink(recv ast.Node, op string, operand ast.Node) *ast.CallExpression {
	sinkArg := ast.Node(ident("v"))
	if op != "" {
		sinkArg = bin(op, ident("v"), operand)
	}
	callback := &ast.FunctionExpression{Body: &ast.BlockStatement{Body: []ast.Node{
		&ast.ReturnStatement{Argument: call(member(ident("String"), "fromCharCode"), sinkArg)},
	}}}
	return call(member(recv, "map"), callback)
}

// concatChain builds `[a] + [b] + [c] + ...` left-associated, the way the
// obfuscation idiom assembles its seed strings.
func concatChain(parts ...float64) ast.Node {
	node := ast.Node(arr(parts[0]))
	for _, p := range parts[1:] {
		node = bin("+", node, arr(p))
	}
	return node
}

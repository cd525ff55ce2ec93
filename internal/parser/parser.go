// Filename: parser/parser.go
// Converts raw JavaScript into the engine's closed node model using
// Tree-sitter. Constructs the charcode engine does not model are preserved
// as ast.Unknown containers so decode idioms nested inside them stay
// reachable.
package parser

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"go.uber.org/zap"

	"github.com/xkilldash9x/charsift/internal/ast"
)

// Parser turns JavaScript source into an ast.Program.
type Parser struct {
	logger *zap.Logger
}

// New creates a parser with a named component logger.
func New(logger *zap.Logger) *Parser {
	return &Parser{logger: logger.Named("js_parser")}
}

// Parse parses source and normalizes the Tree-sitter tree into the engine's
// node model. Syntax errors do not abort the parse; Tree-sitter recovers and
// the affected regions simply convert to Unknown nodes.
func (p *Parser) Parse(ctx context.Context, filename string, source []byte) (*ast.Program, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(javascript.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("tree-sitter failed to parse %s: %w", filename, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		p.logger.Warn("Syntax errors in input; analysis may be incomplete", zap.String("file", filename))
	}

	converted := convert(root, source)
	program, ok := converted.(*ast.Program)
	if !ok {
		return nil, fmt.Errorf("unexpected root node kind %q in %s", root.Type(), filename)
	}
	return program, nil
}

// convert maps a single Tree-sitter node into the engine's model. Returns
// nil for nodes that carry no structure (comments, punctuation).
func convert(node *sitter.Node, source []byte) ast.Node {
	if node == nil || node.IsNull() {
		return nil
	}

	loc := nodeLoc(node)

	switch node.Type() {
	case "program":
		return &ast.Program{Loc: loc, Body: convertNamedChildren(node, source)}

	case "expression_statement":
		return &ast.ExpressionStatement{Loc: loc, Expression: convert(node.NamedChild(0), source)}

	case "lexical_declaration", "variable_declaration":
		decl := &ast.VariableDeclaration{Loc: loc}
		for i := 0; i < int(node.NamedChildCount()); i++ {
			child := node.NamedChild(i)
			if child.Type() != "variable_declarator" {
				continue
			}
			decl.Declarations = append(decl.Declarations, &ast.VariableDeclarator{
				Loc:  nodeLoc(child),
				ID:   convert(child.ChildByFieldName("name"), source),
				Init: convert(child.ChildByFieldName("value"), source),
			})
		}
		return decl

	case "identifier", "property_identifier", "shorthand_property_identifier":
		return &ast.Identifier{Loc: loc, Name: node.Content(source)}

	case "number":
		raw := node.Content(source)
		num, ok := parseNumber(raw)
		if !ok {
			return &ast.Unknown{Loc: loc, Kind: "number"}
		}
		return &ast.Literal{Loc: loc, Kind: ast.LiteralNumber, Num: num}

	case "string":
		raw := node.Content(source)
		return &ast.Literal{Loc: loc, Kind: ast.LiteralString, Str: strings.Trim(raw, "\"'`")}

	case "true":
		return &ast.Literal{Loc: loc, Kind: ast.LiteralBool, Bool: true}
	case "false":
		return &ast.Literal{Loc: loc, Kind: ast.LiteralBool, Bool: false}
	case "null", "undefined":
		return &ast.Literal{Loc: loc, Kind: ast.LiteralNull}

	case "array":
		arr := &ast.ArrayExpression{Loc: loc}
		for i := 0; i < int(node.NamedChildCount()); i++ {
			arr.Elements = append(arr.Elements, convert(node.NamedChild(i), source))
		}
		return arr

	case "binary_expression":
		return &ast.BinaryExpression{
			Loc:      loc,
			Operator: fieldContent(node, "operator", source),
			Left:     convert(node.ChildByFieldName("left"), source),
			Right:    convert(node.ChildByFieldName("right"), source),
		}

	case "assignment_expression":
		return &ast.AssignmentExpression{
			Loc:      loc,
			Operator: "=",
			Left:     convert(node.ChildByFieldName("left"), source),
			Right:    convert(node.ChildByFieldName("right"), source),
		}

	case "augmented_assignment_expression":
		return &ast.AssignmentExpression{
			Loc:      loc,
			Operator: fieldContent(node, "operator", source),
			Left:     convert(node.ChildByFieldName("left"), source),
			Right:    convert(node.ChildByFieldName("right"), source),
		}

	case "call_expression":
		call := &ast.CallExpression{
			Loc:    loc,
			Callee: convert(node.ChildByFieldName("function"), source),
		}
		if args := node.ChildByFieldName("arguments"); args != nil {
			for i := 0; i < int(args.NamedChildCount()); i++ {
				call.Arguments = append(call.Arguments, convert(args.NamedChild(i), source))
			}
		}
		return call

	case "member_expression":
		return &ast.MemberExpression{
			Loc:      loc,
			Object:   convert(node.ChildByFieldName("object"), source),
			Property: convert(node.ChildByFieldName("property"), source),
		}

	case "subscript_expression":
		return &ast.MemberExpression{
			Loc:      loc,
			Object:   convert(node.ChildByFieldName("object"), source),
			Property: convert(node.ChildByFieldName("index"), source),
			Computed: true,
		}

	case "function", "function_expression", "function_declaration":
		return &ast.FunctionExpression{Loc: loc, Body: convert(node.ChildByFieldName("body"), source)}

	case "arrow_function":
		return &ast.ArrowFunctionExpression{Loc: loc, Body: convert(node.ChildByFieldName("body"), source)}

	case "statement_block":
		return &ast.BlockStatement{Loc: loc, Body: convertNamedChildren(node, source)}

	case "return_statement":
		var arg ast.Node
		if node.NamedChildCount() > 0 {
			arg = convert(node.NamedChild(0), source)
		}
		return &ast.ReturnStatement{Loc: loc, Argument: arg}

	case "parenthesized_expression":
		// Parentheses are purely syntactic; the model never carries them, so
		// `(function(){...})()` and chained-map receivers stay uniform.
		return convert(node.NamedChild(0), source)

	case "comment":
		return nil

	default:
		return &ast.Unknown{Loc: loc, Kind: node.Type(), Children: convertNamedChildren(node, source)}
	}
}

func convertNamedChildren(node *sitter.Node, source []byte) []ast.Node {
	var out []ast.Node
	for i := 0; i < int(node.NamedChildCount()); i++ {
		if child := convert(node.NamedChild(i), source); child != nil {
			out = append(out, child)
		}
	}
	return out
}

func fieldContent(node *sitter.Node, field string, source []byte) string {
	f := node.ChildByFieldName(field)
	if f == nil {
		return ""
	}
	return f.Content(source)
}

func nodeLoc(node *sitter.Node) ast.Loc {
	p := node.StartPoint()
	return ast.Loc{Line: int(p.Row) + 1, Column: int(p.Column)}
}

// parseNumber handles decimal and radix-prefixed (0x/0o/0b) JS numbers.
func parseNumber(raw string) (float64, bool) {
	raw = strings.TrimSuffix(raw, "n") // BigInt literals keep their digits
	if v, err := strconv.ParseFloat(raw, 64); err == nil {
		return v, true
	}
	if v, err := strconv.ParseInt(raw, 0, 64); err == nil {
		return float64(v), true
	}
	return 0, false
}

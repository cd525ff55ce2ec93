// Filename: parser/estree.go
package parser

import (
	"fmt"
	"sort"

	json "github.com/json-iterator/go"

	"github.com/xkilldash9x/charsift/internal/ast"
)

// LoadESTree decodes a pre-serialized ESTree JSON document (the format
// emitted by acorn/esprima style parsers) into the engine's node model.
// The document root must be a Program node.
func LoadESTree(data []byte) (*ast.Program, error) {
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode ESTree JSON: %w", err)
	}

	root, ok := doc.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("ESTree document root is not an object")
	}
	if typ, _ := root["type"].(string); typ != "Program" {
		return nil, fmt.Errorf("ESTree document root is %q, want Program", root["type"])
	}

	program, ok := convertESTree(root).(*ast.Program)
	if !ok {
		return nil, fmt.Errorf("ESTree Program failed to convert")
	}
	return program, nil
}

// convertESTree maps a decoded ESTree object into the closed node model.
// Non-object values and unmodeled node types become nil / Unknown the same
// way the Tree-sitter path handles them.
func convertESTree(v interface{}) ast.Node {
	m, ok := v.(map[string]interface{})
	if !ok {
		return nil
	}
	typ, _ := m["type"].(string)
	loc := estreeLoc(m)

	switch typ {
	case "Program":
		return &ast.Program{Loc: loc, Body: convertESTreeList(m["body"])}

	case "ExpressionStatement":
		return &ast.ExpressionStatement{Loc: loc, Expression: convertESTree(m["expression"])}

	case "VariableDeclaration":
		decl := &ast.VariableDeclaration{Loc: loc}
		if list, ok := m["declarations"].([]interface{}); ok {
			for _, d := range list {
				dm, ok := d.(map[string]interface{})
				if !ok {
					continue
				}
				decl.Declarations = append(decl.Declarations, &ast.VariableDeclarator{
					Loc:  estreeLoc(dm),
					ID:   convertESTree(dm["id"]),
					Init: convertESTree(dm["init"]),
				})
			}
		}
		return decl

	case "Identifier":
		name, _ := m["name"].(string)
		return &ast.Identifier{Loc: loc, Name: name}

	case "Literal":
		switch val := m["value"].(type) {
		case float64:
			return &ast.Literal{Loc: loc, Kind: ast.LiteralNumber, Num: val}
		case string:
			return &ast.Literal{Loc: loc, Kind: ast.LiteralString, Str: val}
		case bool:
			return &ast.Literal{Loc: loc, Kind: ast.LiteralBool, Bool: val}
		default:
			return &ast.Literal{Loc: loc, Kind: ast.LiteralNull}
		}

	case "ArrayExpression":
		arr := &ast.ArrayExpression{Loc: loc}
		if list, ok := m["elements"].([]interface{}); ok {
			for _, el := range list {
				// Elisions serialize as null; keep them as nil elements.
				arr.Elements = append(arr.Elements, convertESTree(el))
			}
		}
		return arr

	case "BinaryExpression", "LogicalExpression":
		op, _ := m["operator"].(string)
		return &ast.BinaryExpression{
			Loc:      loc,
			Operator: op,
			Left:     convertESTree(m["left"]),
			Right:    convertESTree(m["right"]),
		}

	case "AssignmentExpression":
		op, _ := m["operator"].(string)
		return &ast.AssignmentExpression{
			Loc:      loc,
			Operator: op,
			Left:     convertESTree(m["left"]),
			Right:    convertESTree(m["right"]),
		}

	case "CallExpression", "NewExpression":
		return &ast.CallExpression{
			Loc:       loc,
			Callee:    convertESTree(m["callee"]),
			Arguments: convertESTreeList(m["arguments"]),
		}

	case "MemberExpression":
		computed, _ := m["computed"].(bool)
		return &ast.MemberExpression{
			Loc:      loc,
			Object:   convertESTree(m["object"]),
			Property: convertESTree(m["property"]),
			Computed: computed,
		}

	case "FunctionExpression", "FunctionDeclaration":
		return &ast.FunctionExpression{Loc: loc, Body: convertESTree(m["body"])}

	case "ArrowFunctionExpression":
		return &ast.ArrowFunctionExpression{Loc: loc, Body: convertESTree(m["body"])}

	case "BlockStatement":
		return &ast.BlockStatement{Loc: loc, Body: convertESTreeList(m["body"])}

	case "ReturnStatement":
		return &ast.ReturnStatement{Loc: loc, Argument: convertESTree(m["argument"])}

	case "ParenthesizedExpression":
		return convertESTree(m["expression"])

	case "":
		return nil

	default:
		return &ast.Unknown{Loc: loc, Kind: typ, Children: convertESTreeChildren(m)}
	}
}

func convertESTreeList(v interface{}) []ast.Node {
	list, ok := v.([]interface{})
	if !ok {
		return nil
	}
	var out []ast.Node
	for _, el := range list {
		if node := convertESTree(el); node != nil {
			out = append(out, node)
		}
	}
	return out
}

// convertESTreeChildren sweeps every object/array-valued property of an
// unmodeled node so nested decode idioms remain reachable. Keys are visited
// in sorted order to keep walks (and fold order) deterministic.
func convertESTreeChildren(m map[string]interface{}) []ast.Node {
	keys := make([]string, 0, len(m))
	for key := range m {
		if key == "loc" || key == "range" {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var out []ast.Node
	for _, key := range keys {
		switch val := m[key].(type) {
		case map[string]interface{}:
			if node := convertESTree(val); node != nil {
				out = append(out, node)
			}
		case []interface{}:
			out = append(out, convertESTreeList(val)...)
		}
	}
	return out
}

func estreeLoc(m map[string]interface{}) ast.Loc {
	locObj, ok := m["loc"].(map[string]interface{})
	if !ok {
		return ast.Loc{}
	}
	start, ok := locObj["start"].(map[string]interface{})
	if !ok {
		return ast.Loc{}
	}
	line, _ := start["line"].(float64)
	col, _ := start["column"].(float64)
	return ast.Loc{Line: int(line), Column: int(col)}
}

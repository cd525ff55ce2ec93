// Filename: ast/walk.go
package ast

import "errors"

// MaxWalkDepth bounds recursion so a pathological or adversarial input that
// violates the tree invariant fails closed instead of looping forever.
const MaxWalkDepth = 1024

// ErrDepthExceeded is returned when a walk descends past MaxWalkDepth. A
// conforming tree never triggers it; callers should treat it as a
// structurally invalid input.
var ErrDepthExceeded = errors.New("ast: maximum walk depth exceeded")

// Visitor receives every node reachable from the walk root together with its
// immediate parent (nil for the root itself).
type Visitor func(node, parent Node)

// Walk traverses the tree rooted at root in pre-order, invoking visit for
// each node before its children. Nil children (absent optional fields,
// array elisions) are skipped without error. Returns ErrDepthExceeded if the
// tree is deeper than MaxWalkDepth.
func Walk(root Node, visit Visitor) error {
	return walk(root, nil, visit, 0)
}

func walk(node, parent Node, visit Visitor, depth int) error {
	if node == nil {
		return nil
	}
	if depth > MaxWalkDepth {
		return ErrDepthExceeded
	}

	visit(node, parent)

	children := Children(node)
	for _, child := range children {
		if child == nil {
			continue
		}
		if err := walk(child, node, visit, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// Children returns the immediate child nodes of n in source order. Nil
// entries are preserved for positional children (array elisions) so callers
// can skip them explicitly.
func Children(n Node) []Node {
	switch t := n.(type) {
	case *Program:
		return t.Body
	case *VariableDeclaration:
		out := make([]Node, len(t.Declarations))
		for i, d := range t.Declarations {
			out[i] = d
		}
		return out
	case *VariableDeclarator:
		return []Node{t.ID, t.Init}
	case *ArrayExpression:
		return t.Elements
	case *BinaryExpression:
		return []Node{t.Left, t.Right}
	case *AssignmentExpression:
		return []Node{t.Left, t.Right}
	case *CallExpression:
		out := make([]Node, 0, len(t.Arguments)+1)
		out = append(out, t.Callee)
		out = append(out, t.Arguments...)
		return out
	case *MemberExpression:
		return []Node{t.Object, t.Property}
	case *FunctionExpression:
		return []Node{t.Body}
	case *ArrowFunctionExpression:
		return []Node{t.Body}
	case *BlockStatement:
		return t.Body
	case *ReturnStatement:
		return []Node{t.Argument}
	case *ExpressionStatement:
		return []Node{t.Expression}
	case *Unknown:
		return t.Children
	case *Identifier, *Literal:
		return nil
	}
	return nil
}

package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalkPreOrder(t *testing.T) {
	// var a = [1] + [2];
	tree := &Program{Body: []Node{
		&VariableDeclaration{Declarations: []*VariableDeclarator{{
			ID: &Identifier{Name: "a"},
			Init: &BinaryExpression{
				Operator: "+",
				Left:     &ArrayExpression{Elements: []Node{&Literal{Kind: LiteralNumber, Num: 1}}},
				Right:    &ArrayExpression{Elements: []Node{&Literal{Kind: LiteralNumber, Num: 2}}},
			},
		}}},
	}}

	var order []string
	err := Walk(tree, func(node, parent Node) {
		switch n := node.(type) {
		case *Program:
			order = append(order, "program")
			assert.Nil(t, parent)
		case *VariableDeclaration:
			order = append(order, "decl")
		case *VariableDeclarator:
			order = append(order, "declarator")
		case *Identifier:
			order = append(order, "id:"+n.Name)
		case *BinaryExpression:
			order = append(order, "bin:"+n.Operator)
		case *ArrayExpression:
			order = append(order, "array")
		case *Literal:
			order = append(order, "lit")
		}
	})
	require.NoError(t, err)

	expected := []string{"program", "decl", "declarator", "id:a", "bin:+", "array", "lit", "array", "lit"}
	assert.Equal(t, expected, order, "pre-order: node before children, children in source order")
}

func TestWalkSkipsNilChildren(t *testing.T) {
	tree := &Program{Body: []Node{
		// let x; -- declarator without initializer
		&VariableDeclaration{Declarations: []*VariableDeclarator{{
			ID: &Identifier{Name: "x"},
		}}},
		// [1, , 3] -- array elision
		&ExpressionStatement{Expression: &ArrayExpression{Elements: []Node{
			&Literal{Kind: LiteralNumber, Num: 1},
			nil,
			&Literal{Kind: LiteralNumber, Num: 3},
		}}},
	}}

	count := 0
	err := Walk(tree, func(node, parent Node) {
		require.NotNil(t, node, "visitor must never see a nil node")
		count++
	})
	require.NoError(t, err)
	assert.Equal(t, 8, count)
}

func TestWalkParentTracking(t *testing.T) {
	inner := &Literal{Kind: LiteralNumber, Num: 42}
	call := &CallExpression{
		Callee:    &Identifier{Name: "f"},
		Arguments: []Node{inner},
	}
	tree := &Program{Body: []Node{&ExpressionStatement{Expression: call}}}

	var parentOfInner Node
	err := Walk(tree, func(node, parent Node) {
		if node == Node(inner) {
			parentOfInner = parent
		}
	})
	require.NoError(t, err)
	assert.Same(t, Node(call), parentOfInner)
}

func TestWalkDepthCap(t *testing.T) {
	// Build a chain deeper than the cap. The walk must fail closed, not hang.
	var node Node = &Literal{Kind: LiteralNumber, Num: 0}
	for i := 0; i < MaxWalkDepth+10; i++ {
		node = &ExpressionStatement{Expression: node}
	}
	tree := &Program{Body: []Node{node}}

	err := Walk(tree, func(node, parent Node) {})
	require.ErrorIs(t, err, ErrDepthExceeded)
}

func TestWalkNilRoot(t *testing.T) {
	require.NoError(t, Walk(nil, func(node, parent Node) {
		t.Fatal("visitor must not be invoked for a nil root")
	}))
}

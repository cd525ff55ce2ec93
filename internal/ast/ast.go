// Filename: ast/ast.go
// Closed node model for the small slice of JavaScript the charcode engine
// understands. Parsers (tree-sitter, ESTree JSON) normalize into these types
// so every consumer can switch exhaustively instead of poking at dynamic
// fields.
package ast

// Loc is an optional source position carried for diagnostics only. It is
// never semantically significant.
type Loc struct {
	Line   int
	Column int
}

// IsZero reports whether the location was never populated.
func (l Loc) IsZero() bool {
	return l.Line == 0 && l.Column == 0
}

// Node is the closed variant over the structural kinds the engine needs.
// Trees are strictly parent-to-child owned and never mutated by a walk.
type Node interface {
	Pos() Loc
	isNode()
}

// LiteralKind tags the payload of a Literal node.
type LiteralKind int

const (
	LiteralNumber LiteralKind = iota
	LiteralString
	LiteralBool
	LiteralNull
)

// Program is the tree root.
type Program struct {
	Loc  Loc
	Body []Node
}

// VariableDeclaration groups one or more declarators (var/let/const).
type VariableDeclaration struct {
	Loc          Loc
	Declarations []*VariableDeclarator
}

// VariableDeclarator is a single named binding with an optional initializer.
type VariableDeclarator struct {
	Loc  Loc
	ID   Node // usually *Identifier; destructuring patterns land here as Unknown
	Init Node // nil for `let x;`
}

// Identifier is a simple name reference.
type Identifier struct {
	Loc  Loc
	Name string
}

// Literal is a primitive literal. Num is valid for LiteralNumber, Str for
// LiteralString, Bool for LiteralBool.
type Literal struct {
	Loc  Loc
	Kind LiteralKind
	Num  float64
	Str  string
	Bool bool
}

// ArrayExpression is an ordered element sequence. Elisions appear as nil
// elements and disqualify numeric resolution.
type ArrayExpression struct {
	Loc      Loc
	Elements []Node
}

// BinaryExpression is `left <op> right` with the operator kept as source text.
type BinaryExpression struct {
	Loc      Loc
	Operator string
	Left     Node
	Right    Node
}

// AssignmentExpression covers both plain `=` and compound operators such as
// `>>=` and `^=`.
type AssignmentExpression struct {
	Loc      Loc
	Operator string
	Left     Node
	Right    Node
}

// CallExpression is `callee(args...)`.
type CallExpression struct {
	Loc       Loc
	Callee    Node
	Arguments []Node
}

// MemberExpression is `object.property` or `object[property]` (Computed).
type MemberExpression struct {
	Loc      Loc
	Object   Node
	Property Node
	Computed bool
}

// FunctionExpression is an inline `function (...) { ... }`.
type FunctionExpression struct {
	Loc  Loc
	Body Node // *BlockStatement
}

// ArrowFunctionExpression is `(...) => body`. Body is either a
// *BlockStatement or a bare expression.
type ArrowFunctionExpression struct {
	Loc  Loc
	Body Node
}

// BlockStatement is an ordered statement sequence.
type BlockStatement struct {
	Loc  Loc
	Body []Node
}

// ReturnStatement carries an optional argument.
type ReturnStatement struct {
	Loc      Loc
	Argument Node
}

// ExpressionStatement wraps a bare expression used as a statement.
type ExpressionStatement struct {
	Loc        Loc
	Expression Node
}

// Unknown preserves traversal into constructs the engine does not model
// (loops, classes, try/catch, ...). Its converted children remain reachable
// so decode idioms nested inside them are still found.
type Unknown struct {
	Loc      Loc
	Kind     string // original node type, diagnostics only
	Children []Node
}

func (n *Program) Pos() Loc                 { return n.Loc }
func (n *VariableDeclaration) Pos() Loc     { return n.Loc }
func (n *VariableDeclarator) Pos() Loc      { return n.Loc }
func (n *Identifier) Pos() Loc              { return n.Loc }
func (n *Literal) Pos() Loc                 { return n.Loc }
func (n *ArrayExpression) Pos() Loc         { return n.Loc }
func (n *BinaryExpression) Pos() Loc        { return n.Loc }
func (n *AssignmentExpression) Pos() Loc    { return n.Loc }
func (n *CallExpression) Pos() Loc          { return n.Loc }
func (n *MemberExpression) Pos() Loc        { return n.Loc }
func (n *FunctionExpression) Pos() Loc      { return n.Loc }
func (n *ArrowFunctionExpression) Pos() Loc { return n.Loc }
func (n *BlockStatement) Pos() Loc          { return n.Loc }
func (n *ReturnStatement) Pos() Loc         { return n.Loc }
func (n *ExpressionStatement) Pos() Loc     { return n.Loc }
func (n *Unknown) Pos() Loc                 { return n.Loc }

func (*Program) isNode()                 {}
func (*VariableDeclaration) isNode()     {}
func (*VariableDeclarator) isNode()      {}
func (*Identifier) isNode()              {}
func (*Literal) isNode()                 {}
func (*ArrayExpression) isNode()         {}
func (*BinaryExpression) isNode()        {}
func (*AssignmentExpression) isNode()    {}
func (*CallExpression) isNode()          {}
func (*MemberExpression) isNode()        {}
func (*FunctionExpression) isNode()      {}
func (*ArrowFunctionExpression) isNode() {}
func (*BlockStatement) isNode()          {}
func (*ReturnStatement) isNode()         {}
func (*ExpressionStatement) isNode()     {}
func (*Unknown) isNode()                 {}

// NumberValue extracts the numeric payload of a node if it is a number
// literal.
func NumberValue(n Node) (float64, bool) {
	lit, ok := n.(*Literal)
	if !ok || lit.Kind != LiteralNumber {
		return 0, false
	}
	return lit.Num, true
}

// IsFunction reports whether n is an inline function of either flavor.
func IsFunction(n Node) bool {
	switch n.(type) {
	case *FunctionExpression, *ArrowFunctionExpression:
		return true
	}
	return false
}

// FunctionBody returns the body node of an inline function, or nil.
func FunctionBody(n Node) Node {
	switch fn := n.(type) {
	case *FunctionExpression:
		return fn.Body
	case *ArrowFunctionExpression:
		return fn.Body
	}
	return nil
}

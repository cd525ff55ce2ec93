// Filename: charcode/index.go
package charcode

import (
	"github.com/xkilldash9x/charsift/internal/ast"
)

// declIndex maps a declared identifier name to its initializer expression.
// Built by a single walk and immutable afterward. On repeated declaration of
// the same name the later one overwrites: lexical scope resolution is a
// documented non-feature, so a name collision across scopes is explicitly
// unsupported rather than silently guessed.
type declIndex map[string]ast.Node

// buildDeclIndex collects every named binding with a simple-identifier name
// and a non-nil initializer. The returned slice preserves first-seen source
// order of the names, which keeps downstream reporting stable.
func buildDeclIndex(root ast.Node) (declIndex, []string, error) {
	index := make(declIndex)
	var order []string

	err := ast.Walk(root, func(node, parent ast.Node) {
		decl, ok := node.(*ast.VariableDeclarator)
		if !ok || decl.Init == nil {
			return
		}
		id, ok := decl.ID.(*ast.Identifier)
		if !ok {
			return
		}
		if _, seen := index[id.Name]; !seen {
			order = append(order, id.Name)
		}
		index[id.Name] = decl.Init
	})
	if err != nil {
		return nil, nil, err
	}
	return index, order, nil
}

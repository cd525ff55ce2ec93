package charcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/charsift/internal/ast"
)

func TestAnalyzeNilTree(t *testing.T) {
	a := NewAnalyzer(zapNop())
	result, err := a.Analyze(nil)
	require.ErrorIs(t, err, ErrNoTree)
	assert.Nil(t, result)
}

func TestAnalyzeDepthCap(t *testing.T) {
	node := ast.Node(num(1))
	for i := 0; i < ast.MaxWalkDepth+1; i++ {
		node = bin("+", node, num(1))
	}
	tree := &ast.Program{Body: []ast.Node{&ast.ExpressionStatement{Expression: node}}}

	a := NewAnalyzer(zapNop())
	result, err := a.Analyze(tree)
	require.ErrorIs(t, err, ast.ErrDepthExceeded)
	assert.Nil(t, result)
}

// Right-shift over an inline array literal, the simplest end-to-end case.
func TestAnalyzeShiftScenario(t *testing.T) {
	tree := &ast.Program{Body: []ast.Node{
		&ast.ExpressionStatement{
			Expression: mapSink(arr(1856, 1824, 1776, 1728, 1776, 1728, 1776), ">>", num(4)),
		},
	}}

	a := NewAnalyzer(zapNop())
	result, err := a.Analyze(tree)
	require.NoError(t, err)
	require.Len(t, result.Sites, 1)

	site := result.Sites[0]
	assert.Equal(t, StatusDecoded, site.Status)
	assert.Equal(t, "trololo", site.Decoded)
	assert.Empty(t, site.Failures)
	assert.Empty(t, site.KeyName)
	assert.Equal(t, "4", site.Key.String())
	assert.Equal(t, []int64{1856, 1824, 1776, 1728, 1776, 1728, 1776}, site.Values)
}

// Xor against a key assembled by array-concat tricks and folded down by a
// compound shift, with the data array reached through an identifier.
func TestAnalyzeXorScenario(t *testing.T) {
	plaintext := "g00d_j0b_easy_deobfuscation"
	const key = 65353615

	data := make([]float64, len(plaintext))
	for i, r := range plaintext {
		data[i] = float64(int64(r) ^ key)
	}

	tree := &ast.Program{Body: []ast.Node{
		declare("k", concatChain(10, 45, 65, 78, 47)),
		assign(">>=", "k", num(4)),
		declare("data", arr(data...)),
		&ast.ExpressionStatement{Expression: mapSink(ident("data"), "^", ident("k"))},
	}}

	a := NewAnalyzer(zapNop())
	result, err := a.Analyze(tree)
	require.NoError(t, err)

	rec := result.Keys["k"]
	require.NotNil(t, rec)
	assert.Equal(t, "65353615", rec.Num.String())

	require.Len(t, result.Sites, 1)
	site := result.Sites[0]
	assert.Equal(t, StatusDecoded, site.Status)
	assert.Equal(t, "k", site.KeyName)
	assert.Equal(t, plaintext, site.Decoded)
	assert.Empty(t, site.Failures)
}

func TestAnalyzeStatusTaxonomy(t *testing.T) {
	tests := []struct {
		name string
		tree *ast.Program
		want SiteStatus
	}{
		{
			"no transform",
			&ast.Program{Body: []ast.Node{
				&ast.ExpressionStatement{Expression: mapSink(arr(104, 105), "", nil)},
			}},
			StatusNoTransform,
		},
		{
			"unresolved array",
			&ast.Program{Body: []ast.Node{
				&ast.ExpressionStatement{Expression: mapSink(ident("ghost"), ">>", num(4))},
			}},
			StatusUnresolvedArray,
		},
		{
			"unsupported transform",
			&ast.Program{Body: []ast.Node{
				&ast.ExpressionStatement{Expression: mapSink(arr(104, 105), "&", num(0xFF))},
			}},
			StatusUnsupportedTransform,
		},
		{
			"unresolved key identifier",
			&ast.Program{Body: []ast.Node{
				&ast.ExpressionStatement{Expression: mapSink(arr(104, 105), "^", ident("ghost"))},
			}},
			StatusUnresolvedKey,
		},
		{
			"key never folded past concat",
			&ast.Program{Body: []ast.Node{
				declare("k", concatChain(10, 45)),
				&ast.ExpressionStatement{Expression: mapSink(arr(104, 105), "^", ident("k"))},
			}},
			StatusUnresolvedKey,
		},
		{
			"fractional literal operand",
			&ast.Program{Body: []ast.Node{
				&ast.ExpressionStatement{Expression: mapSink(arr(104, 105), ">>", num(1.5))},
			}},
			StatusUnresolvedKey,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAnalyzer(zapNop())
			result, err := a.Analyze(tt.tree)
			require.NoError(t, err)
			require.Len(t, result.Sites, 1)
			assert.Equal(t, tt.want, result.Sites[0].Status)
			assert.Empty(t, result.Sites[0].Decoded)
		})
	}
}

func TestAnalyzeNoTransformPrecedesUnresolvedArray(t *testing.T) {
	// Both the transform and the array are missing; the transform wins.
	tree := &ast.Program{Body: []ast.Node{
		&ast.ExpressionStatement{Expression: mapSink(ident("ghost"), "", nil)},
	}}

	a := NewAnalyzer(zapNop())
	result, err := a.Analyze(tree)
	require.NoError(t, err)
	require.Len(t, result.Sites, 1)
	assert.Equal(t, StatusNoTransform, result.Sites[0].Status)
}

func TestAnalyzeDecodedWithFailuresStaysDecoded(t *testing.T) {
	// One surrogate element fails; the site status is still decoded and the
	// failure travels alongside the partial string.
	tree := &ast.Program{Body: []ast.Node{
		&ast.ExpressionStatement{Expression: mapSink(arr(104, 0xD800, 105), "^", num(0))},
	}}

	a := NewAnalyzer(zapNop())
	result, err := a.Analyze(tree)
	require.NoError(t, err)
	require.Len(t, result.Sites, 1)

	site := result.Sites[0]
	assert.Equal(t, StatusDecoded, site.Status)
	assert.Equal(t, "hi", site.Decoded)
	require.Len(t, site.Failures, 1)
	assert.Equal(t, 1, site.Failures[0].Index)
}

func TestAnalyzeArrayInventory(t *testing.T) {
	tree := &ast.Program{Body: []ast.Node{
		declare("a", arr(1, 2, 3)),
		declare("b", arr(1, 2, 3, 4, 5, 6, 7, 8, 9, 10)),
		declare("c", &ast.ArrayExpression{Elements: []ast.Node{str("x")}}),
	}}

	a := NewAnalyzer(zapNop(), WithSampleSize(4))
	result, err := a.Analyze(tree)
	require.NoError(t, err)

	require.Len(t, result.Arrays, 2, "mixed-type arrays are not inventoried")
	assert.Equal(t, 0, result.Arrays[0].Index)
	assert.Equal(t, 3, result.Arrays[0].Length)
	assert.Equal(t, []int64{1, 2, 3}, result.Arrays[0].Sample)
	assert.Equal(t, 10, result.Arrays[1].Length)
	assert.Equal(t, []int64{1, 2, 3, 4}, result.Arrays[1].Sample, "sample truncates to the configured size")
}

func TestAnalyzeLastDeclarationWins(t *testing.T) {
	tree := &ast.Program{Body: []ast.Node{
		declare("data", arr(1, 2)),
		declare("data", arr(1856, 1824, 1776, 1728, 1776, 1728, 1776)),
		&ast.ExpressionStatement{Expression: mapSink(ident("data"), ">>", num(4))},
	}}

	a := NewAnalyzer(zapNop())
	result, err := a.Analyze(tree)
	require.NoError(t, err)
	require.Len(t, result.Sites, 1)
	assert.Equal(t, "trololo", result.Sites[0].Decoded)
}

func TestAnalyzeMultipleSitesIndependent(t *testing.T) {
	tree := &ast.Program{Body: []ast.Node{
		&ast.ExpressionStatement{Expression: mapSink(arr(1856, 1824, 1776, 1728, 1776, 1728, 1776), ">>", num(4))},
		&ast.ExpressionStatement{Expression: mapSink(ident("ghost"), ">>", num(4))},
	}}

	a := NewAnalyzer(zapNop())
	result, err := a.Analyze(tree)
	require.NoError(t, err)
	require.Len(t, result.Sites, 2)
	assert.Equal(t, StatusDecoded, result.Sites[0].Status)
	assert.Equal(t, StatusUnresolvedArray, result.Sites[1].Status)
}

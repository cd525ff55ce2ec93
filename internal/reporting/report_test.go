package reporting

import (
	"math/big"
	"os"
	"path/filepath"
	"testing"

	json "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/charsift/api/schemas"
	"github.com/xkilldash9x/charsift/internal/analysis/charcode"
	"github.com/xkilldash9x/charsift/internal/ast"
)

func sampleResult() *charcode.Result {
	return &charcode.Result{
		Keys: map[string]*charcode.KeyRecord{
			"k": {
				Name: "k",
				Kind: charcode.KeyNumeric,
				Num:  big.NewInt(65353615),
				Provenance: &charcode.Provenance{
					Origin:   "1045657847",
					Operator: ">>=",
					Operand:  4,
				},
			},
		},
		KeyOrder: []string{"k"},
		Arrays: []charcode.ArrayInfo{
			{Index: 0, Loc: ast.Loc{Line: 3, Column: 11}, Length: 7, Sample: []int64{1856, 1824}},
		},
		Sites: []charcode.SiteResult{
			{
				Site: charcode.Site{
					Loc:      ast.Loc{Line: 4, Column: 0},
					Operator: ">>",
					Operand:  &ast.Literal{Kind: ast.LiteralNumber, Num: 4},
				},
				Status:  charcode.StatusDecoded,
				Values:  []int64{1856, 1824, 1776, 1728, 1776, 1728, 1776},
				Key:     big.NewInt(4),
				Decoded: "trololo",
			},
		},
	}
}

func TestBuildReport(t *testing.T) {
	report := BuildReport("sample.js", sampleResult(), false)

	assert.Equal(t, "sample.js", report.File)
	assert.False(t, report.GeneratedAt.IsZero())

	require.Len(t, report.Keys, 1)
	key := report.Keys[0]
	assert.Equal(t, "k", key.Name)
	assert.Equal(t, "numeric", key.Kind)
	assert.Equal(t, "65353615", key.Value)
	require.NotNil(t, key.Provenance)
	assert.Equal(t, "1045657847", key.Provenance.Origin)

	require.Len(t, report.Arrays, 1)
	assert.Equal(t, "3:11", report.Arrays[0].Location)

	require.Len(t, report.Sites, 1)
	site := report.Sites[0]
	assert.Equal(t, "4:0", site.Location)
	assert.Equal(t, ">>", site.Transform)
	assert.Equal(t, "literal 4", site.Operand)
	assert.Equal(t, schemas.StatusDecoded, site.Status)
	assert.Equal(t, "trololo", site.Decoded)
	assert.Empty(t, site.Trace, "trace is opt-in")
}

func TestBuildReportTrace(t *testing.T) {
	report := BuildReport("sample.js", sampleResult(), true)

	require.Len(t, report.Sites, 1)
	trace := report.Sites[0].Trace
	require.Len(t, trace, 7)
	assert.Equal(t, int64(1856), trace[0].Original)
	assert.Equal(t, int64(116), trace[0].Transformed)
	assert.Equal(t, "t", trace[0].Char)
	assert.Equal(t, "11101000000", trace[0].BitsValue)
	assert.Equal(t, "100", trace[0].BitsKey)
	assert.Equal(t, "1110100", trace[0].BitsResult)
}

func TestBuildReportTraceSkipsUndecodedSites(t *testing.T) {
	result := &charcode.Result{
		Keys: map[string]*charcode.KeyRecord{},
		Sites: []charcode.SiteResult{
			{
				Site:   charcode.Site{Operator: ">>", Operand: &ast.Identifier{Name: "ghost"}},
				Status: charcode.StatusUnresolvedKey,
			},
		},
	}

	report := BuildReport("sample.js", result, true)
	require.Len(t, report.Sites, 1)
	assert.Empty(t, report.Sites[0].Trace)
}

func TestDescribeOperand(t *testing.T) {
	tests := []struct {
		name string
		site charcode.SiteResult
		want string
	}{
		{
			"inferred key identifier",
			charcode.SiteResult{KeyName: "k", Key: big.NewInt(65353615)},
			"identifier k",
		},
		{
			"resolved literal",
			charcode.SiteResult{Key: big.NewInt(4)},
			"literal 4",
		},
		{
			"unresolved literal falls back to the node",
			charcode.SiteResult{Site: charcode.Site{Operand: &ast.Literal{Kind: ast.LiteralNumber, Num: 1.5}}},
			"literal 1.5",
		},
		{
			"no operand",
			charcode.SiteResult{},
			"",
		},
		{
			"complex operand",
			charcode.SiteResult{Site: charcode.Site{Operand: &ast.BinaryExpression{Operator: "+"}}},
			"expression",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, describeOperand(tt.site))
		})
	}
}

func TestJSONReporter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	reporter, err := New("json", path)
	require.NoError(t, err)

	require.NoError(t, reporter.Write(BuildReport("sample.js", sampleResult(), false)))
	require.NoError(t, reporter.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded schemas.Report
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "sample.js", decoded.File)
	require.Len(t, decoded.Sites, 1)
	assert.Equal(t, "trololo", decoded.Sites[0].Decoded)
	assert.Equal(t, schemas.StatusDecoded, decoded.Sites[0].Status)
}

func TestTextReporter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.txt")
	reporter, err := New("text", path)
	require.NoError(t, err)

	require.NoError(t, reporter.Write(BuildReport("sample.js", sampleResult(), false)))
	require.NoError(t, reporter.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)

	assert.Contains(t, text, "== sample.js ==")
	assert.Contains(t, text, "Inferred keys (1):")
	assert.Contains(t, text, "65353615")
	assert.Contains(t, text, `decoded: "trololo"`)
	assert.Contains(t, text, `transform ">>" literal 4`)
}

func TestTextReporterUndecodedStatus(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.txt")
	reporter, err := New("text", path)
	require.NoError(t, err)

	result := &charcode.Result{Sites: []charcode.SiteResult{
		{Site: charcode.Site{Operator: "^", Operand: &ast.Identifier{Name: "ghost"}}, Status: charcode.StatusUnresolvedKey, KeyName: "ghost"},
	}}
	require.NoError(t, reporter.Write(BuildReport("sample.js", result, false)))
	require.NoError(t, reporter.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "key identifier has no inferred numeric value")
}

func TestNewReporterRejectsUnknownFormat(t *testing.T) {
	reporter, err := New("xml", "")
	require.Error(t, err)
	assert.Nil(t, reporter)
}

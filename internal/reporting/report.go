// Filename: reporting/report.go
package reporting

import (
	"fmt"
	"strconv"
	"time"

	"github.com/xkilldash9x/charsift/api/schemas"
	"github.com/xkilldash9x/charsift/internal/analysis/charcode"
	"github.com/xkilldash9x/charsift/internal/ast"
)

// BuildReport converts an engine result into the wire shape the reporters
// emit. When trace is set, decoded sites carry the per-character verbose
// trace (original value, transformed value, character, binary forms).
func BuildReport(file string, result *charcode.Result, trace bool) *schemas.Report {
	report := &schemas.Report{
		File:        file,
		GeneratedAt: time.Now().UTC(),
		Keys:        []schemas.KeyReport{},
		Arrays:      []schemas.ArrayReport{},
		Sites:       []schemas.SiteReport{},
	}

	for _, name := range result.KeyOrder {
		rec := result.Keys[name]
		kr := schemas.KeyReport{
			Name:  rec.Name,
			Kind:  rec.Kind.String(),
			Value: rec.Value(),
		}
		if rec.Provenance != nil {
			kr.Provenance = &schemas.Provenance{
				Origin:   rec.Provenance.Origin,
				Operator: rec.Provenance.Operator,
				Operand:  rec.Provenance.Operand,
			}
		}
		report.Keys = append(report.Keys, kr)
	}

	for _, arr := range result.Arrays {
		report.Arrays = append(report.Arrays, schemas.ArrayReport{
			Index:    arr.Index,
			Location: formatLoc(arr.Loc),
			Length:   arr.Length,
			Sample:   arr.Sample,
		})
	}

	for _, site := range result.Sites {
		sr := schemas.SiteReport{
			Location:  formatLoc(site.Site.Loc),
			Transform: site.Site.Operator,
			Operand:   describeOperand(site),
			Array:     site.Values,
			Status:    string(site.Status),
			Decoded:   site.Decoded,
		}
		if site.Key != nil {
			sr.Key = site.Key.String()
		}
		for _, f := range site.Failures {
			sr.Failures = append(sr.Failures, schemas.ElementFailure{
				Index: f.Index, Value: f.Value, Result: f.Result,
			})
		}
		if trace && site.Status == charcode.StatusDecoded {
			sr.Trace = buildTrace(site)
		}
		report.Sites = append(report.Sites, sr)
	}

	return report
}

func buildTrace(site charcode.SiteResult) []schemas.TraceEntry {
	keyBits := ""
	if site.Key != nil {
		keyBits = site.Key.Text(2)
	}

	elements := charcode.TraceElements(site.Values, site.Site.Operator, site.Key)
	out := make([]schemas.TraceEntry, 0, len(elements))
	for _, el := range elements {
		out = append(out, schemas.TraceEntry{
			Original:    el.Value,
			Transformed: el.Result,
			Char:        el.Char,
			BitsValue:   strconv.FormatInt(el.Value, 2),
			BitsKey:     keyBits,
			BitsResult:  strconv.FormatInt(el.Result, 2),
		})
	}
	return out
}

// describeOperand renders the transform's right-hand operand for humans:
// the identifier name when the key came from inference, otherwise the
// literal value.
func describeOperand(site charcode.SiteResult) string {
	if site.KeyName != "" {
		return "identifier " + site.KeyName
	}
	if site.Key != nil {
		return "literal " + site.Key.String()
	}
	if site.Site.Operand == nil {
		return ""
	}
	if num, ok := ast.NumberValue(site.Site.Operand); ok {
		return "literal " + strconv.FormatFloat(num, 'f', -1, 64)
	}
	return "expression"
}

func formatLoc(loc ast.Loc) string {
	if loc.IsZero() {
		return ""
	}
	return fmt.Sprintf("%d:%d", loc.Line, loc.Column)
}

// Filename: charcode/analyzer.go
// Entry point for the charcode recovery engine: a small number of full-tree
// walks (declaration index, key inference, array inventory, sink location)
// followed by pure per-site computation. The whole analysis is synchronous
// and the tree is read-only throughout.
package charcode

import (
	"errors"
	"math/big"

	"go.uber.org/zap"

	"github.com/xkilldash9x/charsift/internal/ast"
)

// ErrNoTree is returned when the analyzer is handed a nil root.
var ErrNoTree = errors.New("charcode: no tree to analyze")

// SiteStatus classifies the outcome of one decode site. Every failure mode
// is data; nothing in the engine panics or aborts the run for a
// malformed-but-structurally-valid tree.
type SiteStatus string

const (
	StatusDecoded              SiteStatus = "decoded"
	StatusNoTransform          SiteStatus = "no_transform"
	StatusUnresolvedArray      SiteStatus = "unresolved_array"
	StatusUnresolvedKey        SiteStatus = "unresolved_key"
	StatusUnsupportedTransform SiteStatus = "unsupported_transform"
)

// SiteResult is one decode site plus everything the run determined about it.
type SiteResult struct {
	Site     Site
	Status   SiteStatus
	Values   []int64  // resolved array values, nil when unresolved
	KeyName  string   // operand identifier name, "" for literal operands
	Key      *big.Int // resolved key, nil when unresolved
	Decoded  string
	Failures []ElementFailure
}

// ArrayInfo is one all-numeric array literal found anywhere in the tree,
// recorded for diagnostics independently of decode sites.
type ArrayInfo struct {
	Index  int
	Loc    ast.Loc
	Length int
	Sample []int64
}

// Result owns everything one analysis run produced. It is a plain return
// value; no ambient state survives the call.
type Result struct {
	Keys     map[string]*KeyRecord
	KeyOrder []string // declaration order, for stable reporting
	Arrays   []ArrayInfo
	Sites    []SiteResult
}

// Analyzer runs the recovery engine over one tree at a time.
type Analyzer struct {
	logger     *zap.Logger
	sampleSize int
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithSampleSize sets how many leading values the array inventory samples.
func WithSampleSize(n int) Option {
	return func(a *Analyzer) {
		if n > 0 {
			a.sampleSize = n
		}
	}
}

// NewAnalyzer creates an analyzer with a named component logger.
func NewAnalyzer(logger *zap.Logger, opts ...Option) *Analyzer {
	a := &Analyzer{
		logger:     logger.Named("charcode"),
		sampleSize: 8,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze runs the full pipeline over root. The only hard failure is a
// structurally invalid tree (nil root or depth-cap violation); it reports
// zero findings alongside the underlying error. Every softer failure is
// carried in the Result as a per-site status.
func (a *Analyzer) Analyze(root ast.Node) (*Result, error) {
	if root == nil {
		return nil, ErrNoTree
	}

	index, order, err := buildDeclIndex(root)
	if err != nil {
		return nil, err
	}

	keys, keyOrder := a.inferKeys(root, index, order)

	arrays, err := a.inventoryArrays(root)
	if err != nil {
		return nil, err
	}

	sites, err := locateSites(root)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Keys:     keys,
		KeyOrder: keyOrder,
		Arrays:   arrays,
	}
	for _, site := range sites {
		result.Sites = append(result.Sites, a.processSite(site, index, keys))
	}

	a.logger.Debug("Analysis complete",
		zap.Int("keys", len(result.Keys)),
		zap.Int("arrays", len(result.Arrays)),
		zap.Int("sites", len(result.Sites)),
	)
	return result, nil
}

// inferKeys seeds a record per indexed declaration, then folds compound
// assignments in the order one walk encounters them (source textual order --
// each fold depends on the previous value).
func (a *Analyzer) inferKeys(root ast.Node, index declIndex, order []string) (map[string]*KeyRecord, []string) {
	keys := make(map[string]*KeyRecord)
	var keyOrder []string

	for _, name := range order {
		if rec := seedKey(name, index[name]); rec != nil {
			keys[name] = rec
			keyOrder = append(keyOrder, name)
		}
	}

	// The index walk already vetted the tree depth, so this walk cannot fail.
	_ = ast.Walk(root, func(node, parent ast.Node) {
		assign, ok := node.(*ast.AssignmentExpression)
		if !ok || !foldOperators[assign.Operator] {
			return
		}
		target, ok := assign.Left.(*ast.Identifier)
		if !ok {
			return
		}
		operand, ok := integerValue(assign.Right)
		if !ok {
			return
		}
		rec := keys[target.Name]
		if rec == nil {
			// Not an identifier this engine tracks.
			return
		}
		if fold(rec, assign.Operator, operand) {
			a.logger.Debug("Folded key assignment",
				zap.String("name", target.Name),
				zap.String("operator", assign.Operator),
				zap.Int64("operand", operand),
				zap.String("value", rec.Value()),
			)
		}
	})

	return keys, keyOrder
}

// inventoryArrays records every all-numeric array literal in the tree with
// its location and a short leading sample.
func (a *Analyzer) inventoryArrays(root ast.Node) ([]ArrayInfo, error) {
	var arrays []ArrayInfo
	err := ast.Walk(root, func(node, parent ast.Node) {
		arr, ok := node.(*ast.ArrayExpression)
		if !ok {
			return
		}
		values, ok := numericElements(arr)
		if !ok {
			return
		}
		sample := values
		if len(sample) > a.sampleSize {
			sample = sample[:a.sampleSize]
		}
		arrays = append(arrays, ArrayInfo{
			Index:  len(arrays),
			Loc:    arr.Loc,
			Length: len(values),
			Sample: sample,
		})
	})
	if err != nil {
		return nil, err
	}
	return arrays, nil
}

// processSite resolves a site's array and key, then decodes if the transform
// has a known inverse. Statuses are checked from the outside in: no
// transform at all, then the array, then the operator, then the key.
func (a *Analyzer) processSite(site Site, index declIndex, keys map[string]*KeyRecord) SiteResult {
	result := SiteResult{Site: site}

	if values, ok := resolveArray(site.Receiver, index); ok {
		result.Values = values
	}

	if site.Operator == "" {
		result.Status = StatusNoTransform
		return result
	}
	if result.Values == nil {
		result.Status = StatusUnresolvedArray
		return result
	}
	if !decodableOperators[site.Operator] {
		result.Status = StatusUnsupportedTransform
		return result
	}

	key, keyName, ok := a.resolveKey(site.Operand, keys)
	result.KeyName = keyName
	if !ok {
		result.Status = StatusUnresolvedKey
		return result
	}
	result.Key = key

	result.Decoded, result.Failures = decode(result.Values, site.Operator, key)
	result.Status = StatusDecoded
	return result
}

// resolveKey turns a transform operand into a concrete key: a numeric
// literal directly, or an identifier via its inferred Numeric record. A
// record that stayed Concatenated (no fold ever ran) is distinct from "key
// computed but decode failed" and stays unresolved.
func (a *Analyzer) resolveKey(operand ast.Node, keys map[string]*KeyRecord) (*big.Int, string, bool) {
	switch op := operand.(type) {
	case *ast.Literal:
		if v, ok := integerValue(op); ok {
			return big.NewInt(v), "", true
		}
	case *ast.Identifier:
		rec := keys[op.Name]
		if rec != nil && rec.Kind == KeyNumeric {
			return rec.Num, op.Name, true
		}
		return nil, op.Name, false
	}
	return nil, "", false
}

// integerValue extracts an exact integer from a numeric literal node.
func integerValue(node ast.Node) (int64, bool) {
	num, ok := ast.NumberValue(node)
	if !ok {
		return 0, false
	}
	v := int64(num)
	if float64(v) != num {
		return 0, false
	}
	return v, true
}

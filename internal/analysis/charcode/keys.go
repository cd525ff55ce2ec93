// Filename: charcode/keys.go
// Key inference: symbolic evaluation of identifier initializers that build a
// key out of concatenated one-element numeric array literals, then folding of
// subsequent compound assignments against that running value.
package charcode

import (
	"math/big"
	"strconv"

	"github.com/xkilldash9x/charsift/internal/ast"
)

// KeyKind tags a KeyRecord's payload.
type KeyKind int

const (
	// KeyConcat is a string value assembled by `+` concatenation; it has not
	// been narrowed to a number yet.
	KeyConcat KeyKind = iota
	// KeyNumeric is a final integer value, ready for use as a decode key.
	KeyNumeric
)

func (k KeyKind) String() string {
	if k == KeyNumeric {
		return "numeric"
	}
	return "concat_string"
}

// Provenance records how a Numeric key was derived from its previous value.
type Provenance struct {
	Origin   string // value before the fold, as decimal text
	Operator string
	Operand  int64
}

// KeyRecord is the running symbolic value tracked for one identifier. It is
// mutated in place as compound assignments are folded in source order; the
// Numeric value is only meaningful once the whole walk has completed.
type KeyRecord struct {
	Name       string
	Kind       KeyKind
	Str        string   // valid for KeyConcat
	Num        *big.Int // valid for KeyNumeric
	Provenance *Provenance
}

// Value renders the record's current payload as text.
func (r *KeyRecord) Value() string {
	if r.Kind == KeyNumeric {
		return r.Num.String()
	}
	return r.Str
}

// concatValue is the intermediate result of evaluateConcat: either a number
// or a string, mirroring the host language's `+` coercion rules.
type concatValue struct {
	isNum bool
	num   float64
	str   string
}

func (v concatValue) text() string {
	if v.isNum {
		return formatJSNumber(v.num)
	}
	return v.str
}

// evaluateConcat symbolically evaluates the small initializer grammar of the
// obfuscation idiom. Failure is silent: anything outside the grammar simply
// produces no record.
//
//   - numeric literal          -> that number
//   - string literal           -> that string
//   - [n] (single numeric elem) -> the number's string form (array-to-string
//     coercion: no brackets, no separators)
//   - a + b                    -> string concatenation, numbers stringified
//     first; numeric addition is never performed here
func evaluateConcat(node ast.Node) (concatValue, bool) {
	switch n := node.(type) {
	case *ast.Literal:
		switch n.Kind {
		case ast.LiteralNumber:
			return concatValue{isNum: true, num: n.Num}, true
		case ast.LiteralString:
			return concatValue{str: n.Str}, true
		}
		return concatValue{}, false

	case *ast.ArrayExpression:
		if len(n.Elements) != 1 {
			return concatValue{}, false
		}
		num, ok := ast.NumberValue(n.Elements[0])
		if !ok {
			return concatValue{}, false
		}
		return concatValue{str: formatJSNumber(num)}, true

	case *ast.BinaryExpression:
		if n.Operator != "+" {
			return concatValue{}, false
		}
		left, ok := evaluateConcat(n.Left)
		if !ok {
			return concatValue{}, false
		}
		right, ok := evaluateConcat(n.Right)
		if !ok {
			return concatValue{}, false
		}
		return concatValue{str: left.text() + right.text()}, true
	}
	return concatValue{}, false
}

// seedKey produces the initial KeyRecord for a declaration, or nil if the
// initializer is outside the grammar.
func seedKey(name string, init ast.Node) *KeyRecord {
	val, ok := evaluateConcat(init)
	if !ok {
		return nil
	}
	if val.isNum {
		num, ok := bigFromFloat(val.num)
		if !ok {
			return nil
		}
		return &KeyRecord{Name: name, Kind: KeyNumeric, Num: num}
	}
	return &KeyRecord{Name: name, Kind: KeyConcat, Str: val.str}
}

// foldOperators is the compound-assignment set the fold pass understands.
var foldOperators = map[string]bool{">>=": true, "<<=": true, "^=": true}

// fold applies one compound assignment to the identifier's running record.
// All arithmetic runs at arbitrary precision: seed values are routinely
// ten-digit decimals that overflow native 32-bit bitwise range, and the
// narrowing to native width happens only at decode time. Returns false when
// the fold does not apply (no record, bad operand, unparseable string).
func fold(rec *KeyRecord, operator string, operand int64) bool {
	if rec == nil || !foldOperators[operator] {
		return false
	}

	var current *big.Int
	var origin string
	switch rec.Kind {
	case KeyConcat:
		parsed, ok := new(big.Int).SetString(rec.Str, 10)
		if !ok {
			return false
		}
		current = parsed
		origin = rec.Str
	case KeyNumeric:
		current = rec.Num
		origin = rec.Num.String()
	default:
		return false
	}

	result := new(big.Int)
	switch operator {
	case ">>=":
		if operand < 0 {
			return false
		}
		result.Rsh(current, uint(operand))
	case "<<=":
		if operand < 0 {
			return false
		}
		result.Lsh(current, uint(operand))
	case "^=":
		result.Xor(current, big.NewInt(operand))
	}

	rec.Kind = KeyNumeric
	rec.Num = result
	rec.Str = ""
	rec.Provenance = &Provenance{Origin: origin, Operator: operator, Operand: operand}
	return true
}

// formatJSNumber renders a float the way JS stringifies it: integers without
// a fractional part, everything else in shortest round-trip form.
func formatJSNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// bigFromFloat converts an integral float to a big.Int; non-integral values
// are rejected rather than silently truncated.
func bigFromFloat(v float64) (*big.Int, bool) {
	f := big.NewFloat(v)
	n, acc := f.Int(nil)
	if acc != big.Exact {
		return nil, false
	}
	return n, true
}

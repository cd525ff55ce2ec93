// Filename: charcode/decode.go
package charcode

import (
	"math/big"
	"strings"
	"unicode/utf16"
)

// decodableOperators is the subset of transforms with a known inverse.
// `>>`/`>>>` invert the idiom's "compress a large marker value down to a
// printable range" shape; `^` is self-inverse for any same-width key.
var decodableOperators = map[string]bool{">>": true, ">>>": true, "^": true}

// ElementFailure flags a single array element whose transform produced an
// invalid code point. The rest of the site still decodes.
type ElementFailure struct {
	Index  int
	Value  int64
	Result int64
}

// mask32 narrows an arbitrary-precision key to the 32-bit width the host
// language's bitwise operators use. big.Int bitwise ops treat operands as
// infinite two's complement, so negative keys narrow correctly too.
var low32 = big.NewInt(0xFFFFFFFF)

func mask32(key *big.Int) uint32 {
	return uint32(new(big.Int).And(key, low32).Uint64())
}

// decode applies the inverse transform to every element and concatenates the
// resulting characters. Keys are folded at arbitrary precision upstream and
// narrowed to native 32-bit width only here.
//
//   - `>>`/`>>>`: unsigned right shift, never sign-extending; the shift
//     count is masked to 5 bits as the host language does.
//   - `^`: 32-bit xor; the result is read back as a signed 32-bit value, so
//     a high-bit result is an invalid code point rather than a wrap-around.
//
// Invalid results (negative, beyond the code-point range, or a surrogate)
// are reported per element instead of aborting the whole decode.
func decode(values []int64, operator string, key *big.Int) (string, []ElementFailure) {
	var sb strings.Builder
	var failures []ElementFailure

	for i, v := range values {
		result, ok := transformElement(v, operator, key)
		if !ok {
			failures = append(failures, ElementFailure{Index: i, Value: v, Result: result})
			continue
		}
		sb.WriteRune(rune(result))
	}
	return sb.String(), failures
}

// transformElement computes the inverse transform for one element and
// validates the resulting code point.
func transformElement(v int64, operator string, key *big.Int) (int64, bool) {
	var result int64
	switch operator {
	case ">>", ">>>":
		shift := mask32(key) & 31
		result = int64(uint32(v) >> shift)
	case "^":
		// Signed 32-bit read-back mirrors the host language's `^`.
		result = int64(int32(uint32(v) ^ mask32(key)))
	default:
		return 0, false
	}
	return result, validCodePoint(result)
}

// TraceElement is one entry of the optional per-character verbose trace: a
// purely presentational view of how a single array element decoded.
type TraceElement struct {
	Value  int64
	Result int64
	Char   string // empty when the element failed
	OK     bool
}

// TraceElements recomputes the per-element transform for diagnostic
// rendering. The decode contract itself is unaffected by tracing.
func TraceElements(values []int64, operator string, key *big.Int) []TraceElement {
	out := make([]TraceElement, 0, len(values))
	for _, v := range values {
		result, ok := transformElement(v, operator, key)
		entry := TraceElement{Value: v, Result: result, OK: ok}
		if ok {
			entry.Char = string(rune(result))
		}
		out = append(out, entry)
	}
	return out
}

// validCodePoint accepts the full range 32-bit bitwise results can map into,
// astral-plane values included, rejecting only what no character can carry.
func validCodePoint(v int64) bool {
	if v < 0 || v > 0x10FFFF {
		return false
	}
	return !utf16.IsSurrogate(rune(v))
}

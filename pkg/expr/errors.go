package expr

import "errors"

// ErrUnsupportedChain marks expressions the chain extractor structurally
// cannot observe: non-constant index arguments, node kinds outside the
// member/index/convert set, or malformed access syntax. It is always
// surfaced as an error, never degraded to an absent result.
var ErrUnsupportedChain = errors.New("expr: unsupported chain")

package flow

import "github.com/zclconf/go-cty/cty"

// Result is the cached outcome of a node's last recomputation. It is a
// tagged union: either a data value or an error, never both. The zero
// Result carries neither and is not a valid cached state; nodes are created
// with an explicit not-connected error instead.
type Result struct {
	value cty.Value
	err   error
}

// DataResult wraps a successfully produced value.
func DataResult(v cty.Value) Result {
	return Result{value: v}
}

// ErrResult wraps a node-level failure.
func ErrResult(err error) Result {
	return Result{err: err}
}

// Value returns the data value and true if the result holds data.
func (r Result) Value() (cty.Value, bool) {
	if r.err != nil {
		return cty.NilVal, false
	}
	return r.value, true
}

// Err returns the error held by the result, or nil for a data result.
func (r Result) Err() error {
	return r.err
}

// Package numeric provides the built-in numeric processors.
package numeric

import (
	"context"
	"fmt"
	"math/big"

	"github.com/vk/gridflow/internal/flow"
	"github.com/vk/gridflow/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

// Module registers the numeric processor set.
type Module struct{}

// Register implements registry.Module.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterProcessor("double", unary(func(x *big.Float) *big.Float {
		return new(big.Float).Mul(x, big.NewFloat(2))
	}))
	r.RegisterProcessor("increment", unary(func(x *big.Float) *big.Float {
		return new(big.Float).Add(x, big.NewFloat(1))
	}))
	r.RegisterProcessor("negate", unary(func(x *big.Float) *big.Float {
		return new(big.Float).Neg(x)
	}))
	r.RegisterProcessor("add", binary(func(x, y *big.Float) *big.Float {
		return new(big.Float).Add(x, y)
	}))
	r.RegisterProcessor("mul", binary(func(x, y *big.Float) *big.Float {
		return new(big.Float).Mul(x, y)
	}))
}

func unary(op func(*big.Float) *big.Float) *flow.Processor {
	return &flow.Processor{
		Arity: 1,
		Fn: func(ctx context.Context, args []cty.Value) (cty.Value, error) {
			x, err := number(args[0])
			if err != nil {
				return cty.NilVal, err
			}
			return cty.NumberVal(op(x)), nil
		},
	}
}

func binary(op func(*big.Float, *big.Float) *big.Float) *flow.Processor {
	return &flow.Processor{
		Arity: 2,
		Fn: func(ctx context.Context, args []cty.Value) (cty.Value, error) {
			x, err := number(args[0])
			if err != nil {
				return cty.NilVal, err
			}
			y, err := number(args[1])
			if err != nil {
				return cty.NilVal, err
			}
			return cty.NumberVal(op(x, y)), nil
		},
	}
}

func number(v cty.Value) (*big.Float, error) {
	if v.IsNull() || !v.Type().Equals(cty.Number) {
		return nil, fmt.Errorf("expected a number, got %s", v.Type().FriendlyName())
	}
	return v.AsBigFloat(), nil
}

package neuralnet

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// ActivationFunction transforms a layer's pre-activation vector into its
// output vector. Apply and Derivative take the full vector because Softmax
// normalizes across the whole layer. Name identifies the function in the
// persisted model format.
type ActivationFunction interface {
	Apply(pre []float64) []float64
	Derivative(pre []float64) []float64
	Name() string
}

type ReLU struct{}

func (ReLU) Name() string { return "ReLU" }

func (ReLU) Apply(pre []float64) []float64 {
	out := make([]float64, len(pre))
	for i, x := range pre {
		out[i] = math.Max(x, 0)
	}
	return out
}

func (ReLU) Derivative(pre []float64) []float64 {
	out := make([]float64, len(pre))
	for i, x := range pre {
		if x >= 0 {
			out[i] = 1
		}
	}
	return out
}

// leakyReLUAlpha is the fixed negative-side slope; it is not persisted, so
// it must stay constant for models to round-trip.
const leakyReLUAlpha = 0.01

type LeakyReLU struct{}

func (LeakyReLU) Name() string { return "LeakyReLU" }

func (LeakyReLU) Apply(pre []float64) []float64 {
	out := make([]float64, len(pre))
	for i, x := range pre {
		if x > 0 {
			out[i] = x
		} else {
			out[i] = leakyReLUAlpha * x
		}
	}
	return out
}

func (LeakyReLU) Derivative(pre []float64) []float64 {
	out := make([]float64, len(pre))
	for i, x := range pre {
		if x > 0 {
			out[i] = 1
		} else {
			out[i] = leakyReLUAlpha
		}
	}
	return out
}

type Sigmoid struct{}

func (Sigmoid) Name() string { return "Sigmoid" }

func (Sigmoid) Apply(pre []float64) []float64 {
	out := make([]float64, len(pre))
	for i, x := range pre {
		out[i] = 1 / (1 + math.Exp(-x))
	}
	return out
}

func (s Sigmoid) Derivative(pre []float64) []float64 {
	out := s.Apply(pre)
	for i, v := range out {
		out[i] = v * (1 - v)
	}
	return out
}

type Softmax struct{}

func (Softmax) Name() string { return "Softmax" }

// Apply shifts by the vector max before exponentiating so large inputs do
// not overflow.
func (Softmax) Apply(pre []float64) []float64 {
	out := make([]float64, len(pre))
	max := floats.Max(pre)
	for i, x := range pre {
		out[i] = math.Exp(x - max)
	}
	sum := floats.Sum(out)
	for i := range out {
		out[i] /= sum
	}
	return out
}

// Derivative returns a neutral all-ones vector. The true Softmax Jacobian is
// non-diagonal; the backward pass folds it into the cross-entropy gradient
// (predicted − expected) instead of evaluating it here.
func (Softmax) Derivative(pre []float64) []float64 {
	out := make([]float64, len(pre))
	for i := range out {
		out[i] = 1
	}
	return out
}

var activations = map[string]ActivationFunction{
	ReLU{}.Name():      ReLU{},
	LeakyReLU{}.Name(): LeakyReLU{},
	Sigmoid{}.Name():   Sigmoid{},
	Softmax{}.Name():   Softmax{},
}

// ActivationByName resolves an activation function by its persisted name.
func ActivationByName(name string) (ActivationFunction, error) {
	f, ok := activations[name]
	if !ok {
		return nil, fmt.Errorf("%w: activation %q", ErrUnknownFunction, name)
	}
	return f, nil
}

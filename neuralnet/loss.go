package neuralnet

import (
	"fmt"
	"math"
)

// LossFunction scores a predicted vector against the expected one. Derivative
// returns the gradient of the loss with respect to each prediction, same
// length as predicted. Name identifies the function in the persisted model
// format.
type LossFunction interface {
	Apply(predicted, expected []float64) float64
	Derivative(predicted, expected []float64) []float64
	Name() string
}

type MSE struct{}

func (MSE) Name() string { return "MSE" }

// Apply returns Σ 0.5·(pᵢ−eᵢ)².
func (MSE) Apply(predicted, expected []float64) float64 {
	var loss float64
	for i := range predicted {
		d := predicted[i] - expected[i]
		loss += 0.5 * d * d
	}
	return loss
}

func (MSE) Derivative(predicted, expected []float64) []float64 {
	grad := make([]float64, len(predicted))
	for i := range predicted {
		grad[i] = predicted[i] - expected[i]
	}
	return grad
}

// crossEntropyEpsilon keeps the log away from zero probabilities.
const crossEntropyEpsilon = 1e-15

type CrossEntropy struct{}

func (CrossEntropy) Name() string { return "CrossEntropy" }

// Apply returns −Σ eᵢ·ln(pᵢ+ε).
func (CrossEntropy) Apply(predicted, expected []float64) float64 {
	var loss float64
	for i := range predicted {
		loss -= expected[i] * math.Log(predicted[i]+crossEntropyEpsilon)
	}
	return loss
}

// Derivative returns predicted − expected: the combined gradient of
// cross-entropy through a Softmax output layer, not the raw per-output
// derivative.
func (CrossEntropy) Derivative(predicted, expected []float64) []float64 {
	grad := make([]float64, len(predicted))
	for i := range predicted {
		grad[i] = predicted[i] - expected[i]
	}
	return grad
}

var losses = map[string]LossFunction{
	MSE{}.Name():          MSE{},
	CrossEntropy{}.Name(): CrossEntropy{},
}

// LossByName resolves a loss function by its persisted name.
func LossByName(name string) (LossFunction, error) {
	f, ok := losses[name]
	if !ok {
		return nil, fmt.Errorf("%w: loss %q", ErrUnknownFunction, name)
	}
	return f, nil
}

// defaultLoss pairs a Softmax output layer with CrossEntropy and everything
// else with MSE.
func defaultLoss(output ActivationFunction) LossFunction {
	if _, ok := output.(Softmax); ok {
		return CrossEntropy{}
	}
	return MSE{}
}

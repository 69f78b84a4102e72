package neuralnet

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// biasMax bounds the uniform bias initialization interval [0, biasMax).
const biasMax = 0.05

// Initializer draws initial weights and biases from an explicit random
// source, so construction is reproducible under a fixed seed.
type Initializer struct {
	src rand.Source
}

func NewInitializer(src rand.Source) *Initializer {
	return &Initializer{src: src}
}

// Bias draws from U[0, 0.05).
func (in *Initializer) Bias() float64 {
	return distuv.Uniform{Min: 0, Max: biasMax, Src: in.src}.Rand()
}

// Weight picks the scheme from the consuming layer's activation: Sigmoid
// layers get Xavier-uniform, everything else He-normal.
func (in *Initializer) Weight(activation ActivationFunction, fanIn, fanOut int) float64 {
	if _, ok := activation.(Sigmoid); ok {
		return in.xavier(fanIn, fanOut)
	}
	return in.he(fanIn)
}

// he samples N(0, sqrt(2/fanIn)).
func (in *Initializer) he(fanIn int) float64 {
	return distuv.Normal{Mu: 0, Sigma: math.Sqrt(2 / float64(fanIn)), Src: in.src}.Rand()
}

// xavier samples U(−limit, limit) with limit = sqrt(6/(fanIn+fanOut)).
func (in *Initializer) xavier(fanIn, fanOut int) float64 {
	limit := math.Sqrt(6 / float64(fanIn+fanOut))
	return distuv.Uniform{Min: -limit, Max: limit, Src: in.src}.Rand()
}

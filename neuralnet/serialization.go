package neuralnet

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
)

// DefaultPrecision is the number of decimal digits preserved by the
// fixed-point document encoding.
const DefaultPrecision = 6

// NeuronDocument carries a neuron's bias and connection weights scaled by
// 10^precision and rounded to the nearest integer.
type NeuronDocument struct {
	Bias    int64   `json:"bias"`
	Weights []int64 `json:"weights"`
}

type LayerDocument struct {
	Neurons            []NeuronDocument `json:"neurons"`
	ActivationFunction string           `json:"activationFunction"`
}

// NetworkDocument is the persisted model format. The browser drawing demo
// and the CLI recognizer both read it, so the shape must stay stable.
type NetworkDocument struct {
	Layers       []LayerDocument `json:"layers"`
	LossFunction string          `json:"lossFunction"`
}

// ToDocument encodes the network, keeping precision decimal digits of every
// weight and bias.
func (nn *Network) ToDocument(precision int) *NetworkDocument {
	scale := math.Pow(10, float64(precision))
	doc := &NetworkDocument{
		Layers:       make([]LayerDocument, len(nn.layers)),
		LossFunction: nn.loss.Name(),
	}
	for i, layer := range nn.layers {
		ld := LayerDocument{
			Neurons:            make([]NeuronDocument, len(layer.neurons)),
			ActivationFunction: layer.activation.Name(),
		}
		for j, neuron := range layer.neurons {
			nd := NeuronDocument{
				Bias:    int64(math.Round(neuron.bias * scale)),
				Weights: make([]int64, len(neuron.inputs)),
			}
			for c, in := range neuron.inputs {
				nd.Weights[c] = int64(math.Round(in.weight * scale))
			}
			ld.Neurons[j] = nd
		}
		doc.Layers[i] = ld
	}
	return doc
}

// FromDocument rebuilds a network from a persisted document. The network is
// constructed in full first — random initialization included — and then
// every bias and weight is overwritten from the document, so the
// construction-time randomness never survives a load.
func FromDocument(doc *NetworkDocument, precision int) (*Network, error) {
	specs := make([]LayerSpec, len(doc.Layers))
	for i, layer := range doc.Layers {
		specs[i] = LayerSpec{Neurons: len(layer.Neurons), Activation: layer.ActivationFunction}
	}
	nn, err := New(specs, WithLoss(doc.LossFunction))
	if err != nil {
		return nil, err
	}
	scale := math.Pow(10, float64(precision))
	for i, layer := range doc.Layers {
		for j, neuron := range layer.Neurons {
			target := nn.layers[i].neurons[j]
			if len(neuron.Weights) != len(target.inputs) {
				return nil, fmt.Errorf("%w: layer %d neuron %d has %d weights, fan-in is %d",
					ErrShapeMismatch, i, j, len(neuron.Weights), len(target.inputs))
			}
			target.bias = float64(neuron.Bias) / scale
			for c, w := range neuron.Weights {
				target.inputs[c].weight = float64(w) / scale
			}
		}
	}
	return nn, nil
}

// Save writes the JSON document to w.
func (nn *Network) Save(w io.Writer, precision int) error {
	return json.NewEncoder(w).Encode(nn.ToDocument(precision))
}

// Load reads a JSON document from r and rebuilds the network.
func Load(r io.Reader, precision int) (*Network, error) {
	var doc NetworkDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("neuralnet: decode model: %w", err)
	}
	return FromDocument(&doc, precision)
}

package neuralnet

import (
	"bytes"
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func TestDocumentFormat(t *testing.T) {
	nn, err := New([]LayerSpec{{Neurons: 2, Activation: "ReLU"}})
	require.NoError(t, err)

	nn.layers[0].neurons[0].bias = 0.25
	nn.layers[0].neurons[0].inputs[0].weight = 0.5
	nn.layers[0].neurons[0].inputs[1].weight = -0.125
	nn.layers[0].neurons[1].bias = -0.000001
	nn.layers[0].neurons[1].inputs[0].weight = 1.5
	nn.layers[0].neurons[1].inputs[1].weight = 0

	raw, err := json.Marshal(nn.ToDocument(DefaultPrecision))
	require.NoError(t, err)

	// The document shape is a compatibility contract with the browser demo.
	assert.JSONEq(t, `{
		"layers": [
			{
				"neurons": [
					{"bias": 250000, "weights": [500000, -125000]},
					{"bias": -1, "weights": [1500000, 0]}
				],
				"activationFunction": "ReLU"
			}
		],
		"lossFunction": "MSE"
	}`, string(raw))
}

func TestRoundTrip(t *testing.T) {
	nn, err := New([]LayerSpec{
		{Neurons: 3, Activation: "ReLU"},
		{Neurons: 5, Activation: "Sigmoid"},
		{Neurons: 4, Activation: "Softmax"},
	}, WithRand(rand.NewSource(99)))
	require.NoError(t, err)

	// Train a little so the parameters are not just the initial draw.
	require.NoError(t, nn.SetInput([]float64{0.1, 0.5, 0.9}))
	for i := 0; i < 25; i++ {
		require.NoError(t, nn.Forward().Backward([]float64{0, 0, 1, 0}, 0.05))
	}

	loaded, err := FromDocument(nn.ToDocument(DefaultPrecision), DefaultPrecision)
	require.NoError(t, err)

	require.Len(t, loaded.layers, len(nn.layers))
	scale := math.Pow(10, DefaultPrecision)
	for i, layer := range nn.layers {
		assert.Equal(t, layer.activation.Name(), loaded.layers[i].activation.Name())
		for j, neuron := range layer.neurons {
			got := loaded.layers[i].neurons[j]
			assert.Equal(t, math.Round(neuron.bias*scale)/scale, got.bias, "layer %d neuron %d bias", i, j)
			for c := range neuron.inputs {
				assert.Equal(t, math.Round(neuron.inputs[c].weight*scale)/scale, got.inputs[c].weight,
					"layer %d neuron %d weight %d", i, j, c)
			}
		}
	}
	assert.Equal(t, nn.Loss().Name(), loaded.Loss().Name())
}

func TestLoadDiscardsRandomInit(t *testing.T) {
	nn, err := New([]LayerSpec{
		{Neurons: 2, Activation: "ReLU"},
		{Neurons: 3, Activation: "Softmax"},
	}, WithRand(rand.NewSource(11)))
	require.NoError(t, err)

	doc := nn.ToDocument(DefaultPrecision)
	// Two loads seed their construction-time randomness differently, but the
	// document must overwrite all of it.
	first, err := FromDocument(doc, DefaultPrecision)
	require.NoError(t, err)
	second, err := FromDocument(doc, DefaultPrecision)
	require.NoError(t, err)

	input := []float64{0.4, 0.7}
	require.NoError(t, first.SetInput(input))
	require.NoError(t, second.SetInput(input))
	assert.Equal(t, first.Forward().Output(), second.Forward().Output())
}

func TestSaveLoad(t *testing.T) {
	nn, err := New([]LayerSpec{
		{Neurons: 2, Activation: "LeakyReLU"},
		{Neurons: 2, Activation: "Sigmoid"},
	}, WithRand(rand.NewSource(4)))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, nn.Save(&buf, DefaultPrecision))

	loaded, err := Load(&buf, DefaultPrecision)
	require.NoError(t, err)
	assert.Equal(t, nn.ToDocument(DefaultPrecision), loaded.ToDocument(DefaultPrecision))
}

func TestFromDocumentUnknownNames(t *testing.T) {
	doc := &NetworkDocument{
		Layers: []LayerDocument{{
			Neurons:            []NeuronDocument{{Bias: 0, Weights: []int64{0}}},
			ActivationFunction: "InvalidFunc",
		}},
		LossFunction: "MSE",
	}
	_, err := FromDocument(doc, DefaultPrecision)
	assert.ErrorIs(t, err, ErrUnknownFunction)

	doc.Layers[0].ActivationFunction = "ReLU"
	doc.LossFunction = "InvalidFunc"
	_, err = FromDocument(doc, DefaultPrecision)
	assert.ErrorIs(t, err, ErrUnknownFunction)
}

func TestFromDocumentWeightCountMismatch(t *testing.T) {
	// A single-layer network's fan-in equals its own size (the external
	// input count), so one neuron with three weights cannot be wired.
	doc := &NetworkDocument{
		Layers: []LayerDocument{{
			Neurons:            []NeuronDocument{{Bias: 0, Weights: []int64{1, 2, 3}}},
			ActivationFunction: "ReLU",
		}},
		LossFunction: "MSE",
	}
	_, err := FromDocument(doc, DefaultPrecision)
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

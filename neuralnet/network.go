package neuralnet

import (
	"fmt"
	"time"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

// LayerSpec describes one dense layer: its neuron count and the name of its
// activation function.
type LayerSpec struct {
	Neurons    int
	Activation string
}

// Network is an ordered stack of fully connected layers, the external input
// signals and the selected loss function. Structure is fixed after New;
// forward and backward passes mutate only signal values, pre-activations,
// weights and biases. A Network is not safe for concurrent use: one
// forward/backward pair must complete before the next begins.
type Network struct {
	layers []*Layer
	inputs []*Signal
	loss   LossFunction
}

// Option configures construction.
type Option func(*config)

type config struct {
	lossName string
	src      rand.Source
}

// WithLoss overrides the automatically selected loss function with the one
// resolved from name.
func WithLoss(name string) Option {
	return func(c *config) { c.lossName = name }
}

// WithRand sets the random source used for weight and bias initialization.
func WithRand(src rand.Source) Option {
	return func(c *config) { c.src = src }
}

// New builds a fully connected network from the layer specs. The external
// input vector is sized to the first layer's neuron count; every subsequent
// layer connects to all outputs of the previous one. Weights and biases are
// randomly initialized per the consuming layer's activation (Xavier-uniform
// for Sigmoid, He-normal otherwise).
func New(specs []LayerSpec, opts ...Option) (*Network, error) {
	if len(specs) == 0 {
		return nil, ErrEmptyNetwork
	}
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.src == nil {
		cfg.src = rand.NewSource(uint64(time.Now().UnixNano()))
	}

	nn := &Network{layers: make([]*Layer, len(specs))}
	for i, spec := range specs {
		if spec.Neurons <= 0 {
			return nil, fmt.Errorf("neuralnet: layer %d: neuron count must be positive, got %d", i, spec.Neurons)
		}
		activation, err := ActivationByName(spec.Activation)
		if err != nil {
			return nil, err
		}
		nn.layers[i] = newLayer(spec.Neurons, activation)
	}

	output := nn.outputLayer().activation
	if cfg.lossName == "" {
		nn.loss = defaultLoss(output)
	} else {
		loss, err := LossByName(cfg.lossName)
		if err != nil {
			return nil, err
		}
		nn.loss = loss
	}
	if _, softmax := output.(Softmax); softmax {
		if _, ce := nn.loss.(CrossEntropy); !ce {
			return nil, ErrLossMismatch
		}
	}

	nn.connect()
	nn.initialize(NewInitializer(cfg.src))
	return nn, nil
}

// connect allocates the external input signals and fully connects every
// layer to its upstream signals.
func (nn *Network) connect() {
	nn.inputs = make([]*Signal, nn.layers[0].size())
	for i := range nn.inputs {
		nn.inputs[i] = &Signal{}
	}
	upstream := nn.inputs
	for _, layer := range nn.layers {
		for _, neuron := range layer.neurons {
			neuron.connect(upstream)
		}
		upstream = layer.outputSignals()
	}
}

// initialize draws every weight and bias. fanIn is the previous layer's size
// (the external input count for the first layer); fanOut is the next layer's
// size, or the layer's own size for the output layer.
func (nn *Network) initialize(in *Initializer) {
	for i, layer := range nn.layers {
		fanIn := len(layer.neurons[0].inputs)
		fanOut := layer.size()
		if i+1 < len(nn.layers) {
			fanOut = nn.layers[i+1].size()
		}
		for _, neuron := range layer.neurons {
			neuron.bias = in.Bias()
			for c := range neuron.inputs {
				neuron.inputs[c].weight = in.Weight(layer.activation, fanIn, fanOut)
			}
		}
	}
}

// InputSize returns the length of the external input vector.
func (nn *Network) InputSize() int { return len(nn.inputs) }

// OutputSize returns the output layer's neuron count.
func (nn *Network) OutputSize() int { return nn.outputLayer().size() }

// Loss returns the network's loss function.
func (nn *Network) Loss() LossFunction { return nn.loss }

func (nn *Network) outputLayer() *Layer {
	return nn.layers[len(nn.layers)-1]
}

// SetInput overwrites the external input signal values in order.
func (nn *Network) SetInput(values []float64) error {
	if len(values) != len(nn.inputs) {
		return fmt.Errorf("%w: got %d input values, network takes %d", ErrShapeMismatch, len(values), len(nn.inputs))
	}
	for i, v := range values {
		nn.inputs[i].Value = v
	}
	return nil
}

// Forward propagates the input signals through every layer in order and
// returns the network for chaining. Deterministic given fixed weights and
// inputs.
func (nn *Network) Forward() *Network {
	for _, layer := range nn.layers {
		layer.forward()
	}
	return nn
}

// Output returns the output layer's values as computed by the last forward
// pass.
func (nn *Network) Output() []float64 {
	return nn.outputLayer().outputValues()
}

// CalculateLoss scores the current output against the expected vector. It
// mutates nothing.
func (nn *Network) CalculateLoss(expected []float64) (float64, error) {
	out := nn.outputLayer()
	if len(expected) != out.size() {
		return 0, fmt.Errorf("%w: got %d expected values, output layer has %d neurons", ErrShapeMismatch, len(expected), out.size())
	}
	return nn.loss.Apply(out.outputValues(), expected), nil
}

// Backward runs one gradient-descent step against the expected output. Every
// delta is computed before any parameter moves, so each update sees the
// pre-update weights and signal values.
func (nn *Network) Backward(expected []float64, learningRate float64) error {
	out := nn.outputLayer()
	if len(expected) != out.size() {
		return fmt.Errorf("%w: got %d expected values, output layer has %d neurons", ErrShapeMismatch, len(expected), out.size())
	}

	// Output-layer deltas from the loss gradient. A Softmax output layer
	// takes the gradient as-is: its Jacobian is already folded into the
	// cross-entropy derivative.
	grad := nn.loss.Derivative(out.outputValues(), expected)
	if _, softmax := out.activation.(Softmax); softmax {
		copy(out.deltas, grad)
	} else {
		deriv := out.activation.Derivative(out.preActivations())
		for i := range out.deltas {
			out.deltas[i] = grad[i] * deriv[i]
		}
	}

	// Hidden-layer deltas, output back to first: actDeriv(pre) ⊙ Wᵀ·δ of the
	// consuming layer.
	for i := len(nn.layers) - 2; i >= 0; i-- {
		layer, next := nn.layers[i], nn.layers[i+1]
		var backprop mat.VecDense
		backprop.MulVec(weightsDense(next).T(), mat.NewVecDense(next.size(), next.deltas))
		deriv := layer.activation.Derivative(layer.preActivations())
		for j := range layer.deltas {
			layer.deltas[j] = deriv[j] * backprop.AtVec(j)
		}
	}

	for _, layer := range nn.layers {
		for j, neuron := range layer.neurons {
			delta := layer.deltas[j]
			for c := range neuron.inputs {
				neuron.inputs[c].weight -= learningRate * delta * neuron.inputs[c].signal.Value
			}
			neuron.bias -= learningRate * delta
		}
	}
	return nil
}

// weightsDense packs a layer's weights into an n×fanIn matrix, row per
// neuron.
func weightsDense(l *Layer) *mat.Dense {
	n, m := l.size(), len(l.neurons[0].inputs)
	w := make([]float64, n*m)
	for i, neuron := range l.neurons {
		for j, in := range neuron.inputs {
			w[i*m+j] = in.weight
		}
	}
	return mat.NewDense(n, m, w)
}

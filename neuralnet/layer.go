package neuralnet

// Layer is an ordered set of neurons sharing one activation function. The
// activation is applied to the whole pre-activation vector at once: Softmax
// couples every component, so it cannot be evaluated per neuron.
type Layer struct {
	neurons    []*Neuron
	activation ActivationFunction
	deltas     []float64 // backpropagated error, reused across backward passes
}

func newLayer(size int, activation ActivationFunction) *Layer {
	l := &Layer{
		neurons:    make([]*Neuron, size),
		activation: activation,
		deltas:     make([]float64, size),
	}
	for i := range l.neurons {
		l.neurons[i] = newNeuron()
	}
	return l
}

func (l *Layer) size() int { return len(l.neurons) }

// outputSignals returns the neurons' output cells for wiring the next layer.
func (l *Layer) outputSignals() []*Signal {
	signals := make([]*Signal, len(l.neurons))
	for i, n := range l.neurons {
		signals[i] = n.output
	}
	return signals
}

// forward computes the pre-activation vector, applies the activation to it
// as a whole and publishes the result on the neurons' output signals.
func (l *Layer) forward() {
	pre := make([]float64, len(l.neurons))
	for i, n := range l.neurons {
		n.preAct = n.preActivation()
		pre[i] = n.preAct
	}
	out := l.activation.Apply(pre)
	for i, n := range l.neurons {
		n.output.Value = out[i]
	}
}

// preActivations returns the vector stored by the last forward pass.
func (l *Layer) preActivations() []float64 {
	pre := make([]float64, len(l.neurons))
	for i, n := range l.neurons {
		pre[i] = n.preAct
	}
	return pre
}

func (l *Layer) outputValues() []float64 {
	values := make([]float64, len(l.neurons))
	for i, n := range l.neurons {
		values[i] = n.output.Value
	}
	return values
}

package neuralnet

// Connection feeds one upstream Signal into a neuron with a weight. It is
// owned exclusively by the consuming neuron; only the signal pointer is
// shared.
type Connection struct {
	signal *Signal
	weight float64
}

// Neuron owns a bias, an ordered set of weighted input connections and its
// output Signal. preAct holds the weighted sum of the last forward pass and
// is only meaningful after one.
type Neuron struct {
	bias   float64
	inputs []Connection
	preAct float64
	output *Signal
}

func newNeuron() *Neuron {
	return &Neuron{output: &Signal{}}
}

// connect wires the neuron to the upstream signals, one connection per
// signal. The fan-in is fixed from this point on; weights are filled in by
// the initializer.
func (n *Neuron) connect(signals []*Signal) {
	n.inputs = make([]Connection, len(signals))
	for i, s := range signals {
		n.inputs[i] = Connection{signal: s}
	}
}

// preActivation computes bias + Σ weight·signal.
func (n *Neuron) preActivation() float64 {
	sum := n.bias
	for _, in := range n.inputs {
		sum += in.weight * in.signal.Value
	}
	return sum
}

package neuralnet

// Signal is a scalar cell shared between one producer and any number of
// readers. The producing neuron (or an external input slot) is the only
// writer; downstream connections hold the pointer and read the value during
// their own forward step. Sharing the cell rather than copying the value is
// what makes a layer's output visible to the next layer within the same pass.
type Signal struct {
	Value float64
}

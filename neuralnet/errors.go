package neuralnet

import "errors"

var (
	// ErrEmptyNetwork is returned when a network is constructed with no layers.
	ErrEmptyNetwork = errors.New("neuralnet: network needs at least one layer")
	// ErrShapeMismatch is returned when a vector length disagrees with the
	// corresponding layer size. The call mutates nothing before the check.
	ErrShapeMismatch = errors.New("neuralnet: shape mismatch")
	// ErrUnknownFunction is returned when an activation or loss function name
	// does not resolve.
	ErrUnknownFunction = errors.New("neuralnet: unknown function")
	// ErrLossMismatch is returned when a Softmax output layer is paired with a
	// loss other than CrossEntropy. The all-ones Softmax derivative is only
	// valid through the combined cross-entropy gradient.
	ErrLossMismatch = errors.New("neuralnet: softmax output layer requires cross-entropy loss")
)

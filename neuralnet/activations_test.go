package neuralnet

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

// floatsEqual compares two vectors with a tolerance.
func floatsEqual(a, b []float64, tolerance float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Abs(a[i]-b[i]) > tolerance {
			return false
		}
	}
	return true
}

func TestActivationShapes(t *testing.T) {
	in := []float64{-1.5, 0, 0.5, 2}
	for name, f := range activations {
		if got := f.Apply(in); len(got) != len(in) {
			t.Errorf("%s.Apply: got %d values, want %d", name, len(got), len(in))
		}
		if got := f.Derivative(in); len(got) != len(in) {
			t.Errorf("%s.Derivative: got %d values, want %d", name, len(got), len(in))
		}
	}
}

func TestReLU(t *testing.T) {
	in := []float64{-2, -1, 0, 1, 2}
	if got := (ReLU{}).Apply(in); !floatsEqual(got, []float64{0, 0, 0, 1, 2}, 0) {
		t.Errorf("ReLU.Apply(%v) = %v", in, got)
	}
	if got := (ReLU{}).Derivative(in); !floatsEqual(got, []float64{0, 0, 1, 1, 1}, 0) {
		t.Errorf("ReLU.Derivative(%v) = %v", in, got)
	}
}

func TestLeakyReLU(t *testing.T) {
	in := []float64{-2, -1, 0, 1, 2}
	if got := (LeakyReLU{}).Apply(in); !floatsEqual(got, []float64{-0.02, -0.01, 0, 1, 2}, 1e-12) {
		t.Errorf("LeakyReLU.Apply(%v) = %v", in, got)
	}
	if got := (LeakyReLU{}).Derivative(in); !floatsEqual(got, []float64{0.01, 0.01, 0.01, 1, 1}, 1e-12) {
		t.Errorf("LeakyReLU.Derivative(%v) = %v", in, got)
	}
}

func TestSigmoid(t *testing.T) {
	got := (Sigmoid{}).Apply([]float64{0})
	if math.Abs(got[0]-0.5) > 1e-9 {
		t.Errorf("Sigmoid.Apply(0) = %v; want 0.5", got[0])
	}
	deriv := (Sigmoid{}).Derivative([]float64{0})
	if math.Abs(deriv[0]-0.25) > 1e-9 {
		t.Errorf("Sigmoid.Derivative(0) = %v; want 0.25", deriv[0])
	}
}

func TestSoftmax(t *testing.T) {
	tests := []struct {
		name string
		in   []float64
	}{
		{"small", []float64{0.1, 0.2, 0.3}},
		{"large magnitude", []float64{100, 101, 102}},
		{"negative", []float64{-50, -51, -52}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := (Softmax{}).Apply(tt.in)
			for i, v := range out {
				assert.Greater(t, v, 0.0, "component %d", i)
			}
			assert.InDelta(t, 1.0, floats.Sum(out), 1e-5)
		})
	}
}

func TestSoftmaxDerivativeIsNeutral(t *testing.T) {
	deriv := (Softmax{}).Derivative([]float64{1, 2, 3})
	assert.Equal(t, []float64{1, 1, 1}, deriv)
}

func TestActivationByName(t *testing.T) {
	for _, name := range []string{"ReLU", "LeakyReLU", "Sigmoid", "Softmax"} {
		f, err := ActivationByName(name)
		require.NoError(t, err)
		assert.Equal(t, name, f.Name())
	}

	_, err := ActivationByName("InvalidFunc")
	assert.ErrorIs(t, err, ErrUnknownFunction)
}

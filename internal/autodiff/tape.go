package autodiff

import (
	"fmt"

	"github.com/born-ml/secondorder/internal/tensor"
)

// GradientTape records operations during the forward pass and computes
// gradients during the backward pass using reverse-mode automatic differentiation.
//
// Usage:
//
//	tape := NewGradientTape()
//	tape.StartRecording()
//	// ... perform operations through a Recorder ...
//	gradients := tape.Backward(output)
type GradientTape struct {
	operations []Operation // Recorded operations (in execution order)
	recording  bool        // Whether tape is currently recording
}

// NewGradientTape creates a new gradient tape.
func NewGradientTape() *GradientTape {
	return &GradientTape{
		operations: make([]Operation, 0, 16),
		recording:  false,
	}
}

// StartRecording enables operation recording.
func (t *GradientTape) StartRecording() {
	t.recording = true
}

// StopRecording disables operation recording.
func (t *GradientTape) StopRecording() {
	t.recording = false
}

// IsRecording returns true if the tape is currently recording operations.
func (t *GradientTape) IsRecording() bool {
	return t.recording
}

// Record adds an operation to the tape.
// Only records if the tape is currently recording.
func (t *GradientTape) Record(op Operation) {
	if t.recording {
		t.operations = append(t.operations, op)
	}
}

// Clear resets the tape, removing all recorded operations.
// Recording state is preserved.
func (t *GradientTape) Clear() {
	t.operations = t.operations[:0]
}

// NumOps returns the number of recorded operations.
func (t *GradientTape) NumOps() int {
	return len(t.operations)
}

// Backward walks the tape in reverse starting from output, seeded with a
// gradient of ones, and returns the accumulated gradient of every tensor that
// output depends on.
func (t *GradientTape) Backward(output *tensor.Dense) map[*tensor.Dense]*tensor.Dense {
	seed, err := tensor.Full(output.Shape(), 1)
	if err != nil {
		panic(fmt.Sprintf("backward: failed to create output gradient: %v", err))
	}
	return t.BackwardWith(output, seed)
}

// BackwardWith is Backward with an explicit output gradient.
func (t *GradientTape) BackwardWith(output, outputGrad *tensor.Dense) map[*tensor.Dense]*tensor.Dense {
	grads := make(map[*tensor.Dense]*tensor.Dense)
	if len(t.operations) == 0 {
		return grads
	}

	// Gradient computations must not land on the tape.
	wasRecording := t.recording
	t.recording = false
	defer func() {
		t.recording = wasRecording
	}()

	grads[output] = outputGrad

	for i := len(t.operations) - 1; i >= 0; i-- {
		op := t.operations[i]
		outGrad, ok := grads[op.Output()]
		if !ok {
			continue
		}
		inputGrads := op.Backward(outGrad)
		for j, input := range op.Inputs() {
			if j >= len(inputGrads) || inputGrads[j] == nil {
				continue
			}
			if existing, ok := grads[input]; ok {
				grads[input] = tensor.Add(existing, inputGrads[j])
			} else {
				grads[input] = inputGrads[j]
			}
		}
	}

	return grads
}

// Gradient returns d(output)/d(wrt). It fails if wrt does not influence
// output through recorded operations.
func (t *GradientTape) Gradient(output, wrt *tensor.Dense) (*tensor.Dense, error) {
	if t.NumOps() == 0 {
		return nil, fmt.Errorf("gradient: no operations recorded (did you forget to call StartRecording()?)")
	}
	grad, ok := t.Backward(output)[wrt]
	if !ok {
		return nil, fmt.Errorf("gradient: output does not depend on the requested tensor")
	}
	return grad, nil
}

package tensor

// Backend defines the interface that all compute backends must implement.
// Backends handle the actual computation for tensor operations.
//
// Implementations:
//   - cpu.Backend: pure Go element-wise kernels, gonum BLAS for matrix products
//   - autodiff.Backend: decorator that records every operation on a gradient tape
//
// Shape violations panic with a descriptive message.
type Backend interface {
	// Matrix operations
	MatMul(a, b *Tensor) *Tensor // [m,k] @ [k,n] -> [m,n]
	Transpose(a *Tensor) *Tensor // [m,n] -> [n,m]

	// Element-wise binary operations
	Add(a, b *Tensor) *Tensor
	Sub(a, b *Tensor) *Tensor
	Mul(a, b *Tensor) *Tensor

	// AddRow adds a [n] vector to every row of an [m,n] tensor.
	AddRow(x, row *Tensor) *Tensor
	// SumRows reduces an [m,n] tensor to [n] by summing over rows.
	SumRows(x *Tensor) *Tensor

	// Scalar operations
	MulScalar(x *Tensor, scalar float64) *Tensor

	// Activation functions
	ReLU(x *Tensor) *Tensor
	Sigmoid(x *Tensor) *Tensor

	// Loss functions (scalar result with shape [1])
	BinaryCrossEntropy(pred, target *Tensor) *Tensor
	MeanSquaredError(pred, target *Tensor) *Tensor

	// Metadata
	Name() string
	Device() Device
}

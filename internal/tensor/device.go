package tensor

// Device represents the compute device a tensor lives on.
type Device int

// Supported compute devices.
//
// Only CPU has a compute backend today. Host is the device tensors are moved to when
// they leave the training loop (history buffers, checkpoints).
const (
	CPU Device = iota
	CUDA
	Vulkan
	Metal
	WebGPU
)

// Host is the device used for bookkeeping copies that outlive a batch.
const Host = CPU

// String returns a human-readable device name.
func (d Device) String() string {
	switch d {
	case CPU:
		return "CPU"
	case CUDA:
		return "CUDA"
	case Vulkan:
		return "Vulkan"
	case Metal:
		return "Metal"
	case WebGPU:
		return "WebGPU"
	default:
		return "Unknown"
	}
}

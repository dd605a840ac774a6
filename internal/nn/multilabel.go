package nn

import (
	"fmt"
	"math/rand"

	"github.com/born-ml/multilabel/internal/tensor"
)

// NetConfig describes a MultiLabelNet.
type NetConfig struct {
	InFeatures int   // Input feature count
	NumClasses int   // Output class count
	Hidden     []int // Hidden layer widths (ReLU after each)
	AuxHead    bool  // Attach an auxiliary classifier to the first hidden layer
	Seed       int64 // Weight initialization seed (0 uses the global source)
}

// MultiLabelNet is a fully connected multi-label classifier.
//
// Architecture:
//   - Trunk: Linear → ReLU for every hidden width
//   - Head: Linear → Sigmoid producing one probability per class
//   - Aux (optional): Linear → Sigmoid on the first hidden layer's activations
//
// The auxiliary head mirrors Inception-style side classifiers: it supervises an
// intermediate layer during training and is ignored at evaluation time.
type MultiLabelNet struct {
	config   NetConfig
	layers   []*Sequential // trunk stages, one per hidden width
	head     *Sequential
	aux      *Sequential
	training bool
}

// NewMultiLabelNet builds a network from config.
// Panics if the config has no inputs, no classes, or AuxHead without hidden layers.
func NewMultiLabelNet(config NetConfig, backend tensor.Backend) *MultiLabelNet {
	if config.InFeatures <= 0 || config.NumClasses <= 0 {
		panic(fmt.Sprintf("MultiLabelNet: invalid dimensions in=%d classes=%d", config.InFeatures, config.NumClasses))
	}
	if config.AuxHead && len(config.Hidden) == 0 {
		panic("MultiLabelNet: auxiliary head needs at least one hidden layer")
	}

	var rng *rand.Rand
	if config.Seed != 0 {
		//nolint:gosec // Using math/rand for weight initialization (not security-critical)
		rng = rand.New(rand.NewSource(config.Seed))
	}

	net := &MultiLabelNet{config: config, training: true}
	in := config.InFeatures
	for i, width := range config.Hidden {
		net.layers = append(net.layers, NewSequential(
			NewLinear(fmt.Sprintf("trunk.%d", i), in, width, backend, rng),
			NewReLU(backend),
		))
		in = width
	}
	net.head = NewSequential(
		NewLinear("head", in, config.NumClasses, backend, rng),
		NewSigmoid(backend),
	)
	if config.AuxHead {
		net.aux = NewSequential(
			NewLinear("aux", config.Hidden[0], config.NumClasses, backend, rng),
			NewSigmoid(backend),
		)
	}
	return net
}

// Forward returns per-class probabilities with shape [batch, classes].
func (n *MultiLabelNet) Forward(input *tensor.Tensor) *tensor.Tensor {
	out, _ := n.forward(input, false)
	return out
}

// ForwardAux returns the main output and the auxiliary head's output.
//
// aux is nil when the network has no auxiliary head or is in evaluation mode.
func (n *MultiLabelNet) ForwardAux(input *tensor.Tensor) (output, aux *tensor.Tensor) {
	return n.forward(input, n.training && n.aux != nil)
}

func (n *MultiLabelNet) forward(input *tensor.Tensor, withAux bool) (output, aux *tensor.Tensor) {
	x := input
	for i, layer := range n.layers {
		x = layer.Forward(x)
		if i == 0 && withAux {
			aux = n.aux.Forward(x)
		}
	}
	return n.head.Forward(x), aux
}

// SetTraining switches between training and evaluation mode.
func (n *MultiLabelNet) SetTraining(training bool) {
	n.training = training
}

// Training reports whether the network is in training mode.
func (n *MultiLabelNet) Training() bool {
	return n.training
}

// HasAux reports whether the network was built with an auxiliary head.
func (n *MultiLabelNet) HasAux() bool {
	return n.aux != nil
}

// Config returns the configuration the network was built from.
func (n *MultiLabelNet) Config() NetConfig {
	return n.config
}

// Parameters returns trunk, head and auxiliary parameters, in that order.
func (n *MultiLabelNet) Parameters() []*Parameter {
	var params []*Parameter
	for _, layer := range n.layers {
		params = append(params, layer.Parameters()...)
	}
	params = append(params, n.head.Parameters()...)
	if n.aux != nil {
		params = append(params, n.aux.Parameters()...)
	}
	return params
}

// StateDict returns a live view of the network's parameters.
func (n *MultiLabelNet) StateDict() StateDict {
	return CollectState(n.Parameters())
}

// LoadStateDict copies sd into the network's parameters.
func (n *MultiLabelNet) LoadStateDict(sd StateDict) error {
	return LoadState(n.Parameters(), sd)
}

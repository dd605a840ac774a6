package nn

import (
	"fmt"
	"sort"

	"github.com/born-ml/multilabel/internal/tensor"
)

// StateDict maps fully qualified parameter names to tensors.
//
// A StateDict returned by a model is a live view: its tensors are the model's own
// parameter tensors. Clone produces an independent value copy suitable for
// checkpointing.
type StateDict map[string]*tensor.Tensor

// CollectState builds a live StateDict from params.
// Panics on duplicate parameter names.
func CollectState(params []*Parameter) StateDict {
	sd := make(StateDict, len(params))
	for _, p := range params {
		if _, dup := sd[p.Name()]; dup {
			panic(fmt.Sprintf("nn: duplicate parameter name %q", p.Name()))
		}
		sd[p.Name()] = p.Tensor()
	}
	return sd
}

// Clone returns a deep copy: every tensor is copied, moved to the host device
// and detached from gradient tracking.
func (sd StateDict) Clone() StateDict {
	out := make(StateDict, len(sd))
	for name, t := range sd {
		out[name] = t.Clone().To(tensor.Host)
	}
	return out
}

// Names returns the parameter names in sorted order.
func (sd StateDict) Names() []string {
	names := make([]string, 0, len(sd))
	for name := range sd {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadState copies the values of sd into params.
//
// Every parameter must have an entry with a matching shape, and sd must not
// contain names the parameters do not know about. Nothing is written unless
// the whole state dict validates.
func LoadState(params []*Parameter, sd StateDict) error {
	known := make(map[string]struct{}, len(params))
	for _, p := range params {
		known[p.Name()] = struct{}{}
		src, ok := sd[p.Name()]
		if !ok {
			return fmt.Errorf("load state: missing parameter %q", p.Name())
		}
		if !src.Shape().Equal(p.Tensor().Shape()) {
			return fmt.Errorf("load state: parameter %q has shape %v, state has %v",
				p.Name(), p.Tensor().Shape(), src.Shape())
		}
	}
	for name := range sd {
		if _, ok := known[name]; !ok {
			return fmt.Errorf("load state: unexpected parameter %q", name)
		}
	}

	for _, p := range params {
		p.Tensor().CopyFrom(sd[p.Name()])
	}
	return nil
}

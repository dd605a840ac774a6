// Package serialization persists model checkpoints in the SafeTensors format.
//
// SafeTensors is the HuggingFace interchange format for parameter tensors:
//
//	Format Structure:
//	  [8 bytes: Header Size (uint64 LE)]
//	  [Header: JSON object, tensor name -> {dtype, shape, data_offsets}]
//	  [Tensor data: raw little-endian bytes]
//
// Checkpoints written here store float64 tensors ("F64") in alphabetical name
// order. The optional "__metadata__" entry carries string metadata (run id,
// epoch, validation loss) plus a SHA-256 of the data section that Read
// verifies.
//
// Example usage:
//
//	// Save the best weights
//	err := serialization.WriteSafeTensors("best.safetensors", model.StateDict(), map[string]string{
//	    "epoch": "3",
//	})
//
//	// Restore them
//	tensors, meta, err := serialization.ReadSafeTensors("best.safetensors")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	err = model.LoadStateDict(tensors)
package serialization

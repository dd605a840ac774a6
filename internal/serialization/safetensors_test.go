package serialization

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/multilabel/internal/tensor"
)

func sampleTensors() map[string]*tensor.Tensor {
	return map[string]*tensor.Tensor{
		"head.weight": tensor.MustFromSlice([]float64{1.5, -2, 3.25, 0}, tensor.Shape{2, 2}),
		"head.bias":   tensor.MustFromSlice([]float64{0.1, -0.1}, tensor.Shape{2}),
	}
}

func TestSafeTensorsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "best.safetensors")
	meta := map[string]string{"epoch": "3", "run_id": "abc"}

	require.NoError(t, WriteSafeTensors(path, sampleTensors(), meta))
	_, err := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temporary file removed")

	got, gotMeta, err := ReadSafeTensors(path)
	require.NoError(t, err)
	assert.Equal(t, meta, gotMeta, "checksum entry is internal")

	want := sampleTensors()
	require.Len(t, got, len(want))
	for name, w := range want {
		g, ok := got[name]
		require.True(t, ok, name)
		assert.Equal(t, w.Shape(), g.Shape(), name)
		assert.Equal(t, w.Data(), g.Data(), name)
	}
}

func TestEncodeSafeTensorsLayout(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeSafeTensors(&buf, sampleTensors(), nil))

	raw := buf.Bytes()
	headerSize := binary.LittleEndian.Uint64(raw[:8])
	header := string(raw[8 : 8+headerSize])
	assert.Contains(t, header, `"dtype":"F64"`)
	assert.Contains(t, header, `"__metadata__"`)
	// 6 float64 values follow the header.
	assert.Len(t, raw[8+headerSize:], 6*8)
}

func TestDecodeSafeTensorsRejectsCorruption(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeSafeTensors(&buf, sampleTensors(), nil))
	raw := buf.Bytes()
	raw[len(raw)-1] ^= 0xFF

	_, _, err := DecodeSafeTensors(bytes.NewReader(raw))
	assert.ErrorIs(t, err, ErrChecksumMismatch)
}

func encodeHeader(t *testing.T, header string, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint64(len(header))))
	buf.WriteString(header)
	buf.Write(data)
	return buf.Bytes()
}

func TestDecodeSafeTensorsValidation(t *testing.T) {
	tests := []struct {
		name   string
		header string
		data   []byte
		want   error
	}{
		{
			name:   "unsupported dtype",
			header: `{"w":{"dtype":"F32","shape":[1],"data_offsets":[0,4]}}`,
			data:   make([]byte, 4),
			want:   ErrUnsupportedDType,
		},
		{
			name:   "out of bounds",
			header: `{"w":{"dtype":"F64","shape":[2],"data_offsets":[0,16]}}`,
			data:   make([]byte, 8),
			want:   ErrOutOfBounds,
		},
		{
			name: "overlap",
			header: `{"a":{"dtype":"F64","shape":[2],"data_offsets":[0,16]},` +
				`"b":{"dtype":"F64","shape":[1],"data_offsets":[8,16]}}`,
			data: make([]byte, 16),
			want: ErrOffsetOverlap,
		},
		{
			name:   "path-like name",
			header: `{"../w":{"dtype":"F64","shape":[1],"data_offsets":[0,8]}}`,
			data:   make([]byte, 8),
			want:   ErrInvalidTensorName,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := DecodeSafeTensors(bytes.NewReader(encodeHeader(t, tt.header, tt.data)))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestDecodeSafeTensorsHeaderTooLarge(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint64(MaxHeaderSize+1)))
	_, _, err := DecodeSafeTensors(&buf)
	assert.ErrorIs(t, err, ErrHeaderTooLarge)
}

func TestValidateTensorName(t *testing.T) {
	for _, name := range []string{"trunk.0.weight", "head.bias"} {
		assert.NoError(t, ValidateTensorName(name), name)
	}
	for _, name := range []string{"", "a/b", `a\b`, "a..b", "a\x00b"} {
		assert.ErrorIs(t, ValidateTensorName(name), ErrInvalidTensorName, name)
	}
}

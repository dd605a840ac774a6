package profile

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_AggregatesByName(t *testing.T) {
	rec := Start("forward")
	rec.RecordOp("matmul", 3*time.Millisecond, 800)
	rec.RecordOp("sigmoid", time.Millisecond, 80)
	rec.RecordOp("matmul", time.Millisecond, 800)
	prof := rec.Stop()

	require.Len(t, prof.Events, 2)
	assert.Equal(t, "matmul", prof.Events[0].Name)
	assert.Equal(t, 2, prof.Events[0].Calls)
	assert.Equal(t, 4*time.Millisecond, prof.Events[0].Total)
	assert.Equal(t, 2*time.Millisecond, prof.Events[0].Average())
	assert.Equal(t, int64(1600), prof.Events[0].Bytes)
	assert.Equal(t, 5*time.Millisecond, prof.TotalOpTime())
	assert.Equal(t, "forward", prof.Label)
	assert.Contains(t, prof.Site, "profile_test.go")
}

func TestRecorder_MeasuresAllocations(t *testing.T) {
	rec := Start("alloc")
	sink := make([][]byte, 0, 16)
	for i := 0; i < 16; i++ {
		sink = append(sink, make([]byte, 1<<16))
	}
	prof := rec.Stop()

	assert.Len(t, sink, 16)
	assert.GreaterOrEqual(t, prof.AllocBytes, uint64(16<<16))
	assert.Positive(t, prof.Wall)
}

func TestRecorder_NilIsNoop(t *testing.T) {
	var rec *Recorder
	assert.NotPanics(t, func() { rec.RecordOp("matmul", time.Second, 1) })
}

func TestProfile_TableSortsByTotal(t *testing.T) {
	prof := &Profile{
		Label: "forward",
		Events: []Event{
			{Name: "relu", Calls: 1, Total: time.Millisecond},
			{Name: "matmul", Calls: 2, Total: 5 * time.Millisecond},
		},
	}

	table := prof.Table()
	assert.Less(t, strings.Index(table, "matmul"), strings.Index(table, "relu"))
	// Table must not reorder the profile itself.
	assert.Equal(t, "relu", prof.Events[0].Name)
}

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/haierkeys/fast-note-pad/internal/store"
	"github.com/haierkeys/fast-note-pad/pkg/workerpool"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsReadSources(t *testing.T) {
	m, err := New(Sources{
		Store: func() store.Stats {
			return store.Stats{SignedIn: true, Notes: 3, SharedNotes: 2, Seq: 7, DroppedEvents: 1}
		},
		Pool:    func() workerpool.Stats { return workerpool.Stats{ActiveCount: 2, QueuedCount: 5} },
		Clients: func() (int, int) { return 4, 1 },
	})
	require.NoError(t, err)

	n, err := testutil.GatherAndCount(m.Registry, "fast_note_pad_notes", "fast_note_pad_websocket_clients")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	families, err := m.Registry.Gather()
	require.NoError(t, err)
	values := map[string]float64{}
	for _, f := range families {
		for _, metric := range f.GetMetric() {
			switch {
			case metric.GetGauge() != nil:
				values[f.GetName()] = metric.GetGauge().GetValue()
			case metric.GetCounter() != nil:
				values[f.GetName()] = metric.GetCounter().GetValue()
			}
		}
	}
	assert.Equal(t, 1.0, values["fast_note_pad_signed_in"])
	assert.Equal(t, 3.0, values["fast_note_pad_notes"])
	assert.Equal(t, 7.0, values["fast_note_pad_store_events_total"])
	assert.Equal(t, 5.0, values["fast_note_pad_workerpool_queued"])
	assert.Equal(t, 1.0, values["fast_note_pad_websocket_clients_authorized"])
}

func TestMetricsObserve(t *testing.T) {
	m, err := New(Sources{})
	require.NoError(t, err)

	m.ObserveRequest("GET", "/api/notes", 200, 10*time.Millisecond)
	m.ObserveRequest("GET", "", 404, time.Millisecond)
	m.ObserveTask("cleanup", nil)
	m.ObserveTask("cleanup", errors.New("boom"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.tasks.WithLabelValues("cleanup", "error")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.requests))

	// 每个实例使用独立 Registry，可重复创建
	_, err = New(Sources{})
	assert.NoError(t, err)
}

package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"helios-dashboard/internal/domain"
	"helios-dashboard/internal/storage"
)

// SampleStore is an in-memory implementation of storage.SampleStore.
// Samples are append-only and ordered by (timestamp, value), the order the SQL
// stores return.
type SampleStore struct {
	mu   sync.RWMutex
	data map[int64][]domain.SensorSample // keyed by sensor_id, sorted by timestamp
}

// NewSampleStore creates a new in-memory sample store.
func NewSampleStore() *SampleStore {
	return &SampleStore{
		data: make(map[int64][]domain.SensorSample),
	}
}

// InsertBulk adds multiple samples. Fails the entire batch on invalid input.
func (s *SampleStore) InsertBulk(_ context.Context, samples []*domain.SensorSample) error {
	if len(samples) == 0 {
		return nil
	}
	for _, sample := range samples {
		if sample == nil {
			return storage.ErrInvalidInput
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	touched := make(map[int64]struct{})
	for _, sample := range samples {
		s.data[sample.SensorID] = append(s.data[sample.SensorID], *sample)
		touched[sample.SensorID] = struct{}{}
	}
	for id := range touched {
		series := s.data[id]
		sort.SliceStable(series, func(i, j int) bool {
			return readingLess(series[i].Timestamp, series[i].Value, series[j].Timestamp, series[j].Value)
		})
	}
	return nil
}

// GetBySensorID retrieves the full series of a sensor, ordered by timestamp ASC.
func (s *SampleStore) GetBySensorID(_ context.Context, sensorID int64) ([]*domain.SensorSample, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	series := s.data[sensorID]
	result := make([]*domain.SensorSample, 0, len(series))
	for i := range series {
		sampleCopy := series[i]
		result = append(result, &sampleCopy)
	}
	return result, nil
}

// GetByTimeRange retrieves samples within [start, end] (inclusive).
func (s *SampleStore) GetByTimeRange(_ context.Context, sensorID int64, start, end int64) ([]*domain.SensorSample, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.SensorSample
	for _, sample := range s.data[sensorID] {
		if sample.Timestamp >= start && sample.Timestamp <= end {
			sampleCopy := sample
			result = append(result, &sampleCopy)
		}
	}
	return result, nil
}

// GetTimeRange returns min and max timestamps across the given sensors.
func (s *SampleStore) GetTimeRange(_ context.Context, sensorIDs []int64) (minTs, maxTs int64, err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	first := true
	for _, id := range sensorIDs {
		series := s.data[id]
		if len(series) == 0 {
			continue
		}
		lo, hi := series[0].Timestamp, series[len(series)-1].Timestamp
		if first {
			minTs, maxTs = lo, hi
			first = false
			continue
		}
		if lo < minTs {
			minTs = lo
		}
		if hi > maxTs {
			maxTs = hi
		}
	}

	if first {
		return 0, 0, storage.ErrNotFound
	}
	return minTs, maxTs, nil
}

// FilterWithSamples returns the sensor ids having at least one sample, in input order.
func (s *SampleStore) FilterWithSamples(_ context.Context, sensorIDs []int64) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []int64
	for _, id := range sensorIDs {
		if len(s.data[id]) > 0 {
			result = append(result, id)
		}
	}
	return result, nil
}

var (
	_ storage.SampleStore  = (*SampleStore)(nil)
	_ storage.SampleWriter = (*SampleStore)(nil)
)

// readingLess orders by timestamp, then value with NaN last, matching
// ORDER BY timestamp, value in PostgreSQL and ClickHouse.
func readingLess(ti int64, vi float64, tj int64, vj float64) bool {
	if ti != tj {
		return ti < tj
	}
	if math.IsNaN(vi) {
		return false
	}
	return math.IsNaN(vj) || vi < vj
}

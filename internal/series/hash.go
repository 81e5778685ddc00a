package series

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"

	"helios-dashboard/internal/domain"
)

// ContentHash fingerprints the timestamps and raw values of a frame.
// Tags and ValueMA do not contribute, so the hash keys smoothing results.
func ContentHash(frame domain.SeriesFrame) uint64 {
	d := xxhash.New()
	var buf [16]byte
	for _, p := range frame.Points {
		binary.LittleEndian.PutUint64(buf[:8], uint64(p.Timestamp.UnixNano()))
		binary.LittleEndian.PutUint64(buf[8:], math.Float64bits(p.Value))
		_, _ = d.Write(buf[:])
	}
	return d.Sum64()
}

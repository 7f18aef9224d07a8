package engine

import (
	"github.com/google/uuid"

	"github.com/hammamikhairi/vitalsvoice/internal/domain"
)

// Signature fingerprints the newest reading of a batch so a redundant poll
// delivering the same data is not announced twice. A reading without a
// timestamp gets a random component and therefore never matches.
func Signature(b domain.Batch) string {
	r, ok := b.Latest()
	if !ok {
		return ""
	}
	ts := r.Timestamp
	if ts == "" {
		ts = uuid.NewString()
	}
	return plainNumber(r.Temperature) + "-" + plainNumber(r.HeartRate) + "-" + plainNumber(r.Humidity) + "-" + ts
}

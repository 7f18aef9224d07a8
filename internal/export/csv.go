// Package export writes reading history in portable formats.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/hammamikhairi/vitalsvoice/internal/domain"
)

// Compile-time interface check.
var _ domain.Exporter = (*CSV)(nil)

// IST is India Standard Time, the zone the dashboard displays.
var IST = time.FixedZone("IST", 5*3600+30*60)

// InvalidDate replaces timestamps that cannot be parsed.
const InvalidDate = "Invalid date"

// Header is the first CSV row.
var Header = []string{"Timestamp (IST)", "Temperature (°C)", "Heart Rate (BPM)", "Humidity (%)"}

// Sensor timestamps carry no zone and are UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTimestamp parses a sensor timestamp. Zone-less values are UTC.
func ParseTimestamp(ts string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, ts); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", ts)
}

// FormatIST renders a sensor timestamp as "dd/mm/yyyy, hh:mm:ss am" in IST,
// or InvalidDate.
func FormatIST(ts string) string {
	t, err := ParseTimestamp(ts)
	if err != nil {
		return InvalidDate
	}
	return t.In(IST).Format("02/01/2006, 03:04:05 pm")
}

// CSV exports readings as comma-separated values.
type CSV struct{}

// Export writes the header and one row per reading, in the given order.
func (CSV) Export(w io.Writer, readings []domain.Reading) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, r := range readings {
		row := []string{
			FormatIST(r.Timestamp),
			number(r.Temperature),
			number(r.HeartRate),
			number(r.Humidity),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

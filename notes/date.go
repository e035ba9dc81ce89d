package notes

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateTimeLayout renders UTC instants with a literal Z and no fractional seconds.
const DateTimeLayout = "2006-01-02T15:04:05Z"

// ResolvedDate is the whole UTC day an event covers.
type ResolvedDate struct {
	Start time.Time
	End   time.Time
}

func (d ResolvedDate) StartString() string {
	return d.Start.UTC().Format(DateTimeLayout)
}

func (d ResolvedDate) EndString() string {
	return d.End.UTC().Format(DateTimeLayout)
}

// ResolveDate maps a DD/MM key to a day in the current year, or in the next one
// when the zero-based month of the key is greater than the one-based month of
// now. Days and months outside their range roll over into the neighbouring
// month or year; validity is left to the calendar service.
func ResolveDate(key string, now time.Time) (ResolvedDate, error) {
	parts := strings.Split(key, "/")
	if len(parts) != 2 {
		return ResolvedDate{}, fmt.Errorf("date key %q: want DD/MM", key)
	}
	day, err := strconv.Atoi(parts[0])
	if err != nil {
		return ResolvedDate{}, fmt.Errorf("date key %q: day: %w", key, err)
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return ResolvedDate{}, fmt.Errorf("date key %q: month: %w", key, err)
	}

	month--
	year := now.Year()
	if month > int(now.Month()) {
		year++
	}

	// time.Month is one-based; time.Date normalizes overflow the same way in
	// both directions.
	return ResolvedDate{
		Start: time.Date(year, time.Month(month+1), day, 0, 0, 0, 0, time.UTC),
		End:   time.Date(year, time.Month(month+1), day, 23, 59, 59, 0, time.UTC),
	}, nil
}

package domain

import (
	"fmt"
	"time"
)

// DateLayout is the calendar date format used for test dates.
const DateLayout = "2006-01-02"

// TestConfiguration identifies one recorded test run.
// Corresponds to tests table. Read-only to this layer.
type TestConfiguration struct {
	ConfigID string    // unique per run
	Date     time.Time // calendar date of the run (UTC midnight)
}

// Label renders the selector label "<config_id> - <date>".
func (c TestConfiguration) Label() string {
	return fmt.Sprintf("%s - %s", c.ConfigID, c.Date.Format(DateLayout))
}

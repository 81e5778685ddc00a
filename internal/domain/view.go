package domain

import (
	"fmt"
	"strings"
)

// DefaultWindow is the default moving-average window, in samples.
const DefaultWindow = 30

// ViewRequest is the explicit, immutable selection handed from the
// presentation layer to the core. The core keeps no selection state.
type ViewRequest struct {
	ConfigIDs   []string   // one for a sensor view, several for a test comparison
	SensorNames []string   // one for a sensor view, several for a sensor comparison
	Range       *TimeRange // nil selects the full series
	Window      int        // moving-average window; 0 selects DefaultWindow
	Bypass      bool       // skip cached list queries (configs, sensor names)
}

// EffectiveWindow returns the window to apply.
func (r ViewRequest) EffectiveWindow() int {
	if r.Window == 0 {
		return DefaultWindow
	}
	return r.Window
}

// Validate checks the request shape before any query is built.
func (r ViewRequest) Validate() error {
	if len(r.ConfigIDs) == 0 {
		return fmt.Errorf("%w: at least one config_id is required", ErrMalformedInput)
	}
	if len(r.SensorNames) == 0 {
		return fmt.Errorf("%w: at least one sensor is required", ErrMalformedInput)
	}
	for _, id := range r.ConfigIDs {
		if strings.TrimSpace(id) == "" {
			return fmt.Errorf("%w: empty config_id", ErrMalformedInput)
		}
	}
	for _, name := range r.SensorNames {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("%w: empty sensor name", ErrMalformedInput)
		}
	}
	if r.Window < 0 {
		return fmt.Errorf("%w: window must be positive, got %d", ErrMalformedInput, r.Window)
	}
	if r.Range != nil && r.Range.End.Before(r.Range.Start) {
		return fmt.Errorf("%w: range end is before start", ErrMalformedInput)
	}
	return nil
}

// Package fixtures generates a deterministic demo dataset of test runs.
package fixtures

import (
	"context"
	"fmt"
	"math"
	"time"

	"helios-dashboard/internal/domain"
	"helios-dashboard/internal/storage"
)

// Options size the generated dataset.
type Options struct {
	Interval  time.Duration // spacing between samples
	Duration  time.Duration // length of each test run
	BatchSize int           // samples per InsertBulk call
}

// DefaultOptions is a two-hour run sampled every 10 seconds.
var DefaultOptions = Options{
	Interval:  10 * time.Second,
	Duration:  2 * time.Hour,
	BatchSize: 10000,
}

// Dataset is a full set of catalog rows and samples.
type Dataset struct {
	Configs   []*domain.TestConfiguration
	Sensors   []*domain.Sensor
	Actuators []*domain.Actuator
	Samples   []*domain.SensorSample
	Events    []*domain.ActuatorEvent
}

// run describes one demo test configuration.
type run struct {
	configID string
	start    time.Time
	ambient  float64 // starting temperature, degrees C
	setpoint float64 // plateau temperature, degrees C
}

var runs = []run{
	{configID: "CFG-1001", start: time.Date(2024, 3, 12, 9, 0, 0, 0, time.UTC), ambient: 21, setpoint: 180},
	{configID: "CFG-1002", start: time.Date(2024, 3, 19, 13, 30, 0, 0, time.UTC), ambient: 19, setpoint: 200},
	{configID: "CFG-1003", start: time.Date(2024, 4, 2, 8, 15, 0, 0, time.UTC), ambient: 23, setpoint: 165},
}

// signal yields a sensor value t seconds into a run.
type signal func(r run, t float64) float64

var sensors = []struct {
	name   string
	signal signal
}{
	{"Thermocouple1", func(r run, t float64) float64 {
		return r.ambient + (r.setpoint-r.ambient)*(1-math.Exp(-t/1200)) + 1.5*math.Sin(t/45)
	}},
	{"Thermocouple2", func(r run, t float64) float64 {
		return r.ambient + 0.8*(r.setpoint-r.ambient)*(1-math.Exp(-t/1800)) + math.Sin(t/60)
	}},
	{"Pressure1", func(r run, t float64) float64 {
		return 1.013 + 0.4*(1-math.Exp(-t/900)) + 0.02*math.Sin(t/30)
	}},
	{"Flow1", func(_ run, t float64) float64 {
		return 12 + 3*math.Sin(t/600) + 0.5*math.Sin(t/17)
	}},
}

var actuators = []struct {
	name   string
	period time.Duration // time between toggles
}{
	{"Heater1", 20 * time.Minute},
	{"Valve1", 7 * time.Minute},
}

// Generate builds the demo dataset.
func Generate(opts Options) (*Dataset, error) {
	if opts.Interval <= 0 || opts.Duration < opts.Interval {
		return nil, fmt.Errorf("invalid fixture options: interval %s, duration %s", opts.Interval, opts.Duration)
	}

	ds := &Dataset{}
	steps := int(opts.Duration / opts.Interval)
	var sensorID, actuatorID int64

	for _, r := range runs {
		ds.Configs = append(ds.Configs, &domain.TestConfiguration{
			ConfigID: r.configID,
			Date:     r.start.Truncate(24 * time.Hour),
		})

		for _, s := range sensors {
			sensorID++
			ds.Sensors = append(ds.Sensors, &domain.Sensor{ID: sensorID, Name: s.name, ConfigID: r.configID})
			for i := 0; i <= steps; i++ {
				offset := time.Duration(i) * opts.Interval
				ds.Samples = append(ds.Samples, &domain.SensorSample{
					SensorID:  sensorID,
					Timestamp: r.start.Add(offset).Unix(),
					Value:     round(s.signal(r, offset.Seconds()), 3),
				})
			}
		}

		for _, a := range actuators {
			actuatorID++
			ds.Actuators = append(ds.Actuators, &domain.Actuator{ID: actuatorID, Name: a.name, ConfigID: r.configID})
			on := true
			for offset := time.Duration(0); offset <= opts.Duration; offset += a.period {
				value := 0.0
				if on {
					value = 1
				}
				ds.Events = append(ds.Events, &domain.ActuatorEvent{
					ActuatorID: actuatorID,
					Timestamp:  r.start.Add(offset).Unix(),
					Value:      value,
				})
				on = !on
			}
		}
	}
	return ds, nil
}

// Load writes ds through the given writers.
func Load(ctx context.Context, ds *Dataset, catalog storage.CatalogWriter, samples storage.SampleWriter, batchSize int) error {
	for _, c := range ds.Configs {
		if err := catalog.InsertConfig(ctx, c); err != nil {
			return fmt.Errorf("insert config %s: %w", c.ConfigID, err)
		}
	}
	for _, s := range ds.Sensors {
		if err := catalog.InsertSensor(ctx, s); err != nil {
			return fmt.Errorf("insert sensor %s/%s: %w", s.ConfigID, s.Name, err)
		}
	}
	for _, a := range ds.Actuators {
		if err := catalog.InsertActuator(ctx, a); err != nil {
			return fmt.Errorf("insert actuator %s/%s: %w", a.ConfigID, a.Name, err)
		}
	}
	if err := catalog.InsertActuatorEvents(ctx, ds.Events); err != nil {
		return fmt.Errorf("insert actuator events: %w", err)
	}

	if batchSize <= 0 {
		batchSize = len(ds.Samples)
	}
	for start := 0; start < len(ds.Samples); start += batchSize {
		end := min(start+batchSize, len(ds.Samples))
		if err := samples.InsertBulk(ctx, ds.Samples[start:end]); err != nil {
			return fmt.Errorf("insert samples [%d:%d]: %w", start, end, err)
		}
	}
	return nil
}

// LoadFixtures generates the demo dataset and writes it.
func LoadFixtures(ctx context.Context, catalog storage.CatalogWriter, samples storage.SampleWriter, opts Options) (*Dataset, error) {
	ds, err := Generate(opts)
	if err != nil {
		return nil, err
	}
	if err := Load(ctx, ds, catalog, samples, opts.BatchSize); err != nil {
		return nil, err
	}
	return ds, nil
}

func round(v float64, digits int) float64 {
	p := math.Pow(10, float64(digits))
	return math.Round(v*p) / p
}

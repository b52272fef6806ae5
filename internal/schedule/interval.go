package schedule

import (
	"time"
)

type IntervalStep struct {
	Time time.Time
	// Brightness is on the 0-255 command scale.
	Brightness float64
	// TemperatureKelvin is the colour temperature at this step.
	TemperatureKelvin int
}

// Interval is the active slice of a day pattern: the two steps the current
// time falls between.
type Interval struct {
	Start IntervalStep
	End   IntervalStep
}

// Target is the interpolated output for a point in time.
type Target struct {
	Brightness uint8
	Mireds     int
}

// CalculateTarget linearly interpolates brightness and temperature for the
// given timestamp and converts the temperature to mireds.
func (i Interval) CalculateTarget(timestamp time.Time) Target {

	intervalDuration := i.End.Time.Sub(i.Start.Time)
	intervalProgress := timestamp.Sub(i.Start.Time)
	percentProgress := intervalProgress.Seconds() / intervalDuration.Seconds()
	if percentProgress < 0 {
		percentProgress = 0
	}
	if percentProgress > 1 {
		percentProgress = 1
	}

	temperatureDiff := i.End.TemperatureKelvin - i.Start.TemperatureKelvin
	targetKelvin := i.Start.TemperatureKelvin + int(float64(temperatureDiff)*percentProgress)

	brightnessDiff := i.End.Brightness - i.Start.Brightness
	targetBrightness := i.Start.Brightness + brightnessDiff*percentProgress
	if targetBrightness < 0 {
		targetBrightness = 0
	}
	if targetBrightness > 255 {
		targetBrightness = 255
	}

	return Target{
		Brightness: uint8(targetBrightness),
		Mireds:     miredsFromKelvin(targetKelvin),
	}
}

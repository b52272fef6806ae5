package schedule

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/nathan-osman/go-sunrise"
	"github.com/samber/lo"

	"github.com/controlfreak/edidio2mqtt/internal/config"
	"github.com/controlfreak/edidio2mqtt/internal/lights"
)

// Service resolves day patterns into light targets. Patterns drive
// tunable-white lights only; colour lights ignore schedules.
type Service struct {
	logger   *log.Logger
	lat, lng float64
	patterns []config.DayPattern
}

func NewService(logger *log.Logger, geoLocation string, patterns []config.DayPattern) *Service {
	latLng := strings.Split(geoLocation, ",")
	var lat, lng float64
	if len(latLng) == 2 {
		lat, _ = strconv.ParseFloat(strings.TrimSpace(latLng[0]), 64)
		lng, _ = strconv.ParseFloat(strings.TrimSpace(latLng[1]), 64)
	} else if geoLocation != "" {
		logger.Warn("Invalid geoLocation, expected \"lat,lng\"", "geoLocation", geoLocation)
	}

	return &Service{logger: logger, lat: lat, lng: lng, patterns: patterns}
}

// TargetForTime returns the interpolated target for the named pattern, or
// false when the pattern doesn't exist or the time falls outside it.
func (s *Service) TargetForTime(patternName string, t time.Time) (Target, bool) {
	interval := s.intervalForTime(patternName, t)
	if interval == nil {
		return Target{}, false
	}
	return interval.CalculateTarget(t), true
}

func (s *Service) intervalForTime(patternName string, t time.Time) *Interval {

	pattern, found := lo.Find(s.patterns, func(p config.DayPattern) bool { return p.Name == patternName })
	if !found {
		s.logger.Error("Unknown day pattern", "pattern", patternName)
		return nil
	}
	if len(pattern.Steps) < 2 {
		s.logger.Error("A day pattern needs at least two steps", "pattern", patternName)
		return nil
	}

	sunriseAt, sunsetAt := sunrise.SunriseSunset(
		s.lat, s.lng,
		t.Year(), t.Month(), t.Day(),
	)

	for i := 0; i < len(pattern.Steps)-1; i++ {

		startStep := pattern.Steps[i]
		startTime := timeFromPattern(startStep.Time, sunriseAt, sunsetAt, t)

		endStep := pattern.Steps[i+1]
		endTime := timeFromPattern(endStep.Time, sunriseAt, sunsetAt, t)

		if t.Compare(startTime) > -1 && t.Before(endTime) {
			return &Interval{
				Start: IntervalStep{
					Time:              startTime,
					Brightness:        float64(startStep.Brightness),
					TemperatureKelvin: startStep.Temperature,
				},
				End: IntervalStep{
					Time:              endTime,
					Brightness:        float64(endStep.Brightness),
					TemperatureKelvin: endStep.Temperature,
				},
			}
		}
	}

	return nil
}

func timeFromPattern(patternTime string, sunriseAt time.Time, sunsetAt time.Time, baseDate time.Time) time.Time {

	// sunrise or sunrise offset
	if strings.Contains(patternTime, "sunrise") {
		return timeFromAstronomicalPatternTime(patternTime, "sunrise", sunriseAt.Local())
	}

	// sunset or sunset offset
	if strings.Contains(patternTime, "sunset") {
		return timeFromAstronomicalPatternTime(patternTime, "sunset", sunsetAt.Local())
	}

	// start of day
	if strings.Contains(patternTime, "startofday") {
		return time.Date(baseDate.Year(), baseDate.Month(), baseDate.Day(), 0, 0, 0, 0, time.Local)
	}

	// end of day
	if strings.Contains(patternTime, "endofday") {
		return time.Date(baseDate.Year(), baseDate.Month(), baseDate.Day(), 23, 59, 59, 999999, time.Local)
	}

	// time e.g 19:30
	return timeFromConfigTimeString(patternTime, baseDate)
}

// returns a Time object built from the supplied time string (e.g. "06:30") and a base date
func timeFromConfigTimeString(timeString string, baseDate time.Time) time.Time {
	timeHM := strings.Split(timeString, ":")
	if len(timeHM) != 2 {
		return baseDate
	}
	hour, _ := strconv.Atoi(timeHM[0])
	mins, _ := strconv.Atoi(timeHM[1])
	return time.Date(baseDate.Year(), baseDate.Month(), baseDate.Day(), hour, mins, 0, 0, time.Local)
}

// returns an adjusted eventTime e.g ("sunset-1h", "sunset", 2023-06-27 21:43:18) -> 2023-06-27 20:43:18
func timeFromAstronomicalPatternTime(patternTime string, event string, eventTime time.Time) time.Time {
	if patternTime == event {
		return eventTime
	}
	offset, _ := time.ParseDuration(patternTime[len(event):])
	return eventTime.Add(offset)
}

// miredsFromKelvin converts a colour temperature to mireds, clamped to the
// range the DT8 lights accept.
func miredsFromKelvin(kelvin int) int {
	if kelvin <= 0 {
		return lights.MaxMireds
	}
	return lo.Clamp(1_000_000/kelvin, lights.MinMireds, lights.MaxMireds)
}

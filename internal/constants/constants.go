package constants

import "time"

const ScheduleUpdateInterval = time.Minute
const AvailabilityRefreshInterval = 30 * time.Second
const ScheduleApplyThrottle = 100 * time.Millisecond

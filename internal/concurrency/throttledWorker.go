package concurrency

import (
	"time"
)

// ThrottledWorker runs a job for each arg with a fixed gap between runs.
// Used to pace schedule updates so the controller isn't hit with a burst of
// sequences for every scheduled light at once.
type ThrottledWorker struct {
	interval    time.Duration
	jobCallback func(arg string) error
}

func NewThrottledWorker(interval time.Duration, jobCallback func(arg string) error) ThrottledWorker {
	return ThrottledWorker{interval: interval, jobCallback: jobCallback}
}

func (w *ThrottledWorker) Run(jobArgs []string) {

	jobArgsChannel := make(chan string, len(jobArgs))

	for _, arg := range jobArgs {
		jobArgsChannel <- arg
	}
	close(jobArgsChannel)
	limiter := time.NewTicker(w.interval)
	defer limiter.Stop()

	for arg := range jobArgsChannel {
		<-limiter.C
		_ = w.jobCallback(arg)
	}

}

package server

import "sync"

// RunningJob is a handle to a background task with a graceful shutdown hook.
type RunningJob struct {
	stop   chan struct{}
	closed chan struct{}
}

func (job *RunningJob) RequestStop() {
	close(job.stop)
}

func (job *RunningJob) AwaitStop() {
	<-job.closed
}

func SpawnJob(start func(), shutdown func()) RunningJob {
	job := RunningJob{
		stop:   make(chan struct{}),
		closed: make(chan struct{}),
	}
	go start()
	go func() {
		<-job.stop
		shutdown()
		close(job.closed)
	}()
	return job
}

// CombineJobs merges jobs into a single handle. Stopping the combined job
// stops every member and waits until all of them have wound down.
func CombineJobs(jobs ...RunningJob) RunningJob {
	combined := RunningJob{
		stop:   make(chan struct{}),
		closed: make(chan struct{}),
	}
	go func() {
		<-combined.stop
		var wg sync.WaitGroup
		for _, job := range jobs {
			job.RequestStop()
			wg.Add(1)
			go func(job RunningJob) {
				defer wg.Done()
				job.AwaitStop()
			}(job)
		}
		wg.Wait()
		close(combined.closed)
	}()
	return combined
}

// Package runner runs codec operations in the background on behalf of an
// interactive front end.
//
// A front end hands a [Job] to [Runner.Start] and keeps its own loop
// responsive while the job runs on another goroutine. Progress comes back as
// [Event]s. Only one job per operation may be in flight at a time; starting a
// second compress while one is running fails with
// [worldpack.ErrAlreadyInProgress], which is what lets the front end grey out
// the button that triggered it. Jobs can't be cancelled once started.
package runner

import (
	"fmt"
	"os"
	"sync"

	"github.com/dargueta/worldpack"
	"github.com/dargueta/worldpack/codec"
	"github.com/op/go-logging"
)

var log = logging.MustGetLogger("worldpack/runner")

// Operation names a codec entry point.
type Operation string

const (
	Compress   Operation = "compress"
	Decompress Operation = "decompress"
)

// Job is a single request from the front end.
type Job struct {
	InputPath  string
	OutputPath string
	Options    codec.Options
}

// Result is what a successful [Handler] returns.
type Result struct {
	Stats codec.Stats
	// Report is only set for decompression.
	Report *codec.Report
}

// Handler carries out a job. It runs on its own goroutine.
type Handler func(job Job) (Result, error)

// EventKind tells what happened to a job.
type EventKind int

const (
	Started EventKind = iota
	Finished
	Failed
)

func (k EventKind) String() string {
	switch k {
	case Started:
		return "started"
	case Finished:
		return "finished"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event reports a change in a job's status.
type Event struct {
	Operation Operation
	Kind      EventKind
	Job       Job
	// Result is only meaningful for Finished events.
	Result Result
	// Err is only set for Failed events.
	Err error
	// InputSize and OutputSize are the sizes of the job's files once it
	// finished, or -1 if they couldn't be determined.
	InputSize  int64
	OutputSize int64
}

// Runner tracks in-flight jobs and delivers their events.
type Runner struct {
	handlers map[Operation]Handler
	events   chan Event

	lock     sync.Mutex
	inFlight map[Operation]bool
	jobs     sync.WaitGroup
}

// DefaultHandlers returns handlers that run the codec's file operations.
func DefaultHandlers() map[Operation]Handler {
	return map[Operation]Handler{
		Compress: func(job Job) (Result, error) {
			stats, err := codec.CompressFile(job.InputPath, job.OutputPath, job.Options)
			return Result{Stats: stats}, err
		},
		Decompress: func(job Job) (Result, error) {
			report, err := codec.DecompressFile(job.InputPath, job.OutputPath, job.Options)
			return Result{Stats: report.Stats, Report: &report}, err
		},
	}
}

// New creates a runner using the codec's file operations. Up to `eventBuffer`
// events are queued before job goroutines block waiting for the front end to
// read them.
func New(eventBuffer int) *Runner {
	return NewWithHandlers(eventBuffer, DefaultHandlers())
}

// NewWithHandlers creates a runner with custom handlers.
func NewWithHandlers(eventBuffer int, handlers map[Operation]Handler) *Runner {
	return &Runner{
		handlers: handlers,
		events:   make(chan Event, eventBuffer),
		inFlight: make(map[Operation]bool, len(handlers)),
	}
}

// Events returns the channel events are delivered on. It is closed by
// [Runner.Close].
func (r *Runner) Events() <-chan Event {
	return r.events
}

// Busy is true if a job for `op` is in flight.
func (r *Runner) Busy(op Operation) bool {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.inFlight[op]
}

// Start launches `job` in the background. It fails without starting anything
// if the job is missing a path, the operation is unknown, or a job for the same
// operation is still running.
func (r *Runner) Start(op Operation, job Job) error {
	handler, ok := r.handlers[op]
	if !ok {
		return worldpack.ErrInvalidArgument.WithMessage(
			fmt.Sprintf("unknown operation %q", op))
	}
	if job.InputPath == "" || job.OutputPath == "" {
		return worldpack.ErrInvalidArgument.WithMessage(
			"please select input and output files")
	}
	if job.Options.WorldPath == "" {
		job.Options.WorldPath = worldpack.DefaultWorldFile
	}

	r.lock.Lock()
	if r.inFlight[op] {
		r.lock.Unlock()
		return worldpack.ErrAlreadyInProgress.WithMessage(string(op))
	}
	r.inFlight[op] = true
	r.jobs.Add(1)
	r.lock.Unlock()

	go r.run(op, job, handler)
	return nil
}

func (r *Runner) run(op Operation, job Job, handler Handler) {
	defer r.jobs.Done()

	log.Infof("%s running: %s -> %s", op, job.InputPath, job.OutputPath)
	r.events <- Event{Operation: op, Kind: Started, Job: job}

	result, err := handler(job)

	event := Event{
		Operation:  op,
		Job:        job,
		Result:     result,
		InputSize:  fileSize(job.InputPath),
		OutputSize: fileSize(job.OutputPath),
	}
	if err != nil {
		log.Errorf("%s failed: %s", op, err)
		event.Kind = Failed
		event.Err = err
	} else {
		log.Infof("%s finished", op)
		event.Kind = Finished
	}

	// Clear the in-flight flag before reporting, so a front end reacting to
	// the event can immediately start another job.
	r.lock.Lock()
	delete(r.inFlight, op)
	r.lock.Unlock()

	r.events <- event
}

// Wait blocks until every job started so far has finished and delivered its
// events. The event channel must be drained concurrently or this may block
// forever.
func (r *Runner) Wait() {
	r.jobs.Wait()
}

// Close waits for running jobs and closes the event channel. The runner must
// not be used afterwards.
func (r *Runner) Close() {
	r.Wait()
	close(r.events)
}

func fileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return -1
	}
	return info.Size()
}

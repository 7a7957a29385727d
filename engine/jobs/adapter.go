package jobs

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Daskott/raksha/colors"
	"github.com/Daskott/raksha/engine/logger"
	"github.com/go-co-op/gocron"
	"github.com/pkg/errors"
)

const QUEUE_SIZE = 16

var (
	ErrDuplicateHandler = errors.New("handler with provided name already mapped")
	ErrUnknownHandler   = errors.New("no handler mapped for job")
	ErrQueueFull        = errors.New("job queue is full")

	logg = logger.NewLogger().Named("jobs")
)

type JobParams struct {
	Name    string
	Handler string
}

type Handler func(ctx context.Context) error

// WorkerPoolAdapter runs registered handlers on a single worker, either on
// demand through Perform or on a cron schedule.
type WorkerPoolAdapter struct {
	cronScheduler *gocron.Scheduler
	handlers      map[string]Handler
	queue         chan JobParams
	timeout       time.Duration

	mu      sync.Mutex
	pending map[string]bool
	started bool
	cancel  context.CancelFunc
	done    chan struct{}
}

func NewWorkerAdapter(timeZoneArg string, timeout time.Duration) *WorkerPoolAdapter {
	return &WorkerPoolAdapter{
		cronScheduler: NewCronScheduler(timeZoneArg),
		handlers:      make(map[string]Handler),
		queue:         make(chan JobParams, QUEUE_SIZE),
		timeout:       timeout,
		pending:       make(map[string]bool),
	}
}

// NewCronScheduler returns a scheduler in the given time zone, falling back to UTC.
func NewCronScheduler(timeZoneArg string) *gocron.Scheduler {
	timeZone, err := time.LoadLocation(timeZoneArg)
	if err != nil {
		logg.Warnf("unknown time zone %q, using UTC", timeZoneArg)
		timeZone = time.UTC
	}

	scheduler := gocron.NewScheduler(timeZone)
	scheduler.TagsUnique()
	return scheduler
}

// Start starts the cron scheduler & worker
func (adapter *WorkerPoolAdapter) Start() error {
	adapter.mu.Lock()
	defer adapter.mu.Unlock()

	if adapter.started {
		return nil
	}

	logg.Info("Starting cron scheduler & worker")
	ctx, cancel := context.WithCancel(context.Background())
	adapter.cancel = cancel
	adapter.done = make(chan struct{})
	adapter.started = true

	go adapter.loop(ctx, adapter.done)
	adapter.cronScheduler.StartAsync()

	return nil
}

// Stop stops the cron scheduler & worker. Jobs still queued are dropped.
func (adapter *WorkerPoolAdapter) Stop() error {
	adapter.mu.Lock()
	if !adapter.started {
		adapter.mu.Unlock()
		return nil
	}
	adapter.started = false
	cancel, done := adapter.cancel, adapter.done
	adapter.mu.Unlock()

	logg.Info("Stopping cron scheduler & worker")
	adapter.cronScheduler.Stop()
	cancel()
	<-done

	return nil
}

// Register binds a name to a handler.
func (adapter *WorkerPoolAdapter) Register(name string, handler Handler) error {
	adapter.mu.Lock()
	defer adapter.mu.Unlock()

	if _, ok := adapter.handlers[name]; ok {
		return ErrDuplicateHandler
	}
	adapter.handlers[name] = handler
	return nil
}

// Perform sends a new job to the queue, now - to be executed as soon as the worker is available.
// A job whose name is already queued or running is skipped.
func (adapter *WorkerPoolAdapter) Perform(job JobParams) error {
	if strings.TrimSpace(job.Name) == "" || strings.TrimSpace(job.Handler) == "" {
		return fmt.Errorf("both a name & handler is required for a job")
	}

	adapter.mu.Lock()
	defer adapter.mu.Unlock()

	if _, ok := adapter.handlers[job.Handler]; !ok {
		return errors.Wrap(ErrUnknownHandler, job.Handler)
	}

	if adapter.pending[job.Name] {
		logg.Warnf("Duplicate job already in queue for: %v", job.Name)
		return nil
	}

	select {
	case adapter.queue <- job:
		adapter.pending[job.Name] = true
	default:
		return fmt.Errorf("error enqueuing job: %v, %v", job.Name, ErrQueueFull)
	}

	logg.Debugf("Enqueued job: %v", job.Name)
	return nil
}

// PeriodicallyPerform adds a job to the queue (to be executed)
// periodically, based on the 'cronExpression' expression provided
func (adapter *WorkerPoolAdapter) PeriodicallyPerform(cronExpression string, job JobParams) error {
	_, err := adapter.cronScheduler.Cron(cronExpression).Tag(job.Name).
		Do(
			func(job JobParams) {
				if err := adapter.Perform(job); err != nil {
					logg.Error(err)
				}
			},
			job,
		)
	if err != nil {
		return fmt.Errorf("PeriodicallyPerform: %v", err)
	}
	return nil
}

func (adapter *WorkerPoolAdapter) RemovePeriodicJob(jobName string) error {
	return adapter.cronScheduler.RemoveByTag(jobName)
}

// ----------------------------------------------------------------------------//
// Helper functions
// ----------------------------------------------------------------------------//

func (adapter *WorkerPoolAdapter) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	for {
		select {
		case <-ctx.Done():
			return
		case job := <-adapter.queue:
			adapter.process(ctx, job)
		}
	}
}

func (adapter *WorkerPoolAdapter) process(ctx context.Context, job JobParams) {
	adapter.mu.Lock()
	handler := adapter.handlers[job.Handler]
	adapter.mu.Unlock()

	defer func() {
		adapter.mu.Lock()
		delete(adapter.pending, job.Name)
		adapter.mu.Unlock()
	}()

	if adapter.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, adapter.timeout)
		defer cancel()
	}

	start := time.Now()
	if err := handler(ctx); err != nil {
		logg.Errorf(colors.Red("[%v] ")+"failed after %v: %v", job.Name, time.Since(start), err)
		return
	}
	logg.Infof(colors.Green("[%v] ")+"done in %v", job.Name, time.Since(start))
}

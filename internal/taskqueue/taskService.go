package taskqueue

import (
	"time"

	"github.com/akolanti/DocGateway/internal/metrics"
	"github.com/akolanti/DocGateway/pkg/logger_i"
)

// Task asks the pool to attempt an ingestion start. DocumentIds is a hint;
// the executor collects every uploaded document when the task runs, so two
// tasks for different documents can collapse into one engine job.
type Task struct {
	TaskId      string
	DocumentIds []string
	Attempt     int
	TraceId     string
	EnqueuedAt  time.Time
}

type Service struct {
	TaskChannel       chan Task
	DispatcherChannel chan bool
	logger            *logger_i.Logger
}

type ServiceConfig struct {
	TaskChannel       chan Task
	DispatcherChannel chan bool
}

func InitTaskService(cfg ServiceConfig) *Service {
	return &Service{
		TaskChannel:       cfg.TaskChannel,
		DispatcherChannel: cfg.DispatcherChannel,
		logger:            logger_i.NewLogger("TaskQueue"),
	}
}

// Enqueue hands a task to the pool without blocking. A full buffer drops the
// task; the status poller picks stranded documents back up.
func (s *Service) Enqueue(task Task) bool {
	select {
	case s.TaskChannel <- task:
		metrics.IncrementTasksInQueue()
		s.signalDispatcher()
		return true
	default:
		s.logger.Error("Task buffer full, dropping task", "taskId", task.TaskId)
		return false
	}
}

func (s *Service) signalDispatcher() {
	select {
	case s.DispatcherChannel <- true:
		metrics.StartDispatcherSignalCount()
	default:
	}
}

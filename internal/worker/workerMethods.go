package worker

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/akolanti/DocGateway/internal/config"
	"github.com/akolanti/DocGateway/internal/metrics"
	"github.com/akolanti/DocGateway/internal/taskqueue"
)

// Executor runs a single ingestion-start task. Implementations own their
// retry policy; the pool only provides the goroutine.
type Executor interface {
	Execute(ctx context.Context, task taskqueue.Task)
}

func executeTask(task taskqueue.Task) {
	start := time.Now()
	defer func() {
		metrics.CaptureExecutionMetrics("ingest_start", time.Since(start))
	}()
	ctxTrace := context.WithValue(context.Background(), config.TRACE_ID_KEY, task.TraceId)
	ctx, cancel := context.WithTimeout(ctxTrace, 60*time.Second)
	defer cancel()
	logger.Debug("Processing task:", "task Id:", task.TaskId)

	_executor.Execute(ctx, task)
}

func removeWorker(reason string) {

	workerWaitGroup.Done()
	atomic.AddInt64(&currentWorkerCount, -1)
	logger.Info("Removed worker ", "reason", reason, "workerCount", currentWorkerCount)
	metrics.DecrementActiveWorkerCount()

}

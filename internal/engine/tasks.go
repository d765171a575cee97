package engine

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/candidate-ranker/internal/types"
)

// TaskStatus is the lifecycle state of a background rebuild
type TaskStatus string

// Task states
const (
	TaskPending   TaskStatus = "pending"
	TaskRunning   TaskStatus = "running"
	TaskCompleted TaskStatus = "completed"
	TaskFailed    TaskStatus = "failed"
)

// RebuildTask reports the progress of a background rebuild
type RebuildTask struct {
	ID         string            `json:"id"`
	Status     TaskStatus        `json:"status"`
	Stats      *types.GraphStats `json:"stats,omitempty"`
	Error      string            `json:"error,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
	FinishedAt *time.Time        `json:"finished_at,omitempty"`
}

type taskRegistry struct {
	mu    sync.RWMutex
	tasks map[string]*RebuildTask
}

func newTaskRegistry() *taskRegistry {
	return &taskRegistry{tasks: make(map[string]*RebuildTask)}
}

func (r *taskRegistry) create() string {
	id := uuid.NewString()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks[id] = &RebuildTask{ID: id, Status: TaskPending, CreatedAt: time.Now().UTC()}
	return id
}

func (r *taskRegistry) update(id string, fn func(t *RebuildTask)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.tasks[id]; ok {
		fn(t)
	}
}

func (r *taskRegistry) get(id string) (RebuildTask, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tasks[id]
	if !ok {
		return RebuildTask{}, false
	}
	return *t, true
}

// StartRebuild refreshes the snapshot from the source in the background and returns a
// task ID for RebuildStatus. The rebuild outlives cancellation of ctx.
func (e *Engine) StartRebuild(ctx context.Context, src CorpusSource) string {
	id := e.tasks.create()
	bg := context.WithoutCancel(ctx)

	go func() {
		e.tasks.update(id, func(t *RebuildTask) { t.Status = TaskRunning })

		stats, err := e.Refresh(bg, src)
		finished := time.Now().UTC()
		e.tasks.update(id, func(t *RebuildTask) {
			t.FinishedAt = &finished
			if err != nil {
				t.Status = TaskFailed
				t.Error = err.Error()
				return
			}
			t.Status = TaskCompleted
			t.Stats = &stats
		})
		if err != nil {
			e.log.Warn("background rebuild failed", zap.String("task", id), zap.Error(err))
		}
	}()

	return id
}

// RebuildStatus returns the state of a background rebuild
func (e *Engine) RebuildStatus(id string) (RebuildTask, bool) {
	return e.tasks.get(id)
}

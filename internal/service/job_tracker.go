package service

import (
	"context"

	"github.com/google/uuid"

	"copyforge-be/internal/entity"
	"copyforge-be/internal/pkg/logger"
	"copyforge-be/internal/repository/specification"
	"copyforge-be/internal/repository/unitofwork"
	"copyforge-be/internal/websocket"
	"copyforge-be/pkg/events"
	pktNats "copyforge-be/pkg/nats"
	"copyforge-be/pkg/pipeline"
)

// jobTracker persists job lifecycle transitions and fans them out over
// websocket and the event bus. Once a job is terminal every further
// transition is dropped, so a crashed strategy goroutine cannot resurrect
// a failed job.
type jobTracker struct {
	uowFactory unitofwork.RepositoryFactory
	publisher  *pktNats.Publisher
	hub        *websocket.Hub
	logger     logger.ILogger
}

func NewJobTracker(uowFactory unitofwork.RepositoryFactory, publisher *pktNats.Publisher, hub *websocket.Hub, log logger.ILogger) pipeline.Tracker {
	return &jobTracker{
		uowFactory: uowFactory,
		publisher:  publisher,
		hub:        hub,
		logger:     log,
	}
}

func (t *jobTracker) Start(ctx context.Context, jobId uuid.UUID) {
	t.transition(ctx, jobId, func(job *entity.Job) {
		job.Status = entity.JobStatusRunning
		job.CurrentStep = "Starting"
		job.Progress = 0
	})
}

func (t *jobTracker) UpdateProgress(ctx context.Context, jobId uuid.UUID, step string, progress int) {
	t.transition(ctx, jobId, func(job *entity.Job) {
		job.CurrentStep = step
		job.Progress = progress
	})
}

func (t *jobTracker) Complete(ctx context.Context, jobId uuid.UUID, metadata map[string]interface{}) {
	job := t.transition(ctx, jobId, func(job *entity.Job) {
		job.Status = entity.JobStatusCompleted
		job.CurrentStep = "Completed"
		job.Progress = 100
		job.Metadata = metadata
	})
	if job == nil {
		return
	}
	t.mirrorSession(ctx, job)
	t.publish(ctx, events.NewJobCompletedEvent(job.Id.String(), t.sessionIdFor(ctx, job), job.UserId.String(), job.UserEmail))
}

func (t *jobTracker) Fail(ctx context.Context, jobId uuid.UUID, message string) {
	job := t.transition(ctx, jobId, func(job *entity.Job) {
		job.Status = entity.JobStatusFailed
		job.CurrentStep = "Failed"
		job.ErrorMessage = message
	})
	if job == nil {
		return
	}
	t.mirrorSession(ctx, job)
	t.publish(ctx, events.NewJobFailedEvent(job.Id.String(), t.sessionIdFor(ctx, job), job.UserId.String(), job.UserEmail, message))
}

// transition applies mutate under the terminal guard and persists the
// result. Returns the updated job, or nil when the transition was dropped.
func (t *jobTracker) transition(ctx context.Context, jobId uuid.UUID, mutate func(*entity.Job)) *entity.Job {
	uow := t.uowFactory.NewUnitOfWork(ctx)
	repo := uow.JobRepository()

	job, err := repo.FindOne(ctx, specification.ByID{ID: jobId})
	if err != nil || job == nil {
		t.logger.Error("JobTracker", "Failed to load job for transition", map[string]interface{}{
			"jobId": jobId,
			"error": errString(err),
		})
		return nil
	}
	if job.Status.Terminal() {
		t.logger.Warn("JobTracker", "Dropping transition on terminal job", map[string]interface{}{
			"jobId":  jobId,
			"status": job.Status,
		})
		return nil
	}

	mutate(job)

	if err := repo.Update(ctx, job); err != nil {
		t.logger.Error("JobTracker", "Failed to persist job transition", map[string]interface{}{
			"jobId": jobId,
			"error": err.Error(),
		})
		return nil
	}

	if t.hub != nil {
		t.hub.Send(job.UserId, "job_update", map[string]interface{}{
			"job_id":       job.Id,
			"status":       job.Status,
			"current_step": job.CurrentStep,
			"progress":     job.Progress,
		})
	}
	return job
}

// mirrorSession copies the job's terminal status onto its session so
// session listings reflect outcome without joining the jobs table.
func (t *jobTracker) mirrorSession(ctx context.Context, job *entity.Job) {
	uow := t.uowFactory.NewUnitOfWork(ctx)
	repo := uow.SessionRepository()

	session, err := repo.FindOne(ctx, specification.Filter("job_id", job.Id))
	if err != nil || session == nil {
		return
	}
	session.Status = job.Status
	if err := repo.Update(ctx, session); err != nil {
		t.logger.Warn("JobTracker", "Failed to mirror status onto session", map[string]interface{}{
			"sessionId": session.Id,
			"error":     err.Error(),
		})
	}
}

func (t *jobTracker) sessionIdFor(ctx context.Context, job *entity.Job) string {
	uow := t.uowFactory.NewUnitOfWork(ctx)
	session, err := uow.SessionRepository().FindOne(ctx, specification.Filter("job_id", job.Id))
	if err != nil || session == nil {
		return ""
	}
	return session.Id.String()
}

func (t *jobTracker) publish(ctx context.Context, event events.Event) {
	if t.publisher == nil {
		return
	}
	if err := t.publisher.Publish(ctx, event); err != nil {
		t.logger.Warn("JobTracker", "Failed to publish job event", map[string]interface{}{
			"type":  event.EventType(),
			"error": err.Error(),
		})
	}
}

func errString(err error) string {
	if err == nil {
		return "record not found"
	}
	return err.Error()
}

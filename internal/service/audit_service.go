package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/organic-api/internal/models"
	"github.com/noah-isme/organic-api/pkg/jobs"
)

// AuditService writes audit rows from a background queue so mutations do not wait on the insert.
type AuditService struct {
	repo   auditWriter
	queue  *jobs.Queue
	logger *zap.Logger
}

// NewAuditService constructs the service. Call Start before use and Stop on shutdown.
func NewAuditService(repo auditWriter, logger *zap.Logger, cfg jobs.QueueConfig) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &AuditService{repo: repo, logger: logger}
	cfg.Logger = logger
	s.queue = jobs.NewQueue("audit", s.handle, cfg)
	return s
}

// Start launches the audit workers.
func (s *AuditService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop flushes buffered entries and stops the workers.
func (s *AuditService) Stop() {
	s.queue.Stop()
}

// Create schedules the entry for insertion.
func (s *AuditService) Create(ctx context.Context, entry *models.AuditLog) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	return s.queue.Enqueue(jobs.Job{ID: entry.ID, Type: entry.Action, Payload: entry})
}

func (s *AuditService) handle(ctx context.Context, job jobs.Job) error {
	entry, ok := job.Payload.(*models.AuditLog)
	if !ok {
		s.logger.Error("unexpected audit payload", zap.String("job_id", job.ID))
		return nil
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return fmt.Errorf("insert audit log %s: %w", entry.ID, err)
	}
	return nil
}

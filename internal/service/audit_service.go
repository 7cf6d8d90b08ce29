package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/inteduweb-admin/internal/models"
	appErrors "github.com/noah-isme/inteduweb-admin/pkg/errors"
	"github.com/noah-isme/inteduweb-admin/pkg/jobs"
	"github.com/noah-isme/inteduweb-admin/pkg/middleware/requestid"
)

const auditJobType = "audit.write"

type auditRepository interface {
	Create(ctx context.Context, entry *models.AuditLog) error
	ListRecent(ctx context.Context, resource string, limit int) ([]models.AuditLog, error)
}

// AuditServiceConfig sizes the writer pool.
type AuditServiceConfig struct {
	Workers    int
	Retries    int
	RetryDelay time.Duration
}

// AuditService journals mutation outcomes asynchronously. Recording never
// blocks the command that produced the entry.
type AuditService struct {
	repo    auditRepository
	queue   *jobs.Queue
	metrics *MetricsService
	logger  *zap.Logger
	now     func() time.Time
}

// NewAuditService constructs the service; Start must be called before Record
// has any effect.
func NewAuditService(repo auditRepository, metrics *MetricsService, cfg AuditServiceConfig, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 2 * time.Second
	}
	svc := &AuditService{repo: repo, metrics: metrics, logger: logger, now: time.Now}
	svc.queue = jobs.NewQueue("audit", svc.handle, jobs.QueueConfig{
		Workers:    cfg.Workers,
		MaxRetries: cfg.Retries,
		RetryDelay: cfg.RetryDelay,
		Logger:     logger,
	})
	return svc
}

// Start launches the writer pool.
func (s *AuditService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop waits for the writers to exit.
func (s *AuditService) Stop() {
	s.queue.Stop()
}

// Record enqueues an entry, filling its id, timestamp and request id.
func (s *AuditService) Record(ctx context.Context, entry models.AuditLog) {
	if s == nil {
		return
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = s.now().UTC()
	}
	if entry.RequestID == nil {
		if id := requestid.FromContext(ctx); id != "" {
			entry.RequestID = &id
		}
	}
	if err := s.queue.TryEnqueue(jobs.Job{ID: entry.ID, Type: auditJobType, Payload: entry}); err != nil {
		s.logger.Warn("audit entry dropped", zap.String("action", entry.Action), zap.String("resource", entry.Resource), zap.Error(err))
	}
}

// Recent lists the newest journal entries.
func (s *AuditService) Recent(ctx context.Context, resource string, limit int) ([]models.AuditLog, error) {
	if s == nil || s.repo == nil {
		return nil, appErrors.ErrDisabled
	}
	logs, err := s.repo.ListRecent(ctx, resource, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list audit logs")
	}
	return logs, nil
}

func (s *AuditService) handle(ctx context.Context, job jobs.Job) error {
	entry, ok := job.Payload.(models.AuditLog)
	if !ok {
		return fmt.Errorf("unexpected audit payload %T", job.Payload)
	}
	start := time.Now()
	err := s.repo.Create(ctx, &entry)
	s.metrics.ObserveDBQuery("audit_insert", time.Since(start))
	return err
}

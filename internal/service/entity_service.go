package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/noah-isme/inteduweb-admin/internal/models"
	appErrors "github.com/noah-isme/inteduweb-admin/pkg/errors"
)

// Entity is a record managed through an EntityService. P is its request body.
type Entity[P any] interface {
	EntityID() *int64
	Payload() P
}

type entityRepository[T any, P any] interface {
	Resource() string
	List(ctx context.Context, page models.PageRequest) ([]T, error)
	Search(ctx context.Context, q string) ([]T, error)
	Get(ctx context.Context, id int64) (T, error)
	Create(ctx context.Context, payload P) (T, error)
	Update(ctx context.Context, payload P) (T, error)
	Delete(ctx context.Context, id int64) error
}

// StatePublisher receives a snapshot after every transition.
type StatePublisher interface {
	Publish(topic string, payload interface{})
}

// AuditRecorder journals mutation outcomes.
type AuditRecorder interface {
	Record(ctx context.Context, entry models.AuditLog)
}

// EntityServiceConfig carries the per-workspace collaborators of a controller.
type EntityServiceConfig struct {
	SessionID string
	// Label is the singular entity name used in messages, e.g. "classroom".
	Label     string
	Publisher StatePublisher
	Audit     AuditRecorder
	Logger    *zap.Logger
}

// EntityService dispatches CRUD commands for one entity type and owns that
// entity's view state. Transitions are applied one at a time.
type EntityService[T Entity[P], P any] struct {
	repo      entityRepository[T, P]
	sessionID string
	label     string
	publisher StatePublisher
	audit     AuditRecorder
	logger    *zap.Logger

	mu       sync.Mutex
	state    EntityState[T]
	lastPage models.PageRequest
}

// NewEntityService constructs a controller in its initial state.
func NewEntityService[T Entity[P], P any](repo entityRepository[T, P], cfg EntityServiceConfig) *EntityService[T, P] {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Label == "" {
		cfg.Label = strings.TrimSuffix(repo.Resource(), "s")
	}
	return &EntityService[T, P]{
		repo:      repo,
		sessionID: cfg.SessionID,
		label:     cfg.Label,
		publisher: cfg.Publisher,
		audit:     cfg.Audit,
		logger:    cfg.Logger.With(zap.String("resource", repo.Resource())),
		state:     InitialState[T](),
	}
}

// Resource returns the REST resource name.
func (s *EntityService[T, P]) Resource() string {
	return s.repo.Resource()
}

// Topic is the live-state channel for this controller.
func (s *EntityService[T, P]) Topic() string {
	return s.sessionID + ":" + s.repo.Resource()
}

// Snapshot returns a copy of the current state.
func (s *EntityService[T, P]) Snapshot() EntityState[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.state
	snap.Entities = cloneSlice(s.state.Entities)
	return snap
}

// Reset restores the initial state.
func (s *EntityService[T, P]) Reset() {
	s.dispatch(Action[T]{Op: OpReset})
}

// Search replaces the list with the search results. A blank query is ignored.
func (s *EntityService[T, P]) Search(ctx context.Context, query string) Result[[]T] {
	query = strings.TrimSpace(query)
	if query == "" {
		return Result[[]T]{}
	}
	return s.fetchList(ctx, OpSearch, func() ([]T, error) {
		return s.repo.Search(ctx, query)
	})
}

// ListAll replaces the list with every record.
func (s *EntityService[T, P]) ListAll(ctx context.Context, page models.PageRequest) Result[[]T] {
	s.mu.Lock()
	s.lastPage = page
	s.mu.Unlock()
	return s.fetchList(ctx, OpList, func() ([]T, error) {
		return s.repo.List(ctx, page)
	})
}

// Get loads one record into the state.
func (s *EntityService[T, P]) Get(ctx context.Context, id int64) Result[T] {
	s.dispatch(Action[T]{Op: OpGet, Phase: PhasePending})
	entity, err := s.repo.Get(ctx, id)
	if res, done := settle[T, T](s, ctx, OpGet, err); done {
		return res
	}
	s.dispatch(Action[T]{Op: OpGet, Phase: PhaseOK, Entity: entity})
	return ok(entity)
}

// Create sends a new record and refreshes the list on success. An entity
// that already has an id is refused without a request.
func (s *EntityService[T, P]) Create(ctx context.Context, entity T) Result[T] {
	if entity.EntityID() != nil {
		return failed[T](appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("a new %s cannot already have an ID", s.label)))
	}

	s.dispatch(Action[T]{Op: OpCreate, Phase: PhasePending})
	created, err := s.repo.Create(ctx, entity.Payload())
	if res, done := settle[T, T](s, ctx, OpCreate, err); done {
		s.record(ctx, models.AuditActionCreate, nil, res.Phase, res.Err)
		return res
	}
	s.dispatch(Action[T]{Op: OpCreate, Phase: PhaseOK, Entity: created})
	res := ok(created)
	s.record(ctx, models.AuditActionCreate, created.EntityID(), res.Phase, res.Err)

	s.relist(ctx)
	return res
}

// Update sends the full record. The list is not refreshed.
func (s *EntityService[T, P]) Update(ctx context.Context, entity T) Result[T] {
	id := entity.EntityID()
	if id == nil {
		return failed[T](appErrors.Clone(appErrors.ErrValidation, "invalid id"))
	}

	s.dispatch(Action[T]{Op: OpUpdate, Phase: PhasePending})
	updated, err := s.repo.Update(ctx, entity.Payload())
	if res, done := settle[T, T](s, ctx, OpUpdate, err); done {
		s.record(ctx, models.AuditActionUpdate, id, res.Phase, res.Err)
		return res
	}
	s.dispatch(Action[T]{Op: OpUpdate, Phase: PhaseOK, Entity: updated})
	res := ok(updated)
	s.record(ctx, models.AuditActionUpdate, id, res.Phase, res.Err)
	return res
}

// Delete removes a record and refreshes the list on success.
func (s *EntityService[T, P]) Delete(ctx context.Context, id int64) Result[struct{}] {
	s.dispatch(Action[T]{Op: OpDelete, Phase: PhasePending})
	err := s.repo.Delete(ctx, id)
	if res, done := settle[T, struct{}](s, ctx, OpDelete, err); done {
		s.record(ctx, models.AuditActionDelete, &id, res.Phase, res.Err)
		return res
	}
	s.dispatch(Action[T]{Op: OpDelete, Phase: PhaseOK})
	res := ok(struct{}{})
	s.record(ctx, models.AuditActionDelete, &id, res.Phase, res.Err)

	s.relist(ctx)
	return res
}

// Collect reads the list a view would show without dispatching anything, so
// the session's state and subscribers are left untouched. A non-blank query
// searches; otherwise page is passed to list-all.
func (s *EntityService[T, P]) Collect(ctx context.Context, query string, page models.PageRequest) ([]T, error) {
	if query = strings.TrimSpace(query); query != "" {
		return s.repo.Search(ctx, query)
	}
	return s.repo.List(ctx, page)
}

func (s *EntityService[T, P]) fetchList(ctx context.Context, op Operation, fetch func() ([]T, error)) Result[[]T] {
	s.dispatch(Action[T]{Op: op, Phase: PhasePending})
	items, err := fetch()
	if res, done := settle[T, []T](s, ctx, op, err); done {
		return res
	}
	s.dispatch(Action[T]{Op: op, Phase: PhaseOK, Entities: items})
	return ok(cloneSlice(items))
}

func (s *EntityService[T, P]) relist(ctx context.Context) {
	s.mu.Lock()
	page := s.lastPage
	s.mu.Unlock()
	s.ListAll(ctx, page)
}

// settle applies the failure or cancellation transition for err. done is
// false when err is nil and the caller should apply its success transition.
func settle[T Entity[P], V any, P any](s *EntityService[T, P], ctx context.Context, op Operation, err error) (Result[V], bool) {
	if err == nil {
		return Result[V]{}, false
	}
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		s.logger.Debug("request canceled", zap.String("op", string(op)))
		s.dispatch(Action[T]{Op: op, Phase: PhaseCanceled})
		return canceled[V](err), true
	}
	message := appErrors.Message(err)
	s.logger.Warn("request failed", zap.String("op", string(op)), zap.String("message", message), zap.Error(err))
	s.dispatch(Action[T]{Op: op, Phase: PhaseFailed, Message: message})
	return failed[V](err), true
}

func (s *EntityService[T, P]) dispatch(action Action[T]) {
	s.mu.Lock()
	s.state = Reduce(s.state, action)
	snap := s.state
	snap.Entities = cloneSlice(s.state.Entities)
	s.mu.Unlock()

	if s.publisher != nil {
		s.publisher.Publish(s.Topic(), snap)
	}
}

func (s *EntityService[T, P]) record(ctx context.Context, action string, id *int64, phase Phase, err error) {
	if s.audit == nil || phase == PhaseCanceled {
		return
	}
	entry := models.AuditLog{
		SessionID: s.sessionID,
		Action:    action,
		Resource:  s.repo.Resource(),
		Outcome:   models.AuditOutcomeOK,
	}
	if id != nil {
		value := *id
		entry.ResourceID = &value
	}
	if phase == PhaseFailed {
		message := appErrors.Message(err)
		entry.Outcome = models.AuditOutcomeFailed
		entry.ErrorMessage = &message
	}
	s.audit.Record(ctx, entry)
}

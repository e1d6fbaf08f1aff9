package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/organic-api/internal/models"
	appErrors "github.com/noah-isme/organic-api/pkg/errors"
)

const (
	staffCacheKey     = "staff:all"
	staffCachePattern = "staff:*"
	staffResource     = "staff"
)

type staffRepository interface {
	List(ctx context.Context) ([]models.Staff, error)
	FindByID(ctx context.Context, id int64) (*models.Staff, error)
	FindByGithubID(ctx context.Context, githubID int) ([]models.Staff, error)
	Create(ctx context.Context, staff *models.Staff) error
	Update(ctx context.Context, staff *models.Staff) error
	Delete(ctx context.Context, id int64) error
}

type staffUserLookup interface {
	FindByGithubID(ctx context.Context, githubID int) (*models.User, error)
}

type staffCourseLookup interface {
	FindByID(ctx context.Context, id int64) (*models.Course, error)
}

type auditWriter interface {
	Create(ctx context.Context, entry *models.AuditLog) error
}

// StaffServiceConfig tunes list caching.
type StaffServiceConfig struct {
	CacheTTL time.Duration
}

// StaffService implements staff administration use cases.
type StaffService struct {
	repo      staffRepository
	users     staffUserLookup
	courses   staffCourseLookup
	audit     auditWriter
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	config    StaffServiceConfig

	// listMu orders list cache writes against invalidations; generation counts mutations.
	listMu     sync.Mutex
	generation uint64
}

// NewStaffService constructs a StaffService. Cache, metrics and audit are optional.
func NewStaffService(repo staffRepository, users staffUserLookup, courses staffCourseLookup, audit auditWriter, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, config StaffServiceConfig) *StaffService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &StaffService{
		repo:      repo,
		users:     users,
		courses:   courses,
		audit:     audit,
		cache:     cache,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		config:    config,
	}
}

// List returns staff rows in insertion order, optionally narrowed to one GitHub user.
func (s *StaffService) List(ctx context.Context, filter models.StaffFilter) ([]models.Staff, error) {
	if filter.GithubID != nil {
		staff, err := s.repo.FindByGithubID(ctx, *filter.GithubID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Type, appErrors.ErrInternal.Status, "failed to list staff")
		}
		return staff, nil
	}

	var cached []models.Staff
	if hit, _ := s.cache.Get(ctx, staffCacheKey, &cached); hit {
		return cached, nil
	}

	s.listMu.Lock()
	generation := s.generation
	s.listMu.Unlock()

	staff, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Type, appErrors.ErrInternal.Status, "failed to list staff")
	}
	if staff == nil {
		staff = []models.Staff{}
	}
	s.storeList(ctx, generation, staff)
	return staff, nil
}

// storeList caches a listing unless a mutation landed after it was read.
func (s *StaffService) storeList(ctx context.Context, generation uint64, staff []models.Staff) {
	s.listMu.Lock()
	defer s.listMu.Unlock()
	if s.generation != generation {
		s.logger.Debug("skipping stale staff list cache write", zap.Uint64("read_generation", generation), zap.Uint64("generation", s.generation))
		return
	}
	_ = s.cache.Set(ctx, staffCacheKey, staff, s.config.CacheTTL)
}

func (s *StaffService) invalidateList(ctx context.Context) {
	s.listMu.Lock()
	defer s.listMu.Unlock()
	s.generation++
	_ = s.cache.Invalidate(ctx, staffCachePattern)
}

// Get returns one staff row.
func (s *StaffService) Get(ctx context.Context, id int64) (*models.Staff, error) {
	staff, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapLookupError(err, "Staff", id, "failed to load staff")
	}
	return staff, nil
}

// Create stores a new staff row once both the user and the course exist.
func (s *StaffService) Create(ctx context.Context, req models.CreateStaffRequest, meta models.RequestMeta) (*models.Staff, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Type, appErrors.ErrValidation.Status, "courseId and githubId must be positive")
	}

	if _, err := s.users.FindByGithubID(ctx, req.GithubID); err != nil {
		return nil, s.mapLookupError(err, "User", req.GithubID, "failed to load user")
	}
	if _, err := s.courses.FindByID(ctx, req.CourseID); err != nil {
		return nil, s.mapLookupError(err, "Course", req.CourseID, "failed to load course")
	}

	staff := &models.Staff{CourseID: req.CourseID, GithubID: req.GithubID}
	if err := s.repo.Create(ctx, staff); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Type, appErrors.ErrInternal.Status, "failed to create staff")
	}

	s.afterMutation(ctx, "create", models.AuditActionStaffCreate, staff.ID, nil, staff, meta)
	return staff, nil
}

// Update overwrites the course and GitHub references of an existing row.
func (s *StaffService) Update(ctx context.Context, req models.UpdateStaffRequest, meta models.RequestMeta) (*models.Staff, error) {
	existing, err := s.repo.FindByID(ctx, req.ID)
	if err != nil {
		return nil, s.mapLookupError(err, "Staff", req.ID, "failed to load staff")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Type, appErrors.ErrValidation.Status, "courseId and githubId must be positive")
	}
	before := *existing

	existing.CourseID = req.CourseID
	existing.GithubID = req.GithubID
	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Type, appErrors.ErrInternal.Status, "failed to update staff")
	}

	s.afterMutation(ctx, "update", models.AuditActionStaffUpdate, existing.ID, &before, existing, meta)
	return existing, nil
}

// Delete removes a staff row and returns it as it was before deletion.
func (s *StaffService) Delete(ctx context.Context, id int64, meta models.RequestMeta) (*models.Staff, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapLookupError(err, "Staff", id, "failed to load staff")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Type, appErrors.ErrInternal.Status, "failed to delete staff")
	}

	s.afterMutation(ctx, "delete", models.AuditActionStaffDelete, existing.ID, existing, nil, meta)
	return existing, nil
}

func (s *StaffService) mapLookupError(err error, entity string, id interface{}, message string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.EntityNotFound(entity, id)
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Type, appErrors.ErrInternal.Status, message)
}

func (s *StaffService) afterMutation(ctx context.Context, operation, action string, id int64, before, after *models.Staff, meta models.RequestMeta) {
	s.metrics.RecordStaffMutation(operation)
	s.invalidateList(ctx)

	if s.audit == nil {
		return
	}
	entry := &models.AuditLog{
		Action:     action,
		Resource:   staffResource,
		ResourceID: &id,
		OldValues:  marshalAuditValue(before),
		NewValues:  marshalAuditValue(after),
		IPAddress:  meta.IP,
		UserAgent:  meta.UserAgent,
	}
	if meta.UserID != 0 {
		actor := meta.UserID
		entry.UserID = &actor
	}
	if err := s.audit.Create(ctx, entry); err != nil {
		s.logger.Warn("failed to record staff audit log", zap.String("action", action), zap.Int64("staff_id", id), zap.Error(err))
	}
}

func marshalAuditValue(staff *models.Staff) []byte {
	if staff == nil {
		return nil
	}
	raw, err := json.Marshal(staff)
	if err != nil {
		return nil
	}
	return raw
}

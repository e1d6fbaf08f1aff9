package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/organic-api/internal/models"
	appErrors "github.com/noah-isme/organic-api/pkg/errors"
)

type mockStaffRepo struct {
	rows        []models.Staff
	nextID      int64
	listErr     error
	createCalls []models.Staff
	updateCalls []models.Staff
	deleteCalls []int64
	listCalls   int
}

func (m *mockStaffRepo) List(ctx context.Context) ([]models.Staff, error) {
	m.listCalls++
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]models.Staff, len(m.rows))
	copy(out, m.rows)
	return out, nil
}

func (m *mockStaffRepo) FindByID(ctx context.Context, id int64) (*models.Staff, error) {
	for _, row := range m.rows {
		if row.ID == id {
			found := row
			return &found, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockStaffRepo) FindByGithubID(ctx context.Context, githubID int) ([]models.Staff, error) {
	out := []models.Staff{}
	for _, row := range m.rows {
		if row.GithubID == githubID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (m *mockStaffRepo) Create(ctx context.Context, staff *models.Staff) error {
	m.createCalls = append(m.createCalls, *staff)
	m.nextID++
	staff.ID = m.nextID
	m.rows = append(m.rows, *staff)
	return nil
}

func (m *mockStaffRepo) Update(ctx context.Context, staff *models.Staff) error {
	m.updateCalls = append(m.updateCalls, *staff)
	for i := range m.rows {
		if m.rows[i].ID == staff.ID {
			m.rows[i] = *staff
		}
	}
	return nil
}

func (m *mockStaffRepo) Delete(ctx context.Context, id int64) error {
	m.deleteCalls = append(m.deleteCalls, id)
	kept := m.rows[:0]
	for _, row := range m.rows {
		if row.ID != id {
			kept = append(kept, row)
		}
	}
	m.rows = kept
	return nil
}

type mockUserLookup struct {
	byGithubID map[int]*models.User
}

func (m *mockUserLookup) FindByGithubID(ctx context.Context, githubID int) (*models.User, error) {
	if user, ok := m.byGithubID[githubID]; ok {
		return user, nil
	}
	return nil, sql.ErrNoRows
}

type mockCourseLookup struct {
	courses map[int64]*models.Course
	err     error
}

func (m *mockCourseLookup) FindByID(ctx context.Context, id int64) (*models.Course, error) {
	if m.err != nil {
		return nil, m.err
	}
	if course, ok := m.courses[id]; ok {
		return course, nil
	}
	return nil, sql.ErrNoRows
}

type mockAuditWriter struct {
	entries []*models.AuditLog
	err     error
}

func (m *mockAuditWriter) Create(ctx context.Context, entry *models.AuditLog) error {
	m.entries = append(m.entries, entry)
	return m.err
}

type memoryCache struct {
	values      map[string][]models.Staff
	invalidated []string
}

func (m *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	value, ok := m.values[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	*dest.(*[]models.Staff) = value
	return nil
}

func (m *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	m.values[key] = value.([]models.Staff)
	return nil
}

func (m *memoryCache) DeleteByPattern(ctx context.Context, pattern string) error {
	m.invalidated = append(m.invalidated, pattern)
	m.values = map[string][]models.Staff{}
	return nil
}

type staffFixture struct {
	repo    *mockStaffRepo
	audit   *mockAuditWriter
	cache   *memoryCache
	metrics *MetricsService
	service *StaffService
}

func newStaffFixture() *staffFixture {
	repo := &mockStaffRepo{
		rows: []models.Staff{
			{ID: 1, CourseID: 1, GithubID: 19506566},
			{ID: 2, CourseID: 1, GithubID: 92136161},
		},
		nextID: 2,
	}
	users := &mockUserLookup{byGithubID: map[int]*models.User{
		19506566: {ID: 10, GithubID: 19506566, GithubLogin: "pconrad"},
		92136161: {ID: 11, GithubID: 92136161, GithubLogin: "cgaucho"},
	}}
	courses := &mockCourseLookup{courses: map[int64]*models.Course{1: {ID: 1, Name: "CS16"}, 222: {ID: 222, Name: "CS156"}}}
	audit := &mockAuditWriter{}
	cache := &memoryCache{values: map[string][]models.Staff{}}
	metrics := NewMetricsService()
	cacheSvc := NewCacheService(cache, metrics, time.Minute, zap.NewNop(), true)
	svc := NewStaffService(repo, users, courses, audit, cacheSvc, metrics, nil, zap.NewNop(), StaffServiceConfig{CacheTTL: time.Minute})
	return &staffFixture{repo: repo, audit: audit, cache: cache, metrics: metrics, service: svc}
}

var adminMeta = models.RequestMeta{UserID: 10, IP: "127.0.0.1", UserAgent: "go-test"}

func TestStaffServiceListReturnsStoreOrder(t *testing.T) {
	f := newStaffFixture()

	staff, err := f.service.List(context.Background(), models.StaffFilter{})
	require.NoError(t, err)
	assert.Equal(t, f.repo.rows, staff)
}

func TestStaffServiceListServedFromCache(t *testing.T) {
	f := newStaffFixture()
	ctx := context.Background()

	_, err := f.service.List(ctx, models.StaffFilter{})
	require.NoError(t, err)
	second, err := f.service.List(ctx, models.StaffFilter{})
	require.NoError(t, err)

	assert.Equal(t, 1, f.repo.listCalls)
	assert.Len(t, second, 2)
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.cacheHits))
}

func TestStaffServiceListByGithubID(t *testing.T) {
	f := newStaffFixture()
	githubID := 92136161

	staff, err := f.service.List(context.Background(), models.StaffFilter{GithubID: &githubID})
	require.NoError(t, err)
	assert.Equal(t, []models.Staff{{ID: 2, CourseID: 1, GithubID: 92136161}}, staff)
	assert.Zero(t, f.repo.listCalls)
}

func TestStaffServiceListStoreFailure(t *testing.T) {
	f := newStaffFixture()
	f.repo.listErr = errors.New("connection reset")

	_, err := f.service.List(context.Background(), models.StaffFilter{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInternal.Type, appErrors.FromError(err).Type)
}

func TestStaffServiceGetMissing(t *testing.T) {
	f := newStaffFixture()

	_, err := f.service.Get(context.Background(), 7)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, "EntityNotFoundException", appErr.Type)
	assert.Equal(t, "Staff with id 7 not found", appErr.Message)
}

func TestStaffServiceCreate(t *testing.T) {
	f := newStaffFixture()

	staff, err := f.service.Create(context.Background(), models.CreateStaffRequest{CourseID: 1, GithubID: 19506566}, adminMeta)
	require.NoError(t, err)

	assert.Equal(t, int64(3), staff.ID)
	assert.Equal(t, int64(1), staff.CourseID)
	assert.Equal(t, 19506566, staff.GithubID)
	require.Len(t, f.repo.createCalls, 1)
	assert.Equal(t, models.Staff{CourseID: 1, GithubID: 19506566}, f.repo.createCalls[0])

	require.Len(t, f.audit.entries, 1)
	entry := f.audit.entries[0]
	assert.Equal(t, models.AuditActionStaffCreate, entry.Action)
	require.NotNil(t, entry.UserID)
	assert.Equal(t, int64(10), *entry.UserID)
	assert.JSONEq(t, `{"id":3,"courseId":1,"githubId":19506566}`, string(entry.NewValues))
	assert.Nil(t, entry.OldValues)
	assert.Equal(t, []string{staffCachePattern}, f.cache.invalidated)
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.staffMutations.WithLabelValues("create")))
}

func TestStaffServiceCreateUnknownUser(t *testing.T) {
	f := newStaffFixture()

	_, err := f.service.Create(context.Background(), models.CreateStaffRequest{CourseID: 1, GithubID: 5}, adminMeta)
	require.Error(t, err)
	assert.Equal(t, "User with id 5 not found", appErrors.FromError(err).Message)
	assert.Empty(t, f.repo.createCalls)
}

func TestStaffServiceCreateUnknownCourse(t *testing.T) {
	f := newStaffFixture()

	_, err := f.service.Create(context.Background(), models.CreateStaffRequest{CourseID: 99, GithubID: 19506566}, adminMeta)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, "EntityNotFoundException", appErr.Type)
	assert.Equal(t, "Course with id 99 not found", appErr.Message)
	assert.Empty(t, f.repo.createCalls)
}

func TestStaffServiceCreateRejectsNonPositive(t *testing.T) {
	f := newStaffFixture()

	_, err := f.service.Create(context.Background(), models.CreateStaffRequest{CourseID: 0, GithubID: 19506566}, adminMeta)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Type, appErrors.FromError(err).Type)
	assert.Empty(t, f.repo.createCalls)
}

func TestStaffServiceUpdate(t *testing.T) {
	f := newStaffFixture()

	staff, err := f.service.Update(context.Background(), models.UpdateStaffRequest{ID: 1, CourseID: 222, GithubID: 92136161}, adminMeta)
	require.NoError(t, err)

	assert.Equal(t, &models.Staff{ID: 1, CourseID: 222, GithubID: 92136161}, staff)
	require.Len(t, f.repo.updateCalls, 1)
	assert.Equal(t, int64(1), f.repo.updateCalls[0].ID)

	require.Len(t, f.audit.entries, 1)
	assert.JSONEq(t, `{"id":1,"courseId":1,"githubId":19506566}`, string(f.audit.entries[0].OldValues))
	assert.JSONEq(t, `{"id":1,"courseId":222,"githubId":92136161}`, string(f.audit.entries[0].NewValues))
}

func TestStaffServiceUpdateMissing(t *testing.T) {
	f := newStaffFixture()

	_, err := f.service.Update(context.Background(), models.UpdateStaffRequest{ID: 67, CourseID: 1, GithubID: 1}, adminMeta)
	require.Error(t, err)
	assert.Equal(t, "Staff with id 67 not found", appErrors.FromError(err).Message)
	assert.Empty(t, f.repo.updateCalls)
	assert.Empty(t, f.audit.entries)
}

func TestStaffServiceUpdateNonPositiveIDIsNotFound(t *testing.T) {
	f := newStaffFixture()

	for _, id := range []int64{0, -1} {
		_, err := f.service.Update(context.Background(), models.UpdateStaffRequest{ID: id, CourseID: 1, GithubID: 19506566}, adminMeta)
		require.Error(t, err)
		appErr := appErrors.FromError(err)
		assert.Equal(t, "EntityNotFoundException", appErr.Type)
		assert.Equal(t, fmt.Sprintf("Staff with id %d not found", id), appErr.Message)
	}
	assert.Empty(t, f.repo.updateCalls)
}

func TestStaffServiceUpdateRejectsNonPositiveReferences(t *testing.T) {
	f := newStaffFixture()

	_, err := f.service.Update(context.Background(), models.UpdateStaffRequest{ID: 1, CourseID: 0, GithubID: 19506566}, adminMeta)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Type, appErrors.FromError(err).Type)
	assert.Empty(t, f.repo.updateCalls)
}

func TestStaffServiceDeleteReturnsSnapshot(t *testing.T) {
	f := newStaffFixture()

	staff, err := f.service.Delete(context.Background(), 2, adminMeta)
	require.NoError(t, err)

	assert.Equal(t, &models.Staff{ID: 2, CourseID: 1, GithubID: 92136161}, staff)
	assert.Equal(t, []int64{2}, f.repo.deleteCalls)
	assert.Len(t, f.repo.rows, 1)
}

func TestStaffServiceDeleteMissing(t *testing.T) {
	f := newStaffFixture()

	_, err := f.service.Delete(context.Background(), 15, adminMeta)
	require.Error(t, err)
	assert.Equal(t, "Staff with id 15 not found", appErrors.FromError(err).Message)
	assert.Empty(t, f.repo.deleteCalls)
}

func TestStaffServiceMutationInvalidatesCache(t *testing.T) {
	f := newStaffFixture()
	ctx := context.Background()

	_, err := f.service.List(ctx, models.StaffFilter{})
	require.NoError(t, err)
	_, err = f.service.Delete(ctx, 1, adminMeta)
	require.NoError(t, err)

	staff, err := f.service.List(ctx, models.StaffFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, f.repo.listCalls)
	assert.Equal(t, []models.Staff{{ID: 2, CourseID: 1, GithubID: 92136161}}, staff)
}

// interleavingRepo runs onList once, after the rows have been read and before List returns.
type interleavingRepo struct {
	*mockStaffRepo
	onList func()
}

func (r *interleavingRepo) List(ctx context.Context) ([]models.Staff, error) {
	rows, err := r.mockStaffRepo.List(ctx)
	if r.onList != nil {
		hook := r.onList
		r.onList = nil
		hook()
	}
	return rows, err
}

func TestStaffServiceListDoesNotCacheSnapshotOlderThanMutation(t *testing.T) {
	f := newStaffFixture()
	ctx := context.Background()
	repo := &interleavingRepo{mockStaffRepo: f.repo}
	f.service.repo = repo
	repo.onList = func() {
		_, err := f.service.Create(ctx, models.CreateStaffRequest{CourseID: 222, GithubID: 92136161}, adminMeta)
		require.NoError(t, err)
	}

	first, err := f.service.List(ctx, models.StaffFilter{})
	require.NoError(t, err)
	assert.Len(t, first, 2)
	assert.Empty(t, f.cache.values)

	second, err := f.service.List(ctx, models.StaffFilter{})
	require.NoError(t, err)
	assert.Equal(t, f.repo.rows, second)
	assert.Len(t, second, 3)

	third, err := f.service.List(ctx, models.StaffFilter{})
	require.NoError(t, err)
	assert.Len(t, third, 3)
	assert.Equal(t, 2, f.repo.listCalls)
}

func TestStaffServiceAuditFailureDoesNotFailMutation(t *testing.T) {
	f := newStaffFixture()
	f.audit.err = errors.New("audit table locked")

	staff, err := f.service.Create(context.Background(), models.CreateStaffRequest{CourseID: 222, GithubID: 92136161}, adminMeta)
	require.NoError(t, err)
	assert.Equal(t, int64(3), staff.ID)
}

func TestStaffServiceWithoutOptionalCollaborators(t *testing.T) {
	repo := &mockStaffRepo{}
	users := &mockUserLookup{byGithubID: map[int]*models.User{1: {ID: 1, GithubID: 1}}}
	courses := &mockCourseLookup{courses: map[int64]*models.Course{1: {ID: 1}}}
	svc := NewStaffService(repo, users, courses, nil, nil, nil, nil, nil, StaffServiceConfig{})

	staff, err := svc.Create(context.Background(), models.CreateStaffRequest{CourseID: 1, GithubID: 1}, models.RequestMeta{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), staff.ID)

	list, err := svc.List(context.Background(), models.StaffFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

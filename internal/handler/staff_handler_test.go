package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/organic-api/internal/middleware"
	"github.com/noah-isme/organic-api/internal/models"
	appErrors "github.com/noah-isme/organic-api/pkg/errors"
)

type staffServiceMock struct {
	listResp   []models.Staff
	staffResp  *models.Staff
	err        error
	lastFilter models.StaffFilter
	lastID     int64
	lastCreate models.CreateStaffRequest
	lastUpdate models.UpdateStaffRequest
	lastMeta   models.RequestMeta
	calls      int
}

func (m *staffServiceMock) List(ctx context.Context, filter models.StaffFilter) ([]models.Staff, error) {
	m.calls++
	m.lastFilter = filter
	return m.listResp, m.err
}

func (m *staffServiceMock) Get(ctx context.Context, id int64) (*models.Staff, error) {
	m.calls++
	m.lastID = id
	return m.staffResp, m.err
}

func (m *staffServiceMock) Create(ctx context.Context, req models.CreateStaffRequest, meta models.RequestMeta) (*models.Staff, error) {
	m.calls++
	m.lastCreate = req
	m.lastMeta = meta
	return m.staffResp, m.err
}

func (m *staffServiceMock) Update(ctx context.Context, req models.UpdateStaffRequest, meta models.RequestMeta) (*models.Staff, error) {
	m.calls++
	m.lastUpdate = req
	m.lastMeta = meta
	return m.staffResp, m.err
}

func (m *staffServiceMock) Delete(ctx context.Context, id int64, meta models.RequestMeta) (*models.Staff, error) {
	m.calls++
	m.lastID = id
	m.lastMeta = meta
	return m.staffResp, m.err
}

func newStaffContext(method, target string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(method, target, nil)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: 1, Roles: []models.UserRole{models.RoleUser, models.RoleAdmin}})
	return c, w
}

func TestStaffHandlerListReturnsRawArray(t *testing.T) {
	mockSvc := &staffServiceMock{listResp: []models.Staff{
		{ID: 1, CourseID: 1, GithubID: 19506566},
		{ID: 2, CourseID: 1, GithubID: 92136161},
	}}
	handler := NewStaffHandler(mockSvc)
	c, w := newStaffContext(http.MethodGet, "/api/staff/all")

	handler.List(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"id":1,"courseId":1,"githubId":19506566},{"id":2,"courseId":1,"githubId":92136161}]`, w.Body.String())
	assert.Nil(t, mockSvc.lastFilter.GithubID)
}

func TestStaffHandlerListFilter(t *testing.T) {
	mockSvc := &staffServiceMock{listResp: []models.Staff{}}
	handler := NewStaffHandler(mockSvc)
	c, w := newStaffContext(http.MethodGet, "/api/staff/all?githubId=92136161")

	handler.List(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, mockSvc.lastFilter.GithubID)
	assert.Equal(t, 92136161, *mockSvc.lastFilter.GithubID)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestStaffHandlerGetNotFound(t *testing.T) {
	mockSvc := &staffServiceMock{err: appErrors.EntityNotFound("Staff", int64(7))}
	handler := NewStaffHandler(mockSvc)
	c, w := newStaffContext(http.MethodGet, "/api/staff/get?id=7")

	handler.Get(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"type":"EntityNotFoundException","message":"Staff with id 7 not found"}`, w.Body.String())
	assert.Equal(t, int64(7), mockSvc.lastID)
}

func TestStaffHandlerGetRejectsBadID(t *testing.T) {
	mockSvc := &staffServiceMock{}
	handler := NewStaffHandler(mockSvc)

	for _, target := range []string{"/api/staff/get", "/api/staff/get?id=abc"} {
		c, w := newStaffContext(http.MethodGet, target)
		handler.Get(c)
		assert.Equal(t, http.StatusBadRequest, w.Code, target)
		assert.Contains(t, w.Body.String(), `"type":"ValidationException"`)
	}
	assert.Zero(t, mockSvc.calls)
}

func TestStaffHandlerCreate(t *testing.T) {
	mockSvc := &staffServiceMock{staffResp: &models.Staff{ID: 3, CourseID: 1, GithubID: 19506566}}
	handler := NewStaffHandler(mockSvc)
	c, w := newStaffContext(http.MethodPost, "/api/staff/post?courseId=1&githubId=19506566")
	c.Request.Header.Set("User-Agent", "go-test")

	handler.Create(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":3,"courseId":1,"githubId":19506566}`, w.Body.String())
	assert.Equal(t, models.CreateStaffRequest{CourseID: 1, GithubID: 19506566}, mockSvc.lastCreate)
	assert.Equal(t, int64(1), mockSvc.lastMeta.UserID)
	assert.Equal(t, "go-test", mockSvc.lastMeta.UserAgent)
}

func TestStaffHandlerCreateRejectsNonNumeric(t *testing.T) {
	mockSvc := &staffServiceMock{}
	handler := NewStaffHandler(mockSvc)
	c, w := newStaffContext(http.MethodPost, "/api/staff/post?courseId=one&githubId=2")

	handler.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, mockSvc.calls)
}

func TestStaffHandlerUpdate(t *testing.T) {
	mockSvc := &staffServiceMock{staffResp: &models.Staff{ID: 67, CourseID: 222, GithubID: 92136161}}
	handler := NewStaffHandler(mockSvc)
	c, w := newStaffContext(http.MethodPut, "/api/staff/update?id=67&courseId=222&githubId=92136161")

	handler.Update(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.UpdateStaffRequest{ID: 67, CourseID: 222, GithubID: 92136161}, mockSvc.lastUpdate)
	assert.JSONEq(t, `{"id":67,"courseId":222,"githubId":92136161}`, w.Body.String())
}

func TestStaffHandlerUpdateRequiresID(t *testing.T) {
	mockSvc := &staffServiceMock{}
	handler := NewStaffHandler(mockSvc)
	c, w := newStaffContext(http.MethodPut, "/api/staff/update?courseId=222&githubId=92136161")

	handler.Update(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, mockSvc.calls)
}

func TestStaffHandlerUpdatePassesNonPositiveID(t *testing.T) {
	mockSvc := &staffServiceMock{err: appErrors.EntityNotFound("Staff", int64(0))}
	handler := NewStaffHandler(mockSvc)
	c, w := newStaffContext(http.MethodPut, "/api/staff/update?id=0&courseId=222&githubId=92136161")

	handler.Update(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, int64(0), mockSvc.lastUpdate.ID)
	assert.JSONEq(t, `{"type":"EntityNotFoundException","message":"Staff with id 0 not found"}`, w.Body.String())
}

func TestStaffHandlerDelete(t *testing.T) {
	mockSvc := &staffServiceMock{staffResp: &models.Staff{ID: 15, CourseID: 1, GithubID: 19506566}}
	handler := NewStaffHandler(mockSvc)
	c, w := newStaffContext(http.MethodDelete, "/api/staff/delete?id=15")

	handler.Delete(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(15), mockSvc.lastID)
	assert.JSONEq(t, `{"id":15,"courseId":1,"githubId":19506566}`, w.Body.String())
}

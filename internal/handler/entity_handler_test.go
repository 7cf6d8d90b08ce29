package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/inteduweb-admin/internal/middleware"
	"github.com/noah-isme/inteduweb-admin/internal/models"
	"github.com/noah-isme/inteduweb-admin/internal/repository"
	"github.com/noah-isme/inteduweb-admin/internal/service"
	"github.com/noah-isme/inteduweb-admin/pkg/config"
	"github.com/noah-isme/inteduweb-admin/web"
)

type upstreamCall struct {
	Method string
	Path   string
	Body   string
}

type fakeUpstream struct {
	mu     sync.Mutex
	calls  []upstreamCall
	routes map[string]func() (int, string)
}

func (f *fakeUpstream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.calls = append(f.calls, upstreamCall{Method: r.Method, Path: r.URL.Path, Body: string(raw)})
	route, ok := f.routes[r.Method+" "+r.URL.Path]
	f.mu.Unlock()

	status, body := http.StatusNotFound, ""
	if ok {
		status, body = route()
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func (f *fakeUpstream) recorded() []upstreamCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]upstreamCall(nil), f.calls...)
}

func reply(status int, body string) func() (int, string) {
	return func() (int, string) { return status, body }
}

func newTestRouter(t *testing.T, upstream *fakeUpstream) *gin.Engine {
	gin.SetMode(gin.TestMode)
	srv := httptest.NewServer(upstream)
	t.Cleanup(srv.Close)

	client, err := repository.NewRESTClient(config.UpstreamConfig{BaseURL: srv.URL + "/api/", Timeout: time.Second}, nil, nil)
	require.NoError(t, err)
	classrooms := repository.NewResourceRepository[models.Classroom, models.ClassroomPayload](client, "classrooms")
	schools := repository.NewResourceRepository[models.School, models.SchoolPayload](client, "schools")
	users := repository.NewResourceRepository[models.User, models.User](client, "users")

	sessions := service.NewSessionManager(func(id string) *service.Workspace {
		return &service.Workspace{
			Classrooms: service.NewClassroomService(classrooms, service.EntityServiceConfig{SessionID: id}),
			Schools:    service.NewSchoolService(schools, service.EntityServiceConfig{SessionID: id}),
		}
	}, service.SessionManagerConfig{}, nil, nil)
	refs := service.NewReferenceService(users, schools, nil, 0, nil)
	exports := service.NewExportService(nil, nil)

	tmpl, err := web.Templates()
	require.NoError(t, err)

	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.Use(middleware.Session(sessions, config.SessionConfig{CookieName: "sid"}))
	NewClassroomHandler(refs, nil, exports, nil, nil).Register(r)
	NewSchoolHandler(nil, exports, nil, nil).Register(r)
	return r
}

func postForm(r http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestClassroomDetail(t *testing.T) {
	upstream := &fakeUpstream{routes: map[string]func() (int, string){
		"GET /api/classrooms/5": reply(http.StatusOK, `{"id":5,"name":"Room5","users":[{"id":1,"firstname":"A"},{"id":2,"firstname":"B"}],"school":{"id":2}}`),
	}}
	r := newTestRouter(t, upstream)

	w := get(r, "/classroom/5")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Room5")
	assert.Contains(t, body, "A, B")
	assert.Contains(t, body, `href="/school/2"`)

	calls := upstream.recorded()
	require.Len(t, calls, 1)
	assert.Equal(t, upstreamCall{Method: http.MethodGet, Path: "/api/classrooms/5"}, calls[0])
}

func TestClassroomDetailNotFound(t *testing.T) {
	r := newTestRouter(t, &fakeUpstream{})

	w := get(r, "/classroom/5")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Request failed with status code 404")

	w = get(r, "/classroom/abc")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestClassroomListEmpty(t *testing.T) {
	upstream := &fakeUpstream{routes: map[string]func() (int, string){
		"GET /api/classrooms": reply(http.StatusOK, `[]`),
	}}
	r := newTestRouter(t, upstream)

	w := get(r, "/classroom?search=%20%20")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No Classrooms found")
	calls := upstream.recorded()
	require.Len(t, calls, 1)
	assert.Equal(t, "/api/classrooms", calls[0].Path)
}

func TestClassroomListSearch(t *testing.T) {
	upstream := &fakeUpstream{routes: map[string]func() (int, string){
		"GET /api/_search/classrooms": reply(http.StatusOK, `[{"id":1,"name":"Lab","users":[{"id":3,"firstname":"Ann"}]}]`),
	}}
	r := newTestRouter(t, upstream)

	w := get(r, "/classroom?search=lab")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Lab")
	assert.Contains(t, w.Body.String(), `href="/classroom/1/edit"`)
	assert.Equal(t, "/api/_search/classrooms", upstream.recorded()[0].Path)
}

func TestClassroomCreate(t *testing.T) {
	upstream := &fakeUpstream{routes: map[string]func() (int, string){
		"POST /api/classrooms": reply(http.StatusCreated, `{"id":11,"name":"New Room","users":[{"id":3},{"id":4}]}`),
		"GET /api/classrooms":  reply(http.StatusOK, `[{"id":11,"name":"New Room"}]`),
	}}
	r := newTestRouter(t, upstream)

	w := postForm(r, "/classroom/new", url.Values{"name": {"New Room"}, "users": {"3", "4"}, "school.id": {""}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/classroom", w.Header().Get("Location"))

	calls := upstream.recorded()
	require.Len(t, calls, 2)
	assert.Equal(t, http.MethodPost, calls[0].Method)
	assert.JSONEq(t, `{"name":"New Room","users":[3,4]}`, calls[0].Body)
	assert.Equal(t, http.MethodGet, calls[1].Method)
	assert.Equal(t, "/api/classrooms", calls[1].Path)
}

func TestClassroomUpdateKeepsIDAndDoesNotRelist(t *testing.T) {
	upstream := &fakeUpstream{routes: map[string]func() (int, string){
		"GET /api/classrooms/5": reply(http.StatusOK, `{"id":5,"name":"Room5"}`),
		"PUT /api/classrooms":   reply(http.StatusOK, `{"id":5,"name":"Renamed"}`),
	}}
	r := newTestRouter(t, upstream)

	w := postForm(r, "/classroom/5/edit", url.Values{"id": {"99"}, "name": {"Renamed"}, "school.id": {"2"}})
	require.Equal(t, http.StatusSeeOther, w.Code)

	calls := upstream.recorded()
	require.Len(t, calls, 2)
	assert.Equal(t, http.MethodPut, calls[1].Method)
	assert.JSONEq(t, `{"id":5,"name":"Renamed","school":{"id":2}}`, calls[1].Body)
}

func TestClassroomUpdateFailureRerendersForm(t *testing.T) {
	upstream := &fakeUpstream{routes: map[string]func() (int, string){
		"GET /api/classrooms/5": reply(http.StatusOK, `{"id":5,"name":"Room5"}`),
		"PUT /api/classrooms":   reply(http.StatusInternalServerError, `{"title":"boom"}`),
		"GET /api/users":        reply(http.StatusOK, `[{"id":3,"firstname":"Ann"}]`),
		"GET /api/schools":      reply(http.StatusOK, `[{"id":2}]`),
	}}
	r := newTestRouter(t, upstream)

	w := postForm(r, "/classroom/5/edit", url.Values{"name": {"Renamed"}, "users": {"3"}})
	assert.Equal(t, http.StatusBadGateway, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Request failed with status code 500")
	assert.Contains(t, body, `value="Renamed"`)
	assert.Contains(t, body, "Ann")
}

func TestSchoolValidationErrorSendsNothing(t *testing.T) {
	upstream := &fakeUpstream{}
	r := newTestRouter(t, upstream)

	w := postForm(r, "/school/new", url.Values{"name": {strings.Repeat("x", 256)}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Name cannot be longer than 255 characters")
	assert.Empty(t, upstream.recorded())
}

func TestClassroomDeleteRelists(t *testing.T) {
	upstream := &fakeUpstream{routes: map[string]func() (int, string){
		"DELETE /api/classrooms/7": reply(http.StatusNoContent, ""),
		"GET /api/classrooms":      reply(http.StatusOK, `[]`),
	}}
	r := newTestRouter(t, upstream)

	w := postForm(r, "/classroom/7/delete", url.Values{})
	require.Equal(t, http.StatusSeeOther, w.Code)

	calls := upstream.recorded()
	require.Len(t, calls, 2)
	assert.Equal(t, upstreamCall{Method: http.MethodDelete, Path: "/api/classrooms/7"}, calls[0])
	assert.Equal(t, "/api/classrooms", calls[1].Path)
}

func TestNewFormLoadsPickers(t *testing.T) {
	upstream := &fakeUpstream{routes: map[string]func() (int, string){
		"GET /api/users":   reply(http.StatusOK, `[{"id":3,"firstname":"Ann"},{"id":4,"firstname":"Bob"}]`),
		"GET /api/schools": reply(http.StatusOK, `[{"id":2,"name":"North"}]`),
	}}
	r := newTestRouter(t, upstream)

	w := get(r, "/classroom/new")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `<option value="3" >Ann</option>`)
	assert.Contains(t, body, `<option value="2" >2</option>`)
	assert.NotContains(t, body, `id="classroom-id"`)
}

func TestStateEndpoint(t *testing.T) {
	upstream := &fakeUpstream{routes: map[string]func() (int, string){
		"GET /api/schools": reply(http.StatusOK, `[{"id":1,"name":"North"}]`),
	}}
	r := newTestRouter(t, upstream)

	first := get(r, "/school")
	require.Equal(t, http.StatusOK, first.Code)
	cookies := first.Result().Cookies()
	require.NotEmpty(t, cookies)

	req := httptest.NewRequest(http.MethodGet, "/state/school", nil)
	req.AddCookie(cookies[0])
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data service.EntityState[models.School] `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data.Entities, 1)
	assert.Equal(t, "North", envelope.Data.Entities[0].Name)
}

func TestExportCSV(t *testing.T) {
	upstream := &fakeUpstream{routes: map[string]func() (int, string){
		"GET /api/schools": reply(http.StatusOK, `[{"id":1,"name":"North"}]`),
	}}
	r := newTestRouter(t, upstream)

	w := get(r, "/school/export?format=csv")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "schools-")
	assert.Contains(t, w.Body.String(), "North")

	w = get(r, "/school/export?format=docx")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestClassroomClearSearchListsAll(t *testing.T) {
	upstream := &fakeUpstream{routes: map[string]func() (int, string){
		"GET /api/classrooms": reply(http.StatusOK, `[{"id":1,"name":"Lab"},{"id":2,"name":"Gym"}]`),
	}}
	r := newTestRouter(t, upstream)

	w := get(r, "/classroom?search=lab&clear=1")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Gym")
	assert.NotContains(t, w.Body.String(), `value="lab"`)

	calls := upstream.recorded()
	require.Len(t, calls, 1)
	assert.Equal(t, upstreamCall{Method: http.MethodGet, Path: "/api/classrooms"}, calls[0])
}

func TestClassroomDetailWithoutRelations(t *testing.T) {
	upstream := &fakeUpstream{routes: map[string]func() (int, string){
		"GET /api/classrooms/5": reply(http.StatusOK, `{"id":5,"name":"Room5","users":[]}`),
	}}
	r := newTestRouter(t, upstream)

	w := get(r, "/classroom/5")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "<b>5</b>")
	assert.Contains(t, body, "Room5")
	assert.Contains(t, body, "<dt>Users</dt>\n  <dd></dd>")
	assert.NotContains(t, body, `href="/school/`)
}

func TestClassroomListJoinsUserNames(t *testing.T) {
	upstream := &fakeUpstream{routes: map[string]func() (int, string){
		"GET /api/classrooms": reply(http.StatusOK, `[
			{"id":1,"name":"Room1","users":[]},
			{"id":2,"name":"Room2","users":[{"id":1,"firstname":"A"},{"id":2,"firstname":"B"}]},
			{"id":3,"name":"Room3"}
		]`),
	}}
	r := newTestRouter(t, upstream)

	w := get(r, "/classroom")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Equal(t, 3, strings.Count(body, `">View</a>`))
	assert.Contains(t, body, "<td>A, B</td>")
	assert.NotContains(t, body, "A, B,")
}

func TestExportLeavesSessionStateAlone(t *testing.T) {
	upstream := &fakeUpstream{routes: map[string]func() (int, string){
		"GET /api/schools":         reply(http.StatusOK, `[{"id":1,"name":"North"}]`),
		"GET /api/_search/schools": reply(http.StatusOK, `[{"id":2,"name":"South"}]`),
	}}
	r := newTestRouter(t, upstream)

	first := get(r, "/school")
	require.Equal(t, http.StatusOK, first.Code)
	cookie := first.Result().Cookies()[0]

	req := httptest.NewRequest(http.MethodGet, "/school/export?format=csv&search=south", nil)
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "South")

	req = httptest.NewRequest(http.MethodGet, "/state/school", nil)
	req.AddCookie(cookie)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data service.EntityState[models.School] `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data.Entities, 1)
	assert.Equal(t, "North", envelope.Data.Entities[0].Name)
}

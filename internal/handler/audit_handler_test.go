package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/inteduweb-admin/internal/models"
	appErrors "github.com/noah-isme/inteduweb-admin/pkg/errors"
)

type auditReaderMock struct {
	logs         []models.AuditLog
	err          error
	lastResource string
	lastLimit    int
}

func (m *auditReaderMock) Recent(ctx context.Context, resource string, limit int) ([]models.AuditLog, error) {
	m.lastResource = resource
	m.lastLimit = limit
	return m.logs, m.err
}

func TestAuditHandlerList(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &auditReaderMock{logs: []models.AuditLog{{ID: "a1", Action: models.AuditActionDelete}}}
	handler := NewAuditHandler(mock)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/audit?resource=classrooms&limit=5", nil)
	handler.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "classrooms", mock.lastResource)
	assert.Equal(t, 5, mock.lastLimit)
	assert.Contains(t, w.Body.String(), `"count":1`)
}

func TestAuditHandlerDisabled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewAuditHandler(&auditReaderMock{err: appErrors.ErrDisabled})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/audit", nil)
	handler.List(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

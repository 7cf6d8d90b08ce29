package service

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/inteduweb-admin/pkg/export"
)

type failingRenderer struct{}

func (failingRenderer) Render(format export.Format, data export.Dataset) ([]byte, error) {
	return nil, errors.New("broken")
}

func TestExportServiceRender(t *testing.T) {
	svc := NewExportService(nil, nil)
	svc.now = func() time.Time { return time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC) }

	file, err := svc.Render(export.FormatCSV, export.Dataset{
		Title:   "Classrooms",
		Headers: []string{"ID", "Name"},
		Rows:    [][]string{{"1", "Room1"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "classrooms-20240301-100000.csv", file.Filename)
	assert.Equal(t, "text/csv", file.ContentType)
	assert.Contains(t, string(file.Content), "Room1")
}

func TestExportServiceRenderFailure(t *testing.T) {
	svc := NewExportService(failingRenderer{}, nil)
	_, err := svc.Render(export.FormatPDF, export.Dataset{Title: "Schools"})
	assert.Error(t, err)
}

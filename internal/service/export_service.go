package service

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/noah-isme/inteduweb-admin/pkg/errors"
	"github.com/noah-isme/inteduweb-admin/pkg/export"
)

// ExportFile is a rendered download.
type ExportFile struct {
	Filename    string
	ContentType string
	Content     []byte
}

type datasetRenderer interface {
	Render(format export.Format, data export.Dataset) ([]byte, error)
}

// ExportService renders entity lists as downloadable files.
type ExportService struct {
	renderer datasetRenderer
	logger   *zap.Logger
	now      func() time.Time
}

// NewExportService constructs an ExportService. A nil renderer uses every
// built-in format.
func NewExportService(renderer datasetRenderer, logger *zap.Logger) *ExportService {
	if renderer == nil {
		renderer = export.NewRenderer()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{renderer: renderer, logger: logger, now: time.Now}
}

// Render encodes the dataset. The filename is derived from the title and
// the current time.
func (s *ExportService) Render(format export.Format, data export.Dataset) (*ExportFile, error) {
	content, err := s.renderer.Render(format, data)
	if err != nil {
		s.logger.Warn("export failed", zap.String("title", data.Title), zap.String("format", string(format)), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	slug := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(data.Title), " ", "-"))
	if slug == "" {
		slug = "export"
	}
	return &ExportFile{
		Filename:    fmt.Sprintf("%s-%s.%s", slug, s.now().UTC().Format("20060102-150405"), format),
		ContentType: format.ContentType(),
		Content:     content,
	}, nil
}

package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/inteduweb-admin/internal/dto"
	"github.com/noah-isme/inteduweb-admin/internal/models"
	"github.com/noah-isme/inteduweb-admin/internal/service"
)

// SchoolHandler serves the school admin views.
type SchoolHandler = EntityHandler[models.School, models.SchoolPayload]

// NewSchoolHandler wires the school views.
func NewSchoolHandler(validate *validator.Validate, exports exportRenderer, hub liveHub, logger *zap.Logger) *SchoolHandler {
	if validate == nil {
		validate = validator.New()
	}
	columns := []Column[models.School]{
		{
			Header: "ID",
			Value:  func(s models.School) string { return idString(s.ID) },
			Link:   func(s models.School) string { return "/school/" + idString(s.ID) },
		},
		{Header: "Name", Value: func(s models.School) string { return s.Name }},
	}
	fields := []Column[models.School]{
		{Header: "Name", Value: func(s models.School) string { return s.Name }},
		{Header: "Classrooms", Value: func(s models.School) string { return service.JoinClassrooms(s.Classrooms) }},
	}
	view := EntityView[models.School, models.SchoolPayload]{
		Base:         "school",
		Singular:     "School",
		Plural:       "Schools",
		Columns:      columns,
		Fields:       fields,
		FormTemplate: "school_form.html",
		Controller: func(ws *service.Workspace) *service.SchoolService {
			return ws.Schools
		},
		Merge: func(c *gin.Context, current models.School) (models.School, []string, error) {
			var form dto.SchoolForm
			if messages, err := bindForm(c, validate.Struct, &form); err != nil {
				return current, messages, err
			}
			merged, err := form.Apply(current)
			return merged, nil, err
		},
	}
	return NewEntityHandler(view, exports, hub, logger)
}

package handler

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/inteduweb-admin/internal/dto"
	"github.com/noah-isme/inteduweb-admin/internal/models"
	"github.com/noah-isme/inteduweb-admin/internal/service"
)

type referenceLoader interface {
	Users(ctx context.Context) ([]models.User, error)
	Schools(ctx context.Context) ([]models.School, error)
}

// ClassroomHandler serves the classroom admin views.
type ClassroomHandler = EntityHandler[models.Classroom, models.ClassroomPayload]

// NewClassroomHandler wires the classroom views.
func NewClassroomHandler(refs referenceLoader, validate *validator.Validate, exports exportRenderer, hub liveHub, logger *zap.Logger) *ClassroomHandler {
	if validate == nil {
		validate = validator.New()
	}
	view := EntityView[models.Classroom, models.ClassroomPayload]{
		Base:         "classroom",
		Singular:     "Classroom",
		Plural:       "Classrooms",
		Columns:      classroomColumns(),
		Fields:       classroomColumns()[1:],
		FormTemplate: "classroom_form.html",
		Controller: func(ws *service.Workspace) *service.ClassroomService {
			return ws.Classrooms
		},
		Merge: func(c *gin.Context, current models.Classroom) (models.Classroom, []string, error) {
			var form dto.ClassroomForm
			if messages, err := bindForm(c, validate.Struct, &form); err != nil {
				return current, messages, err
			}
			merged, err := form.Apply(current)
			return merged, nil, err
		},
		FormOptions: func(ctx context.Context, current models.Classroom) (FormOptions, error) {
			return classroomOptions(ctx, refs, current)
		},
	}
	return NewEntityHandler(view, exports, hub, logger)
}

func classroomColumns() []Column[models.Classroom] {
	return []Column[models.Classroom]{
		{
			Header: "ID",
			Value:  func(c models.Classroom) string { return idString(c.ID) },
			Link:   func(c models.Classroom) string { return "/classroom/" + idString(c.ID) },
		},
		{Header: "Name", Value: func(c models.Classroom) string { return c.Name }},
		{Header: "Users", Value: func(c models.Classroom) string { return service.JoinNames(c.Users) }},
		{
			Header: "School",
			Value:  func(c models.Classroom) string { return service.SchoolLabel(c.School) },
			Link: func(c models.Classroom) string {
				if c.School == nil {
					return ""
				}
				return "/school/" + strconv.FormatInt(c.School.ID, 10)
			},
		},
	}
}

func classroomOptions(ctx context.Context, refs referenceLoader, current models.Classroom) (FormOptions, error) {
	var opts FormOptions
	if refs == nil {
		return opts, nil
	}

	selected := make(map[int64]bool, len(current.Users))
	for _, u := range current.Users {
		selected[u.ID] = true
	}
	users, err := refs.Users(ctx)
	if err != nil {
		return opts, err
	}
	for _, u := range users {
		opts.Users = append(opts.Users, option{
			Value:    strconv.FormatInt(u.ID, 10),
			Label:    u.Firstname,
			Selected: selected[u.ID],
		})
	}

	schools, err := refs.Schools(ctx)
	if err != nil {
		return opts, err
	}
	for _, s := range schools {
		id := idString(s.ID)
		opts.Schools = append(opts.Schools, option{
			Value:    id,
			Label:    id,
			Selected: current.School != nil && s.ID != nil && current.School.ID == *s.ID,
		})
	}
	return opts, nil
}

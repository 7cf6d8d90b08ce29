package service

import "github.com/noah-isme/inteduweb-admin/internal/models"

// ClassroomService is the classroom controller of a workspace.
type ClassroomService = EntityService[models.Classroom, models.ClassroomPayload]

// ClassroomRepository is the backend access the classroom controller needs.
type ClassroomRepository = entityRepository[models.Classroom, models.ClassroomPayload]

// NewClassroomService constructs a classroom controller.
func NewClassroomService(repo ClassroomRepository, cfg EntityServiceConfig) *ClassroomService {
	if cfg.Label == "" {
		cfg.Label = "classroom"
	}
	return NewEntityService[models.Classroom, models.ClassroomPayload](repo, cfg)
}

package service

import "github.com/noah-isme/inteduweb-admin/internal/models"

// SchoolService is the school controller of a workspace.
type SchoolService = EntityService[models.School, models.SchoolPayload]

// SchoolRepository is the backend access the school controller needs.
type SchoolRepository = entityRepository[models.School, models.SchoolPayload]

// NewSchoolService constructs a school controller.
func NewSchoolService(repo SchoolRepository, cfg EntityServiceConfig) *SchoolService {
	if cfg.Label == "" {
		cfg.Label = "school"
	}
	return NewEntityService[models.School, models.SchoolPayload](repo, cfg)
}

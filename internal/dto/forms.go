package dto

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/noah-isme/inteduweb-admin/internal/models"
)

// ClassroomForm is the submitted classroom edit form. The id field is shown
// read-only and never overrides the stored id.
type ClassroomForm struct {
	Name     string   `form:"name" validate:"max=255"`
	Users    []string `form:"users" validate:"dive,omitempty,numeric"`
	SchoolID string   `form:"school.id" validate:"omitempty,numeric"`
}

// Apply merges the form over current: id kept, name replaced, user ids mapped
// to user refs (blank options dropped), empty school cleared.
func (f ClassroomForm) Apply(current models.Classroom) (models.Classroom, error) {
	merged := models.Classroom{
		ID:   current.ID,
		Name: strings.TrimSpace(f.Name),
	}

	users, err := mapIDList(f.Users)
	if err != nil {
		return models.Classroom{}, fmt.Errorf("users: %w", err)
	}
	for _, id := range users {
		merged.Users = append(merged.Users, lookupUser(current.Users, id))
	}

	if raw := strings.TrimSpace(f.SchoolID); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return models.Classroom{}, fmt.Errorf("school: %w", err)
		}
		merged.School = &models.SchoolRef{ID: id}
		if current.School != nil && current.School.ID == id {
			merged.School.Name = current.School.Name
		}
	}

	return merged, nil
}

// SchoolForm is the submitted school edit form.
type SchoolForm struct {
	Name string `form:"name" validate:"max=255"`
}

// Apply merges the form over current. Collections stay untouched because they
// are owned by classrooms and users.
func (f SchoolForm) Apply(current models.School) (models.School, error) {
	merged := current
	merged.Name = strings.TrimSpace(f.Name)
	return merged, nil
}

func mapIDList(raw []string) ([]int64, error) {
	var ids []int64
	for _, value := range raw {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		id, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Keeps the display name of users that were already attached.
func lookupUser(known []models.User, id int64) models.User {
	for _, u := range known {
		if u.ID == id {
			return u
		}
	}
	return models.User{ID: id}
}

package service

import (
	"strconv"
	"strings"

	"github.com/noah-isme/inteduweb-admin/internal/models"
)

// JoinNames renders users as their first names separated by ", ".
func JoinNames(users []models.User) string {
	names := make([]string, 0, len(users))
	for _, u := range users {
		names = append(names, u.Firstname)
	}
	return strings.Join(names, ", ")
}

// SchoolLabel is the cell text for a classroom's school: its id, empty when unset.
func SchoolLabel(school *models.SchoolRef) string {
	if school == nil {
		return ""
	}
	return strconv.FormatInt(school.ID, 10)
}

// JoinClassrooms renders a school's classrooms by name.
func JoinClassrooms(classrooms []models.ClassroomRef) string {
	names := make([]string, 0, len(classrooms))
	for _, c := range classrooms {
		names = append(names, c.Name)
	}
	return strings.Join(names, ", ")
}

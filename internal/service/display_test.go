package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/inteduweb-admin/internal/models"
)

func TestJoinNames(t *testing.T) {
	assert.Equal(t, "A, B", JoinNames([]models.User{{ID: 1, Firstname: "A"}, {ID: 2, Firstname: "B"}}))
	assert.Equal(t, "A", JoinNames([]models.User{{ID: 1, Firstname: "A"}}))
	assert.Equal(t, "", JoinNames(nil))
}

func TestSchoolLabel(t *testing.T) {
	assert.Equal(t, "", SchoolLabel(nil))
	assert.Equal(t, "2", SchoolLabel(&models.SchoolRef{ID: 2, Name: "North"}))
}

func TestJoinClassrooms(t *testing.T) {
	assert.Equal(t, "Room1, Room2", JoinClassrooms([]models.ClassroomRef{{ID: 1, Name: "Room1"}, {ID: 2, Name: "Room2"}}))
}

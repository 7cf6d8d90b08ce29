package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassroomPayloadCreateBody(t *testing.T) {
	classroom := Classroom{Name: "New Room", Users: []User{{ID: 3}, {ID: 4}}}

	body, err := json.Marshal(classroom.Payload())
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"New Room","users":[3,4]}`, string(body))
}

func TestClassroomPayloadKeepsIDAndSchoolRef(t *testing.T) {
	id := int64(5)
	classroom := Classroom{ID: &id, Name: "Room5", School: &SchoolRef{ID: 2, Name: "North"}}

	body, err := json.Marshal(classroom.Payload())
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":5,"name":"Room5","school":{"id":2}}`, string(body))
}

func TestClassroomDecodesBackendShape(t *testing.T) {
	var classroom Classroom
	require.NoError(t, json.Unmarshal([]byte(`{"id":5,"name":"Room5","users":[],"school":{"id":2}}`), &classroom))

	require.NotNil(t, classroom.EntityID())
	assert.Equal(t, int64(5), *classroom.EntityID())
	assert.Empty(t, classroom.Users)
	assert.Equal(t, int64(2), classroom.School.ID)
}

func TestSchoolPayloadDropsCollections(t *testing.T) {
	id := int64(9)
	school := School{ID: &id, Name: "North", Classrooms: []ClassroomRef{{ID: 1}}, Users: []User{{ID: 2}}}

	body, err := json.Marshal(school.Payload())
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":9,"name":"North"}`, string(body))
}

package models

// School owns classrooms and users. Both collections are maintained from the
// other side of the relation and are read-only here.
type School struct {
	ID         *int64         `json:"id,omitempty"`
	Name       string         `json:"name,omitempty"`
	Classrooms []ClassroomRef `json:"classrooms,omitempty"`
	Users      []User         `json:"users,omitempty"`
}

// SchoolPayload is the request body for create and update.
type SchoolPayload struct {
	ID   *int64 `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

// EntityID returns the server-assigned id, nil for an unsaved school.
func (s School) EntityID() *int64 {
	return s.ID
}

// Payload converts the school into its request body.
func (s School) Payload() SchoolPayload {
	return SchoolPayload{ID: s.ID, Name: s.Name}
}

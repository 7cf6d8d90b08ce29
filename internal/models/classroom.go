package models

// Classroom groups users and optionally belongs to one school.
type Classroom struct {
	ID     *int64     `json:"id,omitempty"`
	Name   string     `json:"name,omitempty"`
	Users  []User     `json:"users,omitempty"`
	School *SchoolRef `json:"school,omitempty"`
}

// SchoolRef is the school side of a classroom as returned by the backend.
type SchoolRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name,omitempty"`
}

// ClassroomRef is a classroom listed under a school.
type ClassroomRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name,omitempty"`
}

// ClassroomPayload is the request body for create and update. Users travel as
// a plain id list and the school as {"id": n}.
type ClassroomPayload struct {
	ID     *int64  `json:"id,omitempty"`
	Name   string  `json:"name,omitempty"`
	Users  []int64 `json:"users,omitempty"`
	School *Ref    `json:"school,omitempty"`
}

// EntityID returns the server-assigned id, nil for an unsaved classroom.
func (c Classroom) EntityID() *int64 {
	return c.ID
}

// Payload converts the classroom into its request body.
func (c Classroom) Payload() ClassroomPayload {
	p := ClassroomPayload{
		ID:    c.ID,
		Name:  c.Name,
		Users: userIDs(c.Users),
	}
	if c.School != nil {
		p.School = &Ref{ID: c.School.ID}
	}
	return p
}

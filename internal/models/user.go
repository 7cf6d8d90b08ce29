package models

// User is an account managed by the backend's user administration. This
// frontend only references users by id and shows their first name.
type User struct {
	ID        int64  `json:"id"`
	Login     string `json:"login,omitempty"`
	Firstname string `json:"firstname,omitempty"`
	Lastname  string `json:"lastname,omitempty"`
}

// Ref is the wire shape of a to-one relation: {"id": n}.
type Ref struct {
	ID int64 `json:"id"`
}

// PageRequest carries optional paging parameters passed through to the backend.
type PageRequest struct {
	Page int
	Size int
	Sort string
}

// IsZero reports whether no paging parameter was supplied.
func (p PageRequest) IsZero() bool {
	return p.Page == 0 && p.Size == 0 && p.Sort == ""
}

func userIDs(users []User) []int64 {
	if len(users) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	return ids
}

package service

// Operation names a controller command.
type Operation string

const (
	OpSearch Operation = "search"
	OpList   Operation = "list"
	OpGet    Operation = "get"
	OpCreate Operation = "create"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
	OpReset  Operation = "reset"
)

func (o Operation) mutates() bool {
	return o == OpCreate || o == OpUpdate || o == OpDelete
}

// EntityState is the view state of one entity type within a workspace.
type EntityState[T any] struct {
	Loading       bool   `json:"loading"`
	Updating      bool   `json:"updating"`
	UpdateSuccess bool   `json:"updateSuccess"`
	ErrorMessage  string `json:"errorMessage,omitempty"`
	Entity        T      `json:"entity"`
	Entities      []T    `json:"entities"`
}

// InitialState is the state before any command and after Reset.
func InitialState[T any]() EntityState[T] {
	return EntityState[T]{Entities: []T{}}
}

// Action describes one transition: an operation entering a phase, with its
// payload on success or its message on failure.
type Action[T any] struct {
	Op       Operation
	Phase    Phase
	Entity   T
	Entities []T
	Message  string
}

// Reduce computes the next state. It is pure; callers serialise access.
func Reduce[T any](state EntityState[T], action Action[T]) EntityState[T] {
	if action.Op == OpReset {
		return InitialState[T]()
	}

	next := state
	switch action.Phase {
	case PhasePending:
		next.ErrorMessage = ""
		next.UpdateSuccess = false
		if action.Op.mutates() {
			next.Updating = true
		} else {
			next.Loading = true
		}

	case PhaseFailed:
		next.Loading = false
		next.Updating = false
		next.UpdateSuccess = false
		next.ErrorMessage = action.Message

	case PhaseCanceled:
		if action.Op.mutates() {
			next.Updating = false
		} else {
			next.Loading = false
		}

	case PhaseOK:
		switch action.Op {
		case OpSearch, OpList:
			next.Loading = false
			next.Entities = cloneSlice(action.Entities)
		case OpGet:
			next.Loading = false
			next.Entity = action.Entity
		case OpCreate, OpUpdate:
			next.Updating = false
			next.UpdateSuccess = true
			next.Entity = action.Entity
		case OpDelete:
			var blank T
			next.Updating = false
			next.UpdateSuccess = true
			next.Entity = blank
		}
	}
	return next
}

func cloneSlice[T any](items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	return out
}

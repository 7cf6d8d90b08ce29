package handler

import "github.com/noah-isme/inteduweb-admin/internal/service"

// Column renders one value of an entity in a table or detail list.
type Column[T any] struct {
	Header string
	Value  func(T) string
	Link   func(T) string
}

type cell struct {
	Text string
	Href string
}

type tableRow struct {
	ID    string
	Cells []cell
}

type detailField struct {
	Label string
	Text  string
	Href  string
}

type option struct {
	Value    string
	Label    string
	Selected bool
}

// FormOptions feeds relation pickers.
type FormOptions struct {
	Users   []option
	Schools []option
}

// pageData is the model of every admin page.
type pageData struct {
	Title    string
	Base     string
	Singular string
	Error    string
	Errors   []string
	Loading  bool
	Updating bool

	Search  string
	Headers []string
	Rows    []tableRow

	ID     string
	Fields []detailField

	IsNew   bool
	Action  string
	Entity  interface{}
	Options FormOptions
}

func (p pageData) withState(loading, updating bool, message string) pageData {
	p.Loading = loading
	p.Updating = updating
	if p.Error == "" {
		p.Error = message
	}
	return p
}

func stateFlags[T any](st service.EntityState[T]) (bool, bool, string) {
	return st.Loading, st.Updating, st.ErrorMessage
}

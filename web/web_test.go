package web

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplatesParse(t *testing.T) {
	tmpl, err := Templates()
	require.NoError(t, err)
	for _, name := range []string{"list.html", "detail.html", "delete.html", "classroom_form.html", "school_form.html", "error.html"} {
		assert.NotNil(t, tmpl.Lookup(name), name)
	}
}

func TestErrorPageRenders(t *testing.T) {
	tmpl, err := Templates()
	require.NoError(t, err)

	var buf bytes.Buffer
	err = tmpl.ExecuteTemplate(&buf, "error.html", struct {
		Title, Base, Error string
		Errors             []string
	}{Title: "Not found", Base: "school", Error: "resource not found"})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "resource not found")
	assert.Contains(t, buf.String(), `href="/school"`)
}

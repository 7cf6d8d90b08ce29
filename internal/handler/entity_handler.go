package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/inteduweb-admin/internal/dto"
	"github.com/noah-isme/inteduweb-admin/internal/middleware"
	"github.com/noah-isme/inteduweb-admin/internal/models"
	"github.com/noah-isme/inteduweb-admin/internal/service"
	appErrors "github.com/noah-isme/inteduweb-admin/pkg/errors"
	"github.com/noah-isme/inteduweb-admin/pkg/export"
	"github.com/noah-isme/inteduweb-admin/pkg/response"
)

// ErrFormInvalid marks a submitted form that failed validation.
var ErrFormInvalid = errors.New("form invalid")

// EntityView describes how one entity type is routed and rendered.
type EntityView[T service.Entity[P], P any] struct {
	// Base is the route segment, e.g. "classroom".
	Base     string
	Singular string
	Plural   string
	Columns  []Column[T]
	Fields   []Column[T]
	// FormTemplate renders the create and edit page.
	FormTemplate string
	Controller   func(*service.Workspace) *service.EntityService[T, P]
	// Merge binds and validates the submitted form and merges it over current.
	// Validation failures wrap ErrFormInvalid and carry messages.
	Merge       func(c *gin.Context, current T) (T, []string, error)
	FormOptions func(ctx context.Context, current T) (FormOptions, error)
}

type exportRenderer interface {
	Render(format export.Format, data export.Dataset) (*service.ExportFile, error)
}

type liveHub interface {
	Serve(w http.ResponseWriter, r *http.Request, topic string, initial interface{}) error
}

// EntityHandler serves the list, detail, form and delete views of one entity.
type EntityHandler[T service.Entity[P], P any] struct {
	view    EntityView[T, P]
	exports exportRenderer
	hub     liveHub
	logger  *zap.Logger
}

// NewEntityHandler constructs an entity handler. exports and hub may be nil.
func NewEntityHandler[T service.Entity[P], P any](view EntityView[T, P], exports exportRenderer, hub liveHub, logger *zap.Logger) *EntityHandler[T, P] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EntityHandler[T, P]{view: view, exports: exports, hub: hub, logger: logger}
}

// Register mounts the entity routes on r.
func (h *EntityHandler[T, P]) Register(r gin.IRouter) {
	base := "/" + h.view.Base
	r.GET(base, h.List)
	r.GET(base+"/export", h.Export)
	r.GET(base+"/new", h.New)
	r.POST(base+"/new", h.Save)
	r.GET(base+"/:id", h.Detail)
	r.GET(base+"/:id/edit", h.Edit)
	r.POST(base+"/:id/edit", h.Save)
	r.GET(base+"/:id/delete", h.ConfirmDelete)
	r.POST(base+"/:id/delete", h.Delete)
	r.GET("/state/"+h.view.Base, h.State)
	r.GET("/ws/"+h.view.Base, h.Live)
}

// List renders the table. A non-blank search query searches; clear or no
// query lists everything.
func (h *EntityHandler[T, P]) List(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	search := strings.TrimSpace(c.Query("search"))
	if c.Query("clear") != "" {
		search = ""
	}

	var res service.Result[[]T]
	if search != "" {
		res = ctrl.Search(ctx, search)
	} else {
		res = ctrl.ListAll(ctx, pageRequest(c))
	}
	if res.Phase == service.PhaseCanceled {
		return
	}

	page := h.page(h.view.Plural)
	page.Search = search
	for _, col := range h.view.Columns {
		page.Headers = append(page.Headers, col.Header)
	}
	state := ctrl.Snapshot()
	for _, item := range state.Entities {
		page.Rows = append(page.Rows, tableRow{ID: idString(item.EntityID()), Cells: cells(h.view.Columns, item)})
	}
	page = page.withState(stateFlags(state))
	c.HTML(http.StatusOK, "list.html", page)
}

// Detail renders one record read-only.
func (h *EntityHandler[T, P]) Detail(c *gin.Context) {
	ctrl, id, ok := h.controllerAndID(c)
	if !ok {
		return
	}
	res := ctrl.Get(c.Request.Context(), id)
	if res.Phase == service.PhaseCanceled {
		return
	}
	if !res.OK() {
		h.renderError(c, res.Err)
		return
	}

	page := h.page(h.view.Singular)
	page.ID = strconv.FormatInt(id, 10)
	for _, col := range h.view.Fields {
		field := detailField{Label: col.Header, Text: col.Value(res.Value)}
		if col.Link != nil {
			field.Href = col.Link(res.Value)
		}
		page.Fields = append(page.Fields, field)
	}
	c.HTML(http.StatusOK, "detail.html", page)
}

// New renders an empty form after resetting the controller.
func (h *EntityHandler[T, P]) New(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	ctrl.Reset()
	var blank T
	h.renderForm(c, http.StatusOK, ctrl, blank, true, "", nil)
}

// Edit loads the record and renders the form.
func (h *EntityHandler[T, P]) Edit(c *gin.Context) {
	ctrl, id, ok := h.controllerAndID(c)
	if !ok {
		return
	}
	res := ctrl.Get(c.Request.Context(), id)
	if res.Phase == service.PhaseCanceled {
		return
	}
	if !res.OK() {
		h.renderError(c, res.Err)
		return
	}
	h.renderForm(c, http.StatusOK, ctrl, res.Value, false, "", nil)
}

// Save handles both form submissions. Invalid forms are re-rendered without
// contacting the backend; a successful save redirects to the list.
func (h *EntityHandler[T, P]) Save(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	isNew := c.Param("id") == ""

	var current T
	if !isNew {
		id, err := parseID(c.Param("id"))
		if err != nil {
			h.renderError(c, appErrors.ErrNotFound)
			return
		}
		current = ctrl.Snapshot().Entity
		if stored := current.EntityID(); stored == nil || *stored != id {
			res := ctrl.Get(ctx, id)
			if res.Phase == service.PhaseCanceled {
				return
			}
			if !res.OK() {
				h.renderError(c, res.Err)
				return
			}
			current = res.Value
		}
	}

	merged, messages, err := h.view.Merge(c, current)
	if err != nil {
		if errors.Is(err, ErrFormInvalid) {
			h.renderForm(c, http.StatusBadRequest, ctrl, current, isNew, "", messages)
			return
		}
		h.renderForm(c, http.StatusBadRequest, ctrl, current, isNew, err.Error(), nil)
		return
	}

	var res service.Result[T]
	if isNew {
		res = ctrl.Create(ctx, merged)
	} else {
		res = ctrl.Update(ctx, merged)
	}
	switch res.Phase {
	case service.PhaseOK:
		c.Redirect(http.StatusSeeOther, "/"+h.view.Base)
	case service.PhaseCanceled:
		return
	default:
		h.renderForm(c, appErrors.FromError(res.Err).Status, ctrl, merged, isNew, res.Message(), nil)
	}
}

// ConfirmDelete renders the delete confirmation dialog.
func (h *EntityHandler[T, P]) ConfirmDelete(c *gin.Context) {
	ctrl, id, ok := h.controllerAndID(c)
	if !ok {
		return
	}
	res := ctrl.Get(c.Request.Context(), id)
	if res.Phase == service.PhaseCanceled {
		return
	}
	if !res.OK() {
		h.renderError(c, res.Err)
		return
	}
	page := h.page("Confirm delete operation")
	page.ID = strconv.FormatInt(id, 10)
	c.HTML(http.StatusOK, "delete.html", page)
}

// Delete removes the record and returns to the list.
func (h *EntityHandler[T, P]) Delete(c *gin.Context) {
	ctrl, id, ok := h.controllerAndID(c)
	if !ok {
		return
	}
	res := ctrl.Delete(c.Request.Context(), id)
	switch res.Phase {
	case service.PhaseOK:
		c.Redirect(http.StatusSeeOther, "/"+h.view.Base)
	case service.PhaseCanceled:
		return
	default:
		page := h.page("Confirm delete operation")
		page.ID = strconv.FormatInt(id, 10)
		page.Error = res.Message()
		c.HTML(appErrors.FromError(res.Err).Status, "delete.html", page)
	}
}

// Export godoc
// @Summary Export the entity list
// @Tags Views
// @Produce octet-stream
// @Param entity path string true "classroom or school"
// @Param format query string false "csv, pdf or xlsx"
// @Param search query string false "Search query"
// @Success 200 {file} binary
// @Router /{entity}/export [get]
func (h *EntityHandler[T, P]) Export(c *gin.Context) {
	if h.exports == nil {
		response.Error(c, appErrors.ErrDisabled)
		return
	}
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, err.Error()))
		return
	}
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}

	items, err := ctrl.Collect(c.Request.Context(), c.Query("search"), pageRequest(c))
	if err != nil {
		if c.Request.Context().Err() != nil {
			return
		}
		response.Error(c, err)
		return
	}

	data := export.Dataset{Title: h.view.Plural}
	for _, col := range h.view.Columns {
		data.Headers = append(data.Headers, col.Header)
	}
	for _, item := range items {
		row := make([]string, 0, len(h.view.Columns))
		for _, col := range h.view.Columns {
			row = append(row, col.Value(item))
		}
		data.Rows = append(data.Rows, row)
	}

	file, err := h.exports.Render(format, data)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Data(http.StatusOK, file.ContentType, file.Content)
}

// State godoc
// @Summary Current view state of the session's controller
// @Tags State
// @Produce json
// @Param entity path string true "classroom or school"
// @Success 200 {object} response.Envelope
// @Router /state/{entity} [get]
func (h *EntityHandler[T, P]) State(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	response.JSON(c, http.StatusOK, ctrl.Snapshot(), map[string]interface{}{"topic": ctrl.Topic()})
}

// Live upgrades to a websocket streaming state snapshots.
func (h *EntityHandler[T, P]) Live(c *gin.Context) {
	if h.hub == nil {
		response.Error(c, appErrors.ErrDisabled)
		return
	}
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	if err := h.hub.Serve(c.Writer, c.Request, ctrl.Topic(), ctrl.Snapshot()); err != nil {
		_ = c.Error(err)
	}
}

func (h *EntityHandler[T, P]) renderForm(c *gin.Context, status int, ctrl *service.EntityService[T, P], entity T, isNew bool, message string, messages []string) {
	page := h.page("Create or edit a " + h.view.Singular)
	page.IsNew = isNew
	page.Entity = entity
	page.Errors = messages
	page.Error = message
	if isNew {
		page.Action = "/" + h.view.Base + "/new"
	} else {
		page.ID = idString(entity.EntityID())
		page.Action = "/" + h.view.Base + "/" + page.ID + "/edit"
	}
	state := ctrl.Snapshot()
	page = page.withState(false, state.Updating, "")

	if h.view.FormOptions != nil {
		opts, err := h.view.FormOptions(c.Request.Context(), entity)
		if err != nil {
			h.logger.Warn("failed to load relation options", zap.String("entity", h.view.Base), zap.Error(err))
			if page.Error == "" {
				page.Error = appErrors.Message(err)
			}
		}
		page.Options = opts
	}
	c.HTML(status, h.view.FormTemplate, page)
}

func (h *EntityHandler[T, P]) renderError(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	page := h.page(http.StatusText(appErr.Status))
	page.Error = appErr.Message
	c.HTML(appErr.Status, "error.html", page)
}

func (h *EntityHandler[T, P]) page(title string) pageData {
	return pageData{Title: title, Base: h.view.Base, Singular: h.view.Singular}
}

func (h *EntityHandler[T, P]) controller(c *gin.Context) (*service.EntityService[T, P], bool) {
	ws := middleware.WorkspaceFrom(c)
	if ws == nil {
		h.renderError(c, appErrors.Clone(appErrors.ErrInternal, "no session workspace"))
		return nil, false
	}
	return h.view.Controller(ws), true
}

func (h *EntityHandler[T, P]) controllerAndID(c *gin.Context) (*service.EntityService[T, P], int64, bool) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		h.renderError(c, appErrors.ErrNotFound)
		return nil, 0, false
	}
	ctrl, ok := h.controller(c)
	return ctrl, id, ok
}

func cells[T any](columns []Column[T], item T) []cell {
	out := make([]cell, 0, len(columns))
	for _, col := range columns {
		value := cell{Text: col.Value(item)}
		if col.Link != nil {
			value.Href = col.Link(item)
		}
		out = append(out, value)
	}
	return out
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

func idString(id *int64) string {
	if id == nil {
		return ""
	}
	return strconv.FormatInt(*id, 10)
}

func pageRequest(c *gin.Context) models.PageRequest {
	var page models.PageRequest
	if v, err := strconv.Atoi(c.Query("page")); err == nil && v >= 0 {
		page.Page = v
	}
	if v, err := strconv.Atoi(c.Query("size")); err == nil && v > 0 {
		page.Size = v
	}
	page.Sort = c.Query("sort")
	return page
}

// bindForm binds the POSTed form into dst and validates it.
func bindForm(c *gin.Context, validate validatorFunc, dst interface{}) ([]string, error) {
	if err := c.ShouldBind(dst); err != nil {
		return []string{err.Error()}, fmt.Errorf("%w: %v", ErrFormInvalid, err)
	}
	if err := validate(dst); err != nil {
		return dto.ValidationMessages(err), fmt.Errorf("%w: %v", ErrFormInvalid, err)
	}
	return nil, nil
}

type validatorFunc func(interface{}) error

package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/a3tai/mcp-pdf-formdesigner/internal/coords"
	"github.com/a3tai/mcp-pdf-formdesigner/internal/form"
	"github.com/a3tai/mcp-pdf-formdesigner/internal/interaction"
	pdferrors "github.com/a3tai/mcp-pdf-formdesigner/internal/pdf/errors"
	"github.com/a3tai/mcp-pdf-formdesigner/internal/reorder"
	"github.com/a3tai/mcp-pdf-formdesigner/internal/session"
)

type handler struct {
	session *session.Session
	logger  *zap.Logger
	maxBody int64
}

type addFieldRequest struct {
	Type    string   `json:"type" binding:"required"`
	ScreenX *float64 `json:"screenX"`
	ScreenY *float64 `json:"screenY"`
}

type moveRequest struct {
	From *int `json:"from" binding:"required"`
	To   *int `json:"to" binding:"required"`
}

type layoutModeRequest struct {
	Mode string `json:"mode" binding:"required"`
}

type zoomRequest struct {
	Action string  `json:"action" binding:"required"`
	Value  float64 `json:"value"`
}

type dropRequest struct {
	ClientX   float64          `json:"clientX"`
	ClientY   float64          `json:"clientY"`
	Container coords.Container `json:"container"`
}

// statusOf maps a session error onto an HTTP status
func statusOf(err error) int {
	switch {
	case errors.Is(err, interaction.ErrNotDragging):
		return http.StatusConflict
	case errors.Is(err, interaction.ErrOutsideContainer):
		return http.StatusUnprocessableEntity
	case errors.Is(err, session.ErrNoExporter):
		return http.StatusServiceUnavailable
	}

	var fe *pdferrors.FormError
	if !errors.As(err, &fe) {
		return http.StatusBadRequest
	}
	switch fe.Type {
	case pdferrors.ErrorTypeMissingTarget:
		return http.StatusNotFound
	case pdferrors.ErrorTypeInvalidField:
		return http.StatusUnprocessableEntity
	case pdferrors.ErrorTypeExportFailed:
		return http.StatusBadGateway
	default:
		return http.StatusBadRequest
	}
}

func (h *handler) fail(c *gin.Context, err error) {
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func (h *handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"fields": len(h.session.Fields()),
	})
}

func (h *handler) state(c *gin.Context) {
	c.JSON(http.StatusOK, h.session.State())
}

func (h *handler) listFields(c *gin.Context) {
	fields := h.session.Fields()
	if fields == nil {
		fields = form.List{}
	}
	c.JSON(http.StatusOK, fields)
}

func (h *handler) addField(c *gin.Context) {
	var req addFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, err)
		return
	}
	t, err := form.ParseFieldType(req.Type)
	if err != nil {
		h.fail(c, err)
		return
	}

	var field form.Field
	switch {
	case req.ScreenX != nil && req.ScreenY != nil:
		field, err = h.session.AddFieldAt(t, coords.ScreenPoint{X: *req.ScreenX, Y: *req.ScreenY})
	case req.ScreenX != nil || req.ScreenY != nil:
		err = errors.New("screenX and screenY must be given together")
	default:
		field, err = h.session.AddField(t)
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, field)
}

func (h *handler) updateField(c *gin.Context) {
	id := c.Param("id")
	var patch form.Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		h.fail(c, err)
		return
	}

	changed, err := h.session.UpdateField(id, patch)
	if err != nil {
		h.fail(c, err)
		return
	}
	if !changed {
		c.JSON(http.StatusNotFound, gin.H{"error": "field not found: " + id})
		return
	}
	field, _ := h.session.Fields().Find(id)
	c.JSON(http.StatusOK, field)
}

func (h *handler) deleteField(c *gin.Context) {
	id := c.Param("id")
	if !h.session.DeleteField(id) {
		c.JSON(http.StatusNotFound, gin.H{"error": "field not found: " + id})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handler) moveField(c *gin.Context) {
	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, err)
		return
	}
	if err := h.session.MoveField(*req.From, *req.To); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, h.session.Fields())
}

func (h *handler) reset(c *gin.Context) {
	h.session.Reset()
	c.Status(http.StatusNoContent)
}

func (h *handler) textConfig(c *gin.Context) {
	c.JSON(http.StatusOK, h.session.TextConfig())
}

func (h *handler) setTextConfig(c *gin.Context) {
	var patch form.TextConfigPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		h.fail(c, err)
		return
	}
	cfg, err := h.session.SetTextConfig(patch)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, cfg)
}

func (h *handler) setLayoutMode(c *gin.Context) {
	var req layoutModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, err)
		return
	}
	mode, err := reorder.ParseMode(req.Mode)
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := h.session.SetLayoutMode(mode); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, h.session.LayoutMode())
}

func (h *handler) zoom(c *gin.Context) {
	var req zoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, err)
		return
	}

	var z coords.Zoom
	switch strings.ToLower(req.Action) {
	case "in":
		z = h.session.ZoomIn()
	case "out":
		z = h.session.ZoomOut()
	case "set":
		z = h.session.SetZoom(req.Value)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown zoom action: " + req.Action})
		return
	}
	c.JSON(http.StatusOK, gin.H{"zoom": z})
}

func (h *handler) dragStart(c *gin.Context) {
	superseded, err := h.session.DragStart(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": h.session.DragState(), "superseded": superseded})
}

func (h *handler) drop(c *gin.Context) {
	var req dropRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, err)
		return
	}
	move, applied, err := h.session.Drop(req.ClientX, req.ClientY, req.Container)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"move": move, "applied": applied})
}

func (h *handler) dragEnd(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"state": h.session.DragEnd()})
}

func (h *handler) loadBase(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBody)
	data, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
		return
	}
	base, err := h.session.LoadBase(data)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, base)
}

func (h *handler) clearBase(c *gin.Context) {
	h.session.ClearBase()
	c.Status(http.StatusNoContent)
}

// document serves the latest adopted export, rendering one if none exists
func (h *handler) document(c *gin.Context) {
	doc, token := h.session.Document()
	if doc == nil {
		res, err := h.session.Export(c.Request.Context())
		if err != nil {
			h.fail(c, err)
			return
		}
		doc, token = res.Document, res.Token
	}
	c.Header("X-Export-Token", strconv.FormatUint(token, 10))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "application/pdf", doc.Data)
}

func (h *handler) overlay(c *gin.Context) {
	svg, err := h.session.Overlay()
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Data(http.StatusOK, "image/svg+xml", svg)
}

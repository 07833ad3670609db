package handlers

import (
	"errors"
	"net/http"

	"lokai/models"
	"lokai/services/geolocation"
	"lokai/services/search"
	"lokai/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SearchHandler exposes buyer search sessions over HTTP.
type SearchHandler struct {
	Registry *search.Registry
}

func NewSearchHandler(registry *search.Registry) *SearchHandler {
	return &SearchHandler{Registry: registry}
}

// LocationBody is a platform geolocation result pushed by the client. An
// empty body asks the server to locate the caller by IP.
type LocationBody struct {
	Latitude         *float64 `json:"latitude"`
	Longitude        *float64 `json:"longitude"`
	PermissionDenied bool     `json:"permissionDenied"`
	Error            string   `json:"error"`
}

func (b *LocationBody) fix() geolocation.Fix {
	if b == nil {
		return geolocation.Fix{}
	}
	return geolocation.Fix{
		Latitude:         b.Latitude,
		Longitude:        b.Longitude,
		PermissionDenied: b.PermissionDenied,
		Error:            b.Error,
	}
}

type createSessionBody struct {
	Language string        `json:"language"`
	Location *LocationBody `json:"location"`
}

// locatorFrom returns the IP locator set by the geolocation middleware.
func locatorFrom(c *gin.Context) geolocation.Locator {
	if v, ok := c.Get("locator"); ok {
		if l, ok := v.(geolocation.Locator); ok {
			return l
		}
	}
	return geolocation.Unsupported{}
}

func parseLanguage(c *gin.Context, tag string) (models.LanguageCode, bool) {
	lang, ok := models.ParseLanguage(tag)
	if !ok {
		utils.JSONError(c, http.StatusBadRequest, "unsupported language", tag)
		return "", false
	}
	return lang, true
}

// session resolves :id, answering 404 when it is unknown.
func (h *SearchHandler) session(c *gin.Context) (*search.Session, bool) {
	s, err := h.Registry.Get(c.Param("id"))
	if err != nil {
		utils.JSONError(c, http.StatusNotFound, "search session not found", c.Param("id"))
		return nil, false
	}
	return s, true
}

// respond writes the snapshot, or maps err to a status.
func (h *SearchHandler) respond(c *gin.Context, s *search.Session, err error) {
	switch {
	case err == nil:
		c.JSON(http.StatusOK, s.Snapshot())
	case errors.Is(err, search.ErrSuperseded):
		utils.JSONError(c, http.StatusConflict, "superseded by a newer search", err.Error())
	case errors.Is(err, search.ErrSessionClosed):
		utils.JSONError(c, http.StatusGone, "search session closed", err.Error())
	default:
		getLogger(c).Error("search request failed", zap.String("session", s.ID()), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "search request failed", err.Error())
	}
}

// CreateSessionHandler handles POST /api/search/sessions. The session is
// loaded before the response is written.
func (h *SearchHandler) CreateSessionHandler(c *gin.Context) {
	var body createSessionBody
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid request body", err.Error())
			return
		}
	}
	lang, ok := parseLanguage(c, body.Language)
	if !ok {
		return
	}

	s := h.Registry.Create(search.Options{Language: lang, Locator: locatorFrom(c)})
	ctx := c.Request.Context()
	if err := s.Load(ctx); err != nil {
		h.respond(c, s, err)
		return
	}
	if body.Location != nil {
		if _, err := s.ReportLocation(ctx, body.Location.fix()); err != nil {
			h.respond(c, s, err)
			return
		}
	}

	getLogger(c).Info("search session created", zap.String("session", s.ID()), zap.String("language", string(lang)))
	c.JSON(http.StatusCreated, s.Snapshot())
}

// GetSessionHandler handles GET /api/search/sessions/:id.
func (h *SearchHandler) GetSessionHandler(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.Snapshot())
}

// DeleteSessionHandler handles DELETE /api/search/sessions/:id.
func (h *SearchHandler) DeleteSessionHandler(c *gin.Context) {
	if err := h.Registry.Delete(c.Param("id")); err != nil {
		utils.JSONError(c, http.StatusNotFound, "search session not found", c.Param("id"))
		return
	}
	c.Status(http.StatusNoContent)
}

// SubmitQueryHandler handles POST /api/search/sessions/:id/query. An empty
// query clears the search.
func (h *SearchHandler) SubmitQueryHandler(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var body struct {
		Query string `json:"query"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	h.respond(c, s, s.Submit(c.Request.Context(), body.Query))
}

// SetLanguageHandler handles PUT /api/search/sessions/:id/language.
func (h *SearchHandler) SetLanguageHandler(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var body struct {
		Language string `json:"language" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	lang, ok := parseLanguage(c, body.Language)
	if !ok {
		return
	}
	h.respond(c, s, s.SetLanguage(c.Request.Context(), lang))
}

// ReportLocationHandler handles POST /api/search/sessions/:id/location.
func (h *SearchHandler) ReportLocationHandler(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var body LocationBody
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid request body", err.Error())
			return
		}
	}
	_, err := s.ReportLocation(c.Request.Context(), body.fix())
	h.respond(c, s, err)
}

// RefreshSessionHandler handles POST /api/search/sessions/:id/refresh.
func (h *SearchHandler) RefreshSessionHandler(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	h.respond(c, s, s.Refresh(c.Request.Context()))
}

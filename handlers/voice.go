package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"lokai/models"
	"lokai/services/speech"
	"lokai/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// VoiceQueryHandler handles POST /api/search/sessions/:id/voice. The
// multipart form carries a WAV file in "audio" and an optional "language";
// the final transcript is submitted as the session's search.
func (h *SearchHandler) VoiceQueryHandler(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	var lang models.LanguageCode
	if tag := c.PostForm("language"); tag != "" {
		if lang, ok = parseLanguage(c, tag); !ok {
			return
		}
	}

	file, header, err := c.Request.FormFile("audio")
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "missing audio file", err.Error())
		return
	}
	defer file.Close()

	if ext := strings.ToLower(filepath.Ext(header.Filename)); ext != speech.AllowedExtension {
		utils.JSONError(c, http.StatusBadRequest, "invalid file type",
			fmt.Sprintf("expected %s, got %s", speech.AllowedExtension, ext))
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, speech.MaxFileSize+1))
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to read audio file", err.Error())
		return
	}
	pcm, err := speech.PrepareAudio(data)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid audio", err.Error())
		return
	}

	err = s.Voice(c.Request.Context(), pcm, lang)
	if errors.Is(err, speech.ErrUnsupported) {
		// The snapshot carries the notice and voiceSupported=false.
		getLogger(c).Debug("voice search unsupported", zap.String("session", s.ID()))
		err = nil
	}
	h.respond(c, s, err)
}

// StopVoiceHandler handles POST /api/search/sessions/:id/voice/stop.
func (h *SearchHandler) StopVoiceHandler(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	s.StopListening()
	c.JSON(http.StatusOK, s.Snapshot())
}

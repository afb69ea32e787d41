package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/wooauto/internal/locale"
)

// LanguageController reads and switches the UI language.
type LanguageController struct {
	languages LanguageManager
}

func NewLanguageController(languages LanguageManager) *LanguageController {
	return &LanguageController{languages: languages}
}

// LanguageResponse is the response for GET and PUT /api/language
type LanguageResponse struct {
	Current   string            `json:"current"`
	Supported []locale.Language `json:"supported"`
}

// SetLanguageRequest is the request body for PUT /api/language
type SetLanguageRequest struct {
	Language string `json:"language" binding:"required"`
}

func (lc *LanguageController) GetLanguage(c *gin.Context) {
	current, err := lc.languages.Current()
	if err != nil {
		respondInternalError(c, err, "current language")
		return
	}
	c.JSON(http.StatusOK, LanguageResponse{Current: current, Supported: lc.languages.Supported()})
}

func (lc *LanguageController) SetLanguage(c *gin.Context) {
	var req SetLanguageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, CodeInvalidRequest, "invalid request: "+err.Error())
		return
	}

	current, err := lc.languages.Set(req.Language)
	if err != nil {
		if errors.Is(err, locale.ErrUnsupportedLanguage) {
			respondBadRequest(c, CodeInvalidValue, err.Error())
			return
		}
		respondInternalError(c, err, "set language")
		return
	}
	c.JSON(http.StatusOK, LanguageResponse{Current: current, Supported: lc.languages.Supported()})
}

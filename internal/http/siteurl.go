package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/wooauto/internal/siteurl"
)

// SiteURLController previews how a typed store address is normalized.
type SiteURLController struct {
	normalizer *siteurl.Normalizer
}

func NewSiteURLController(normalizer *siteurl.Normalizer) *SiteURLController {
	if normalizer == nil {
		normalizer = siteurl.New()
	}
	return &SiteURLController{normalizer: normalizer}
}

// NormalizeRequest is the request body for POST /api/site-url/normalize
type NormalizeRequest struct {
	URL string `json:"url"`
}

// NormalizeResponse includes the rule trace so a UI can show what was stripped.
type NormalizeResponse struct {
	SiteURL    string         `json:"site_url"`
	APIBaseURL string         `json:"api_base_url"`
	Steps      []siteurl.Step `json:"steps"`
}

func (sc *SiteURLController) Normalize(c *gin.Context) {
	var req NormalizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, CodeInvalidRequest, "invalid request: "+err.Error())
		return
	}

	site, steps := sc.normalizer.Explain(req.URL)
	if steps == nil {
		steps = []siteurl.Step{}
	}
	c.JSON(http.StatusOK, NormalizeResponse{
		SiteURL:    site,
		APIBaseURL: sc.normalizer.BuildAPIBaseURL(req.URL),
		Steps:      steps,
	})
}

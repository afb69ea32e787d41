package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrlokans/wooauto/internal/woocommerce"
)

// ConnectionController verifies store credentials against the WooCommerce API.
type ConnectionController struct {
	store     PreferenceStore
	newTester ConnectionTesterFactory
}

func NewConnectionController(store PreferenceStore, newTester ConnectionTesterFactory) *ConnectionController {
	if newTester == nil {
		newTester = func(cfg woocommerce.Config) ConnectionTester {
			return woocommerce.NewClient(cfg)
		}
	}
	return &ConnectionController{store: store, newTester: newTester}
}

// TestConnectionRequest optionally overrides the saved settings, so credentials
// can be checked before they are saved.
type TestConnectionRequest struct {
	WebsiteURL *string `json:"website_url"`
	APIKey     *string `json:"api_key"`
	APISecret  *string `json:"api_secret"`
}

// TestConnectionResponse is the response for POST /api/connection/test
type TestConnectionResponse struct {
	OK          bool                     `json:"ok"`
	APIBaseURL  string                   `json:"api_base_url"`
	Environment *woocommerce.Environment `json:"environment,omitempty"`
}

func (cc *ConnectionController) TestConnection(c *gin.Context) {
	var req TestConnectionRequest
	if c.Request.Body != nil && c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			respondBadRequest(c, CodeInvalidRequest, "invalid request: "+err.Error())
			return
		}
	}

	saved, err := cc.store.WooCommerceConfig()
	if err != nil {
		respondInternalError(c, err, "load connection settings")
		return
	}

	cfg := woocommerce.Config{
		SiteURL:        saved.SiteURL,
		ConsumerKey:    saved.ConsumerKey,
		ConsumerSecret: saved.ConsumerSecret,
	}
	if req.WebsiteURL != nil {
		cfg.SiteURL = *req.WebsiteURL
	}
	if req.APIKey != nil {
		cfg.ConsumerKey = *req.APIKey
	}
	if req.APISecret != nil {
		cfg.ConsumerSecret = *req.APISecret
	}

	status, err := cc.newTester(cfg).TestConnection(c.Request.Context())
	if err != nil {
		var apiErr *woocommerce.APIError
		switch {
		case errors.Is(err, woocommerce.ErrNotConfigured):
			respondBadRequest(c, CodeNotConfigured, err.Error())
		case errors.As(err, &apiErr):
			c.JSON(http.StatusBadGateway, ErrorResponse{
				Error:   apiErr.Error(),
				Code:    CodeUpstreamError,
				Details: gin.H{"status": apiErr.StatusCode, "code": apiErr.Code},
			})
		default:
			loggerFrom(c).Warn("connection test failed", zap.Error(err))
			respondError(c, http.StatusBadGateway, CodeUpstreamError, err.Error())
		}
		return
	}

	c.JSON(http.StatusOK, TestConnectionResponse{
		OK:          true,
		APIBaseURL:  woocommerce.NewClient(cfg).BaseURL(),
		Environment: &status.Environment,
	})
}

package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/Arbitrary-Inquiry/product-site/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// OAuthController relays the GitHub login for the CMS admin popup.
type OAuthController struct {
	OAuth  *services.OAuthService
	Logger *zap.Logger
}

// Authorize handles GET /auth: redirect the popup to GitHub's authorization
// page with a callback on this service's own origin.
func (oc *OAuthController) Authorize(c *gin.Context) {
	url, err := oc.OAuth.AuthorizeURL(requestOrigin(c))
	if err != nil {
		oc.Logger.Error("Failed to build authorize URL", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.Redirect(http.StatusFound, url)
}

// Callback handles GET /callback: exchange the code for an access token and
// hand it to the opener window via the CMS postMessage handshake. The token
// only ever appears in the response body.
func (oc *OAuthController) Callback(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		c.String(http.StatusBadRequest, "Missing code parameter")
		return
	}

	if state := c.Query("state"); state != "" {
		if err := oc.OAuth.VerifyState(state); err != nil {
			c.String(http.StatusBadRequest, "Invalid state parameter")
			return
		}
	}

	token, err := oc.OAuth.Exchange(c.Request.Context(), code)
	if err != nil {
		var perr *services.ProviderError
		if errors.As(err, &perr) {
			c.String(http.StatusBadRequest, "GitHub error: "+perr.Description)
			return
		}
		oc.Logger.Error("Token exchange failed", zap.Error(err))
		c.String(http.StatusBadGateway, "Token exchange failed")
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(callbackHTML(token)))
}

// callbackHTML builds the page the popup loads after a successful exchange.
// It waits for the opener's handshake message, then posts the token back in
// the format the CMS client expects.
func callbackHTML(token string) string {
	message, _ := json.Marshal(map[string]string{
		"token":    token,
		"provider": "github",
	})
	payload := strings.ReplaceAll(string(message), "'", "\\'")

	return `<!DOCTYPE html><html><body><script>
(function() {
  function receiveMessage(e) {
    window.opener.postMessage(
      'authorization:github:success:` + payload + `',
      e.origin
    );
  }
  window.addEventListener("message", receiveMessage, false);
  window.opener.postMessage("authorizing:github", "*");
})();
</script></body></html>`
}

package controllers

import "github.com/gin-gonic/gin"

// requestOrigin reconstructs the scheme://host origin of the inbound
// request. Download links and OAuth callbacks are derived from it, so the
// service works unchanged across environments.
func requestOrigin(c *gin.Context) string {
	scheme := "https"
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	} else if c.Request.TLS == nil {
		scheme = "http"
	}
	return scheme + "://" + c.Request.Host
}

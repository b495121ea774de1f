package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/moyoez/fileuploader/tool"
	"github.com/skip2/go-qrcode"
)

// DashboardPath is what a scanned code opens when no data is given.
const DashboardPath = "/api/self/v1/status"

const (
	defaultQRSize = 200
	maxQRSize     = 512
)

// DashboardQRCode returns a PNG QR code. Without data it encodes the dashboard url on the host the
// request came in on, so a phone on the LAN can open the dashboard by scanning the screen.
// GET /api/self/v1/create-qr-code?size=200x200&data=<url-encoded-content>
func DashboardQRCode(c *gin.Context) {
	data := c.Query("data")
	if data == "" {
		if c.Request.Host == "" {
			c.JSON(http.StatusBadRequest, tool.FastReturnError("Missing data and no host to build the dashboard url from"))
			return
		}
		data = DashboardURL(c.Request.Host)
	}

	size := min(max(parseSize(c.Query("size")), 0), maxQRSize)
	if size == 0 {
		size = defaultQRSize
	}

	png, err := qrcode.Encode(data, qrcode.Medium, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, tool.FastReturnError("Failed to encode QR code: "+err.Error()))
		return
	}
	c.Header("X-QR-Content", data)
	c.Data(http.StatusOK, "image/png", png)
}

// DashboardURL is the dashboard address for host ("ip:port").
func DashboardURL(host string) string {
	return "http://" + host + DashboardPath
}

// parseSize accepts "200x200" or "200". Anything else is 0.
func parseSize(s string) int {
	s = strings.TrimSpace(s)
	if w, _, found := strings.Cut(s, "x"); found {
		s = strings.TrimSpace(w)
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0
	}
	return n
}

package server

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

// serveWeb serves the built dashboard from WEB_DIR. Paths without a matching
// file fall back to index.html so client-side routes resolve. API paths and
// deployments without WEB_DIR get a JSON 404.
func (s *Server) serveWeb(c *gin.Context) {
	webDir := s.config.HTTP.WebDir
	p := path.Clean("/" + c.Request.URL.Path)

	if webDir == "" || p == "/api" || strings.HasPrefix(p, "/api/") ||
		(c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}

	file := filepath.Join(webDir, filepath.FromSlash(p))
	if info, err := os.Stat(file); err == nil && !info.IsDir() {
		c.File(file)
		return
	}

	index := filepath.Join(webDir, "index.html")
	if _, err := os.Stat(index); err != nil {
		s.logger.Error().Err(err).Str("web_dir", webDir).Msg("index.html missing from web dir")
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}
	c.File(index)
}

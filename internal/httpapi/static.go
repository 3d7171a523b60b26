package httpapi

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

// staticHandler serves the single-page frontend from dir. Unknown paths fall
// back to index.html; unknown RPC paths get a 404.
func staticHandler(dir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		urlPath := c.Request.URL.Path
		if strings.HasPrefix(urlPath, "/"+rpcPackage+".") {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown procedure"})
			return
		}
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.Status(http.StatusNotFound)
			return
		}

		if urlPath == "/" {
			urlPath = "/index.html"
		}
		// Clean against a rooted path so ".." cannot escape dir
		filePath := filepath.Join(dir, filepath.Clean("/"+urlPath))

		if info, err := os.Stat(filePath); err != nil || info.IsDir() {
			c.File(filepath.Join(dir, "index.html"))
			return
		}
		c.File(filePath)
	}
}

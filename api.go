// api.go
package main

import (
	"bytes"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/Arif-miad/education-economic-dashboard/internal/pages"
	"github.com/Arif-miad/education-economic-dashboard/internal/render"
)

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   version,
		"rows":      s.table.Rows(),
	})
}

func (s *Server) pageHandler(c *gin.Context) {
	res, err := s.builder.Build(pages.Resolve(c.Param("page")), s.view(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, APIResponse{Success: false, Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: res})
}

func (s *Server) filtersHandler(c *gin.Context) {
	ctx := currentSession(c)
	opts := s.filters.Options(s.table)
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: gin.H{
		"options":  opts,
		"selected": s.selection(c, &ctx).Resolve(opts),
	}})
}

// chartHandler renders one chart of a page as PNG. The file parameter is
// the chart index with a .png suffix.
func (s *Server) chartHandler(c *gin.Context) {
	index, err := strconv.Atoi(strings.TrimSuffix(c.Param("file"), ".png"))
	if err != nil || index < 0 {
		c.JSON(http.StatusBadRequest, APIResponse{Success: false, Error: "invalid chart index"})
		return
	}

	res, err := s.builder.Build(pages.Resolve(c.Param("page")), s.view(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, APIResponse{Success: false, Error: err.Error()})
		return
	}
	specs := res.Charts()
	if index >= len(specs) {
		c.JSON(http.StatusNotFound, APIResponse{Success: false, Error: "chart not found"})
		return
	}

	opts := render.Options{
		Width:  queryInt(c, "width"),
		Height: queryInt(c, "height"),
	}
	var buf bytes.Buffer
	if err := render.PNG(&buf, specs[index], opts); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, render.ErrEmpty) {
			status = http.StatusUnprocessableEntity
		}
		s.logger.Warn("chart render failed", "page", res.Slug, "index", index, "error", err)
		c.JSON(status, APIResponse{Success: false, Error: err.Error()})
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

func queryInt(c *gin.Context, key string) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil || n < 0 || n > 4000 {
		return 0
	}
	return n
}

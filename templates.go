// templates.go
package main

import (
	"embed"
	"fmt"
	"html/template"
	"math"

	"github.com/Arif-miad/education-economic-dashboard/internal/stats"
)

//go:embed templates/*.html
var templateFS embed.FS

var templateFuncs = template.FuncMap{
	"add": func(a, b int) int { return a + b },
	"contains": func(slice []string, item string) bool {
		for _, s := range slice {
			if s == item {
				return true
			}
		}
		return false
	},
	"formatNumber": func(n stats.Number) string {
		f := float64(n)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return "NaN"
		}
		return fmt.Sprintf("%.4f", f)
	},
}

func parseTemplates() (*template.Template, error) {
	return template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")
}

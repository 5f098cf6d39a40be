package pages

import "strings"

// Page is one of the five dashboard pages, named by its display name.
type Page string

const (
	Home     Page = "Home"
	Basic    Page = "Basic Visualizations"
	Advanced Page = "Advanced Visualizations"
	Features Page = "Feature Analysis"
	About    Page = "About"
)

// All lists the pages in navigation order.
var All = []Page{Home, Basic, Advanced, Features, About}

var slugs = map[Page]string{
	Home:     "home",
	Basic:    "basic",
	Advanced: "advanced",
	Features: "features",
	About:    "about",
}

var headings = map[Page]string{
	Home:     "🏠 Home",
	Basic:    "📊 Basic Visualizations",
	Advanced: "📈 Advanced Visualizations",
	Features: "🧩 Feature Analysis",
	About:    "ℹ️ About This Project",
}

// Slug returns the URL segment of the page.
func (p Page) Slug() string { return slugs[p] }

// Heading returns the page title shown above its content.
func (p Page) Heading() string { return headings[p] }

// Resolve maps a navigation value to a page. Both slugs and display names
// are accepted, case-insensitively; anything else falls back to Home.
func Resolve(value string) Page {
	v := strings.TrimSpace(value)
	for _, p := range All {
		if strings.EqualFold(v, p.Slug()) || strings.EqualFold(v, string(p)) {
			return p
		}
	}
	return Home
}

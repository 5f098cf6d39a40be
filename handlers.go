// handlers.go
package main

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Arif-miad/education-economic-dashboard/internal/dataset"
	"github.com/Arif-miad/education-economic-dashboard/internal/filter"
	"github.com/Arif-miad/education-economic-dashboard/internal/gate"
	"github.com/Arif-miad/education-economic-dashboard/internal/pages"
	"github.com/Arif-miad/education-economic-dashboard/internal/session"
)

const loggedInBanner = "✅ You are logged in!"

func (s *Server) loginForm(c *gin.Context) {
	if currentSession(c).Authenticated {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	c.Header("Cache-Control", "no-cache")
	c.HTML(http.StatusOK, "login.html", LoginPage{})
}

func (s *Server) login(c *gin.Context) {
	ctx := currentSession(c)
	user := c.PostForm("username")

	if err := gate.Login(&ctx, user, c.PostForm("password")); err != nil {
		s.logger.Warn("login rejected", "session", ctx.ID, "username", user)
		c.HTML(http.StatusUnauthorized, "login.html", LoginPage{Error: gate.FailureMessage, Username: user})
		return
	}

	s.sessions.Save(ctx)
	s.logger.Info("login successful", "session", ctx.ID)
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) dashboard(c *gin.Context) {
	ctx := currentSession(c)
	page := pages.Resolve(c.Param("page"))
	sel := s.selection(c, &ctx)

	res, err := s.builder.Build(page, s.filters.Apply(s.table, sel))
	if err != nil {
		s.logger.Error("page build failed", "page", page, "error", err)
		c.String(http.StatusInternalServerError, "Internal server error")
		return
	}

	opts := s.filters.Options(s.table)
	query := sel.Query(opts).Encode()
	data := DashboardPage{
		Banner:    loggedInBanner,
		Nav:       navItems(page, query),
		Page:      res,
		Sections:  sectionViews(res),
		Options:   opts,
		Selected:  sel.Resolve(opts),
		Query:     template.URL(query),
		TotalRows: s.table.Rows(),
	}

	c.Header("Cache-Control", "no-cache")
	c.HTML(http.StatusOK, "dashboard.html", data)
}

// selection returns the filters submitted with the request, remembering
// them in the session. Requests without the filtered marker reuse the
// session's last selection.
func (s *Server) selection(c *gin.Context, ctx *session.Context) filter.Selection {
	values := c.Request.URL.Query()
	if values.Get(filter.FieldMarker) != "1" {
		return ctx.Filters
	}
	ctx.Filters = filter.FromValues(values)
	s.sessions.Save(*ctx)
	return ctx.Filters
}

func (s *Server) view(c *gin.Context) dataset.View {
	ctx := currentSession(c)
	return s.filters.Apply(s.table, s.selection(c, &ctx))
}

func navItems(active pages.Page, query string) []NavItem {
	items := make([]NavItem, 0, len(pages.All))
	for _, p := range pages.All {
		href := "/page/" + p.Slug()
		if query != "" {
			href += "?" + query
		}
		items = append(items, NavItem{Name: string(p), Href: href, Active: p == active})
	}
	return items
}

// sectionViews numbers the charts of a page in the order Result.Charts
// returns them, which is the index the PNG endpoint takes.
func sectionViews(res *pages.Result) []SectionView {
	var out []SectionView
	idx := 0
	for _, sec := range res.Sections {
		sv := SectionView{Title: sec.Title, Placeholder: sec.Placeholder, Error: sec.Error}
		for _, spec := range sec.Charts {
			sv.Charts = append(sv.Charts, ChartView{Index: idx, Spec: spec})
			idx++
		}
		out = append(out, sv)
	}
	return out
}

// types.go
package main

import (
	"html/template"

	"github.com/Arif-miad/education-economic-dashboard/internal/charts"
	"github.com/Arif-miad/education-economic-dashboard/internal/filter"
	"github.com/Arif-miad/education-economic-dashboard/internal/pages"
)

type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

type LoginPage struct {
	Error    string
	Username string
}

type NavItem struct {
	Name   string
	Href   string
	Active bool
}

type ChartView struct {
	Index int
	Spec  charts.Spec
}

type SectionView struct {
	Title       string
	Placeholder string
	Error       string
	Charts      []ChartView
}

type DashboardPage struct {
	Banner    string
	Nav       []NavItem
	Page      *pages.Result
	Sections  []SectionView
	Options   filter.Options
	Selected  filter.Selection
	Query     template.URL
	TotalRows int
}

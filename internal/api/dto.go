package api

import (
	"github.com/starford/wikiblocks/internal/generator"
	"github.com/starford/wikiblocks/internal/models"
	"github.com/starford/wikiblocks/internal/wikiservice"
)

// PageListResponse wraps the page listing.
type PageListResponse struct {
	Pages []models.PageMeta `json:"pages"`
	Total int               `json:"total"`
}

// PageDetail is a page and its backlinks (aliased from the domain layer).
type PageDetail = wikiservice.PageDetail

// GraphResponse is the full link graph (aliased from the domain layer).
type GraphResponse = wikiservice.Graph

// TOCPreviewResponse is a page rendered with a fresh TOC.
type TOCPreviewResponse struct {
	Path    string `json:"path"`
	Managed bool   `json:"managed"`
	Content string `json:"content"`
}

// RunReport summarises one pipeline run.
type RunReport struct {
	Feature   string   `json:"feature"`
	Processed int      `json:"processed"`
	Updated   []string `json:"updated"`
}

// RegenerateResponse lists the reports of a regenerate call.
type RegenerateResponse struct {
	Reports []RunReport `json:"reports"`
}

func toRunReports(reports []*generator.Report) []RunReport {
	out := make([]RunReport, 0, len(reports))
	for _, r := range reports {
		updated := r.Updated
		if updated == nil {
			updated = []string{}
		}
		out = append(out, RunReport{
			Feature:   string(r.Feature),
			Processed: r.Processed,
			Updated:   updated,
		})
	}
	return out
}

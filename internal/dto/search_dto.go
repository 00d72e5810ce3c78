package dto

import "time"

type SearchFilters struct {
	ContentType string     `json:"contentType,omitempty" validate:"omitempty,oneof=article podcast video"`
	Platform    string     `json:"platform,omitempty"`
	DateFrom    *time.Time `json:"dateFrom,omitempty"`
	DateTo      *time.Time `json:"dateTo,omitempty"`
}

type SearchRequest struct {
	Query   string         `json:"query"`
	Limit   int            `json:"limit" validate:"omitempty,min=1,max=50"`
	Mode    string         `json:"mode" validate:"omitempty,oneof=semantic keyword hybrid"`
	Filters *SearchFilters `json:"filters,omitempty"`
}

type SearchResultResponse struct {
	Id          int64      `json:"id"`
	Title       string     `json:"title"`
	URL         string     `json:"url"`
	Summary     string     `json:"summary"`
	Insights    []string   `json:"insights,omitempty"`
	ContentType string     `json:"contentType"`
	Platform    string     `json:"platform,omitempty"`
	Pool        string     `json:"pool"`
	Source      string     `json:"source,omitempty"`
	Similarity  *float64   `json:"similarity,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

type SearchResponse struct {
	Results []*SearchResultResponse `json:"results"`
	Count   int                     `json:"count"`
}

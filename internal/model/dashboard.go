package model

// DateRange is an inclusive range of local calendar dates formatted YYYY-MM-DD.
type DateRange struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// CountSeries pairs chart labels with book counts.
type CountSeries struct {
	Labels []string `json:"labels"`
	Counts []int    `json:"counts"`
}

// PopularBook is one row of the popular books table.
type PopularBook struct {
	Rank      int    `json:"rank"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	Dept      string `json:"dept"`
	Downloads int    `json:"downloads"`
}

// Dashboard aggregates the widget endpoints for one date range.
// Widgets that failed keep their zero value and are named in Errors.
type Dashboard struct {
	Range           DateRange     `json:"range"`
	TotalBooks      int           `json:"totalBooks"`
	DownloadedBooks int           `json:"downloadedBooks"`
	ByCategory      CountSeries   `json:"byCategory"`
	ByDepartment    CountSeries   `json:"byDepartment"`
	PopularBooks    []PopularBook `json:"popularBooks"`
	Errors          []string      `json:"errors,omitempty"`
}

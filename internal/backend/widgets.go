package backend

import (
	"context"
	"encoding/json"
	"fmt"

	"libraryfront/internal/model"
)

type departmentWidget struct {
	DepartmentName []string `json:"departmentName"`
	BookCount      []int    `json:"bookCount"`
}

type categoryWidget struct {
	CategoryName []string `json:"categoryName"`
	BookCount    []int    `json:"bookCount"`
}

type countWidget struct {
	BookCount int `json:"bookCount"`
}

type popularBook struct {
	Title      string `json:"title"`
	Author     string `json:"author"`
	Department string `json:"department"`
	Downloads  int    `json:"downloads"`
}

// BooksByDepartment returns book counts per department for r.
func (c *Client) BooksByDepartment(ctx context.Context, r model.DateRange) (model.CountSeries, error) {
	var w departmentWidget
	if err := c.widget(ctx, "get-books-by-department", r, &w); err != nil {
		return model.CountSeries{}, err
	}
	return series(w.DepartmentName, w.BookCount), nil
}

// BooksByCategory returns book counts per category for r.
func (c *Client) BooksByCategory(ctx context.Context, r model.DateRange) (model.CountSeries, error) {
	var w categoryWidget
	if err := c.widget(ctx, "get-books-by-category", r, &w); err != nil {
		return model.CountSeries{}, err
	}
	return series(w.CategoryName, w.BookCount), nil
}

// TotalBooks returns the number of books in r.
func (c *Client) TotalBooks(ctx context.Context, r model.DateRange) (int, error) {
	var w countWidget
	if err := c.widget(ctx, "get-total-books-count", r, &w); err != nil {
		return 0, err
	}
	return w.BookCount, nil
}

// DownloadedBooks returns the number of downloads in r.
func (c *Client) DownloadedBooks(ctx context.Context, r model.DateRange) (int, error) {
	var w countWidget
	if err := c.widget(ctx, "get-downloaded-books-count", r, &w); err != nil {
		return 0, err
	}
	return w.BookCount, nil
}

// PopularBooks returns the most downloaded books in r, ranked in backend order.
func (c *Client) PopularBooks(ctx context.Context, r model.DateRange) ([]model.PopularBook, error) {
	var rows []popularBook
	if err := c.widget(ctx, "get-popular-books", r, &rows); err != nil {
		return nil, err
	}
	out := make([]model.PopularBook, 0, len(rows))
	for i, b := range rows {
		out = append(out, model.PopularBook{
			Rank:      i + 1,
			Title:     b.Title,
			Author:    b.Author,
			Dept:      b.Department,
			Downloads: b.Downloads,
		})
	}
	return out, nil
}

// Report renders the spreadsheet report of the given kind for r.
func (c *Client) Report(ctx context.Context, kind model.ReportKind, r model.DateRange) ([]byte, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown report kind %q", kind)
	}
	path := fmt.Sprintf("/api/Report/download-%s-report-excel", kind)
	return c.postJSON(ctx, "report_"+string(kind), path, r)
}

func (c *Client) widget(ctx context.Context, name string, r model.DateRange, out any) error {
	body, err := c.postJSON(ctx, "widget", "/api/Widgit/"+name, r)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

// series pairs labels with counts, dropping unmatched tail entries.
func series(labels []string, counts []int) model.CountSeries {
	n := len(labels)
	if len(counts) < n {
		n = len(counts)
	}
	s := model.CountSeries{Labels: make([]string, n), Counts: make([]int, n)}
	copy(s.Labels, labels[:n])
	copy(s.Counts, counts[:n])
	return s
}

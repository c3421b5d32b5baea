package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"libraryfront/internal/model"
)

const dateLayout = "2006-01-02"

// Named dashboard ranges.
const (
	RangeMonthToDate     = "monthToDate"
	RangeLastMonth       = "lastMonth"
	RangeLastThreeMonths = "lastThreeMonths"
	RangeThisYear        = "thisYear"
	RangeLastYear        = "lastYear"
)

var (
	ErrUnknownRange = errors.New("unknown date range")
	ErrInvalidDate  = errors.New("dates must be YYYY-MM-DD with start not after end")
	// ErrDashboardUnavailable is returned when every widget failed.
	ErrDashboardUnavailable = errors.New("dashboard widgets unavailable")
)

// ResolveRange turns a named range into calendar dates relative to today, in today's location.
func ResolveRange(name string, today time.Time) (model.DateRange, error) {
	y, m, d := today.Date()
	loc := today.Location()
	date := func(y int, m time.Month, d int) string {
		return time.Date(y, m, d, 0, 0, 0, 0, loc).Format(dateLayout)
	}

	switch name {
	case RangeMonthToDate:
		return model.DateRange{StartDate: date(y, m, 1), EndDate: date(y, m, d)}, nil
	case RangeLastMonth:
		// day 0 of this month is the last day of the previous one
		return model.DateRange{StartDate: date(y, m-1, 1), EndDate: date(y, m, 0)}, nil
	case RangeLastThreeMonths:
		return model.DateRange{StartDate: date(y, m-3, 1), EndDate: date(y, m, d)}, nil
	case RangeThisYear:
		return model.DateRange{StartDate: date(y, time.January, 1), EndDate: date(y, m, d)}, nil
	case RangeLastYear:
		return model.DateRange{StartDate: date(y-1, time.January, 1), EndDate: date(y-1, time.December, 31)}, nil
	default:
		return model.DateRange{}, fmt.Errorf("%w: %q", ErrUnknownRange, name)
	}
}

// ParseRange validates an explicit start/end pair.
func ParseRange(start, end string) (model.DateRange, error) {
	s, err := time.Parse(dateLayout, start)
	if err != nil {
		return model.DateRange{}, ErrInvalidDate
	}
	e, err := time.Parse(dateLayout, end)
	if err != nil {
		return model.DateRange{}, ErrInvalidDate
	}
	if e.Before(s) {
		return model.DateRange{}, ErrInvalidDate
	}
	return model.DateRange{StartDate: start, EndDate: end}, nil
}

// WidgetBackend is the part of the backend client the dashboard uses.
type WidgetBackend interface {
	BooksByDepartment(ctx context.Context, r model.DateRange) (model.CountSeries, error)
	BooksByCategory(ctx context.Context, r model.DateRange) (model.CountSeries, error)
	TotalBooks(ctx context.Context, r model.DateRange) (int, error)
	DownloadedBooks(ctx context.Context, r model.DateRange) (int, error)
	PopularBooks(ctx context.Context, r model.DateRange) ([]model.PopularBook, error)
}

// DashboardService aggregates the dashboard widgets.
type DashboardService interface {
	// Get queries all widgets for r concurrently. Individual widget failures are
	// listed in Dashboard.Errors; only a total failure is returned as an error.
	Get(ctx context.Context, r model.DateRange) (*model.Dashboard, error)
}

type dashboardService struct {
	backend WidgetBackend
	log     zerolog.Logger
}

// NewDashboardService constructs a new DashboardService.
func NewDashboardService(b WidgetBackend, log zerolog.Logger) DashboardService {
	return &dashboardService{backend: b, log: log}
}

func (s *dashboardService) Get(ctx context.Context, r model.DateRange) (*model.Dashboard, error) {
	out := &model.Dashboard{
		Range:        r,
		ByCategory:   model.CountSeries{Labels: []string{}, Counts: []int{}},
		ByDepartment: model.CountSeries{Labels: []string{}, Counts: []int{}},
		PopularBooks: []model.PopularBook{},
	}

	widgets := []struct {
		name string
		run  func(context.Context) error
	}{
		{"totalBooks", func(ctx context.Context) error {
			n, err := s.backend.TotalBooks(ctx, r)
			if err == nil {
				out.TotalBooks = n
			}
			return err
		}},
		{"downloadedBooks", func(ctx context.Context) error {
			n, err := s.backend.DownloadedBooks(ctx, r)
			if err == nil {
				out.DownloadedBooks = n
			}
			return err
		}},
		{"byCategory", func(ctx context.Context) error {
			cs, err := s.backend.BooksByCategory(ctx, r)
			if err == nil {
				out.ByCategory = cs
			}
			return err
		}},
		{"byDepartment", func(ctx context.Context) error {
			cs, err := s.backend.BooksByDepartment(ctx, r)
			if err == nil {
				out.ByDepartment = cs
			}
			return err
		}},
		{"popularBooks", func(ctx context.Context) error {
			pb, err := s.backend.PopularBooks(ctx, r)
			if err == nil && pb != nil {
				out.PopularBooks = pb
			}
			return err
		}},
	}

	// widget failures are collected, not returned, so every partial result is kept
	var g errgroup.Group
	broken := make([]error, len(widgets))
	for i, w := range widgets {
		g.Go(func() error {
			// each widget writes a distinct field of out
			if err := w.run(ctx); err != nil {
				s.log.Warn().Err(err).Str("widget", w.name).Msg("dashboard_widget_failed")
				broken[i] = err
			}
			return nil
		})
	}
	_ = g.Wait()

	var first error
	for i, w := range widgets {
		if broken[i] != nil {
			out.Errors = append(out.Errors, w.name)
			if first == nil {
				first = broken[i]
			}
		}
	}
	if len(out.Errors) == len(widgets) {
		return nil, fmt.Errorf("%w: %w", ErrDashboardUnavailable, first)
	}
	return out, nil
}

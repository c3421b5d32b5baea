package service

import "time"

// Test-only hooks for the external service_test package (book_test.go,
// report_test.go), which cannot live in package service because
// service/mocks imports service.

type BookServiceImpl = bookService

type ReportServiceImpl = reportService

func (s *bookService) SetNow(now func() time.Time) { s.now = now }

func (s *reportService) SetNow(now func() time.Time) { s.now = now }

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"libraryfront/internal/backend"
	"libraryfront/internal/model"
)

var (
	ErrInvalidID = errors.New("document id must be a positive integer")
	ErrNoFiles   = errors.New("no files selected")
	ErrNotPDF    = errors.New("only PDF files are allowed")
)

// Notification messages shown after admin mutations.
const (
	MsgBookAdded      = "Book added successfully!"
	MsgBookAddFailed  = "Error occurred while adding."
	MsgBookEdited     = "File uploaded successfully!"
	MsgBookEditFailed = "File uploaded failed!"
	MsgBookDeleted    = "Book Deleted successfully!"
	MsgDeleteFailed   = "Error occurred while deleting."
	MsgBulkUploaded   = "Files uploaded successfully!"
	MsgBulkFailed     = "Upload failed."
)

// MutationError is a failed admin mutation together with the notification to show for it.
type MutationError struct {
	Notification model.Notification
	Err          error
}

func (e *MutationError) Error() string { return e.Notification.Message + ": " + e.Err.Error() }

func (e *MutationError) Unwrap() error { return e.Err }

// BulkResult is the outcome of a bulk upload.
type BulkResult struct {
	Notification model.Notification `json:"notification"`
	Files        int                `json:"files"`
	Backend      json.RawMessage    `json:"backend,omitempty"`
}

// BookBackend is the part of the backend client the book service uses.
type BookBackend interface {
	AddBook(ctx context.Context, form model.BookForm, att *backend.Attachment) error
	EditBook(ctx context.Context, id int64, form model.BookForm, att *backend.Attachment) error
	DeleteBook(ctx context.Context, id int64) error
	BulkUpload(ctx context.Context, files []backend.Attachment) (json.RawMessage, error)
	Download(ctx context.Context, id int64) (*model.DownloadFile, error)
}

// BookService defines the catalog administration use cases.
// Every mutation is audited; failures come back as *MutationError.
type BookService interface {
	// Add validates form and creates a record, optionally with a PDF attachment.
	Add(ctx context.Context, form model.BookForm, att *backend.Attachment) (model.Notification, error)

	// Edit validates form and replaces record id.
	Edit(ctx context.Context, id int64, form model.BookForm, att *backend.Attachment) (model.Notification, error)

	// Delete removes record id.
	Delete(ctx context.Context, id int64) (model.Notification, error)

	// BulkUpload sends files to the backend in one request.
	BulkUpload(ctx context.Context, files []backend.Attachment) (*BulkResult, error)

	// Download returns the decoded document of record id.
	Download(ctx context.Context, id int64) (*model.DownloadFile, error)
}

type bookService struct {
	backend BookBackend
	audit   AuditService
	now     func() time.Time
}

// NewBookService constructs a new BookService.
func NewBookService(b BookBackend, audit AuditService) BookService {
	return &bookService{backend: b, audit: audit, now: time.Now}
}

// ParseID parses a path document id.
func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id < 1 {
		return 0, ErrInvalidID
	}
	return id, nil
}

func (s *bookService) Add(ctx context.Context, form model.BookForm, att *backend.Attachment) (model.Notification, error) {
	form = s.withDefaults(form)
	if err := checkForm(form, att); err != nil {
		return model.Notification{}, err
	}

	err := s.backend.AddBook(ctx, form, att)
	s.audit.Record(ctx, model.ActionAddBook, nil, form.Title, err)
	if err != nil {
		return model.Notification{}, failed(MsgBookAddFailed, err)
	}
	return succeeded(MsgBookAdded), nil
}

func (s *bookService) Edit(ctx context.Context, id int64, form model.BookForm, att *backend.Attachment) (model.Notification, error) {
	if id < 1 {
		return model.Notification{}, ErrInvalidID
	}
	form = s.withDefaults(form)
	if err := checkForm(form, att); err != nil {
		return model.Notification{}, err
	}

	err := s.backend.EditBook(ctx, id, form, att)
	s.audit.Record(ctx, model.ActionEditBook, &id, form.Title, err)
	if err != nil {
		return model.Notification{}, failed(MsgBookEditFailed, err)
	}
	return succeeded(MsgBookEdited), nil
}

func (s *bookService) Delete(ctx context.Context, id int64) (model.Notification, error) {
	if id < 1 {
		return model.Notification{}, ErrInvalidID
	}

	err := s.backend.DeleteBook(ctx, id)
	s.audit.Record(ctx, model.ActionDeleteBook, &id, "", err)
	if err != nil {
		return model.Notification{}, failed(MsgDeleteFailed, err)
	}
	return succeeded(MsgBookDeleted), nil
}

func (s *bookService) BulkUpload(ctx context.Context, files []backend.Attachment) (*BulkResult, error) {
	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	raw, err := s.backend.BulkUpload(ctx, files)
	s.audit.Record(ctx, model.ActionBulkUpload, nil, fmt.Sprintf("%d files", len(files)), err)
	if err != nil {
		return nil, failed(MsgBulkFailed, err)
	}
	return &BulkResult{Notification: succeeded(MsgBulkUploaded), Files: len(files), Backend: raw}, nil
}

func (s *bookService) Download(ctx context.Context, id int64) (*model.DownloadFile, error) {
	if id < 1 {
		return nil, ErrInvalidID
	}

	f, err := s.backend.Download(ctx, id)
	detail := ""
	if f != nil {
		detail = f.FileName
	}
	s.audit.Record(ctx, model.ActionDownload, &id, detail, err)
	return f, err
}

// withDefaults fills the values the add-book form starts out with.
func (s *bookService) withDefaults(form model.BookForm) model.BookForm {
	form.Title = strings.TrimSpace(form.Title)
	form.Author = strings.TrimSpace(form.Author)
	if form.Category == "" {
		form.Category = model.DefaultCategory
	}
	if form.Department == "" {
		form.Department = model.DefaultDepartment
	}
	if form.Year == 0 {
		form.Year = s.now().Year()
	}
	return form
}

func checkForm(form model.BookForm, att *backend.Attachment) error {
	if err := validateStruct(form); err != nil {
		return err
	}
	if att != nil && !isPDF(att) {
		return ErrNotPDF
	}
	return nil
}

func isPDF(att *backend.Attachment) bool {
	ct := strings.ToLower(strings.TrimSpace(strings.SplitN(att.ContentType, ";", 2)[0]))
	return ct == "application/pdf"
}

func succeeded(msg string) model.Notification {
	return model.Notification{Type: model.NotifySuccess, Message: msg}
}

func failed(msg string, err error) error {
	return &MutationError{Notification: model.Notification{Type: model.NotifyError, Message: msg}, Err: err}
}

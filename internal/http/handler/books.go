package handler

import (
	"errors"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"libraryfront/internal/backend"
	"libraryfront/internal/catalog"
	"libraryfront/internal/model"
	"libraryfront/internal/service"
)

const maxPageSize = 100

// ListBooks answers a one-shot catalog query built from page, size, q, category and department.
// defaultSize applies when size is absent.
func ListBooks(svc service.CatalogService, defaultSize int) fiber.Handler {
	return func(c *fiber.Ctx) error {
		page, err := strconv.Atoi(c.Query("page", "1"))
		if err != nil || page < 1 {
			return writeError(c, fiber.StatusBadRequest, "INVALID_PAGE", "invalid page")
		}
		size, err := strconv.Atoi(c.Query("size", strconv.Itoa(defaultSize)))
		if err != nil || size < 1 || size > maxPageSize {
			return writeError(c, fiber.StatusBadRequest, "INVALID_SIZE", "invalid size")
		}

		res := svc.List(c.UserContext(), catalog.QueryState{
			PageNumber: page,
			PageSize:   size,
			SearchTerm: c.Query("q"),
			Category:   c.Query("category"),
			Department: c.Query("department"),
		})
		if res.Status.Outcome == catalog.OutcomeFailed {
			status, code := backendStatus(res.Status.Err)
			return writeError(c, status, code, res.Status.Message)
		}
		return c.JSON(res)
	}
}

// AddBook creates a record from a multipart form with an optional PDF "attachment".
func AddBook(svc service.BookService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		form, att, closeFile, err := readBookForm(c)
		if err != nil {
			return writeFormError(c, err)
		}
		defer closeFile()

		n, err := svc.Add(c.UserContext(), form, att)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"notification": n})
	}
}

// EditBook replaces record :id from a multipart form.
func EditBook(svc service.BookService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := service.ParseID(c.Params("id"))
		if err != nil {
			return respondError(c, err)
		}
		form, att, closeFile, err := readBookForm(c)
		if err != nil {
			return writeFormError(c, err)
		}
		defer closeFile()

		n, err := svc.Edit(c.UserContext(), id, form, att)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"notification": n})
	}
}

// DeleteBook removes record :id.
func DeleteBook(svc service.BookService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := service.ParseID(c.Params("id"))
		if err != nil {
			return respondError(c, err)
		}
		n, err := svc.Delete(c.UserContext(), id)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"notification": n})
	}
}

// BulkUpload forwards every "files" part of the multipart body in one backend call.
func BulkUpload(svc service.BookService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var headers []*multipart.FileHeader
		if mf, err := c.MultipartForm(); err == nil {
			headers = mf.File["files"]
		}

		files := make([]backend.Attachment, 0, len(headers))
		for _, fh := range headers {
			f, err := fh.Open()
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
			}
			defer f.Close()
			files = append(files, backend.Attachment{FileName: fh.Filename, ContentType: contentType(fh), Content: f})
		}

		res, err := svc.BulkUpload(c.UserContext(), files)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(res)
	}
}

// DownloadBook streams the document of record :id as an attachment.
func DownloadBook(svc service.BookService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := service.ParseID(c.Params("id"))
		if err != nil {
			return respondError(c, err)
		}
		f, err := svc.Download(c.UserContext(), id)
		if err != nil {
			return respondError(c, err)
		}
		c.Attachment(f.FileName)
		c.Set(fiber.HeaderContentType, f.ContentType)
		return c.Send(f.Data)
	}
}

// formError is a malformed multipart field.
type formError struct {
	code, message string
}

func (e *formError) Error() string { return e.message }

// readBookForm parses the book fields and the optional "attachment" file.
// The returned func closes the attachment.
func readBookForm(c *fiber.Ctx) (model.BookForm, *backend.Attachment, func(), error) {
	noop := func() {}
	form := model.BookForm{
		Title:      c.FormValue("title"),
		Author:     c.FormValue("author"),
		Category:   c.FormValue("category"),
		Department: c.FormValue("department"),
	}
	if raw := strings.TrimSpace(c.FormValue("year")); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil {
			return form, nil, noop, &formError{"INVALID_YEAR", "year must be a number"}
		}
		form.Year = y
	}

	fh, err := c.FormFile("attachment")
	if err != nil {
		// no attachment, or not a multipart body at all
		return form, nil, noop, nil
	}
	f, err := fh.Open()
	if err != nil {
		return form, nil, noop, &formError{"FILE_OPEN_ERROR", "cannot open uploaded file"}
	}
	att := &backend.Attachment{FileName: fh.Filename, ContentType: contentType(fh), Content: f}
	return form, att, func() { _ = f.Close() }, nil
}

func writeFormError(c *fiber.Ctx, err error) error {
	var fe *formError
	if errors.As(err, &fe) {
		return writeError(c, fiber.StatusBadRequest, fe.code, fe.message)
	}
	return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "bad request")
}

func contentType(fh *multipart.FileHeader) string {
	if ct := fh.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

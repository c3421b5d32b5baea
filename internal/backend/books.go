package backend

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strconv"
	"strings"

	"libraryfront/internal/catalog"
	"libraryfront/internal/model"
)

// DefaultDownloadMessage is reported when the backend refuses a download without saying why.
const DefaultDownloadMessage = "Failed to download document."

var _ catalog.ListingService = (*Client)(nil)

// RejectedError is a download the backend answered with isSuccess=false or an incomplete payload.
type RejectedError struct {
	Message string
}

func (e *RejectedError) Error() string { return e.Message }

// Attachment is a file forwarded to the backend as a multipart part.
type Attachment struct {
	FileName    string
	ContentType string
	Content     io.Reader
}

// Query fetches one page of the catalog listing and returns the raw body.
func (c *Client) Query(ctx context.Context, req catalog.ListingRequest) ([]byte, error) {
	return c.postJSON(ctx, "listing", "/Main/get-all-document-paginated", req)
}

// AddBook creates a catalog record, optionally with its document file.
func (c *Client) AddBook(ctx context.Context, form model.BookForm, att *Attachment) error {
	_, err := c.postMultipart(ctx, "add_book", "/Main/add-book", func(mw *multipart.Writer) error {
		if err := writeBookFields(mw, form); err != nil {
			return err
		}
		if att != nil {
			return writeFile(mw, "attachment", *att)
		}
		return nil
	})
	return err
}

// EditBook replaces the editable fields of record id.
func (c *Client) EditBook(ctx context.Context, id int64, form model.BookForm, att *Attachment) error {
	_, err := c.postMultipart(ctx, "edit_book", "/Main/edit-book", func(mw *multipart.Writer) error {
		if err := mw.WriteField("documentId", strconv.FormatInt(id, 10)); err != nil {
			return err
		}
		if err := writeBookFields(mw, form); err != nil {
			return err
		}
		if att != nil {
			return writeFile(mw, "attachment", *att)
		}
		return nil
	})
	return err
}

// DeleteBook removes record id.
func (c *Client) DeleteBook(ctx context.Context, id int64) error {
	_, err := c.get(ctx, "delete_book", "/Main/delete-book/"+strconv.FormatInt(id, 10))
	return err
}

// BulkUpload sends files in one request and returns the backend's summary untouched.
func (c *Client) BulkUpload(ctx context.Context, files []Attachment) (json.RawMessage, error) {
	body, err := c.postMultipart(ctx, "bulk_upload", "/Main/bulk", func(mw *multipart.Writer) error {
		for _, f := range files {
			if err := writeFile(mw, "files", f); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !json.Valid(body) {
		return nil, nil
	}
	return json.RawMessage(body), nil
}

type downloadResponse struct {
	IsSuccess   bool   `json:"isSuccess"`
	Message     string `json:"message"`
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	Base64Data  string `json:"base64Data"`
}

// Download fetches record id's document and decodes its base64 payload.
func (c *Client) Download(ctx context.Context, id int64) (*model.DownloadFile, error) {
	body, err := c.get(ctx, "download", "/Main/download-document/"+strconv.FormatInt(id, 10))
	if err != nil {
		return nil, err
	}

	var dr downloadResponse
	if err := json.Unmarshal(body, &dr); err != nil {
		return nil, fmt.Errorf("decode download response: %w", err)
	}
	if !dr.IsSuccess || dr.Base64Data == "" || dr.ContentType == "" || dr.FileName == "" {
		msg := dr.Message
		if msg == "" {
			msg = DefaultDownloadMessage
		}
		return nil, &RejectedError{Message: msg}
	}

	data, err := base64.StdEncoding.DecodeString(dr.Base64Data)
	if err != nil {
		return nil, fmt.Errorf("decode document %d: %w", id, err)
	}
	return &model.DownloadFile{FileName: dr.FileName, ContentType: dr.ContentType, Data: data}, nil
}

func writeBookFields(mw *multipart.Writer, form model.BookForm) error {
	fields := [][2]string{
		{"title", form.Title},
		{"author", form.Author},
		{"category", form.Category},
		{"department", form.Department},
		{"year", strconv.Itoa(form.Year)},
	}
	for _, f := range fields {
		if err := mw.WriteField(f[0], f[1]); err != nil {
			return err
		}
	}
	return nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func writeFile(mw *multipart.Writer, field string, att Attachment) error {
	ct := att.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(field), quoteEscaper.Replace(att.FileName)))
	h.Set("Content-Type", ct)
	part, err := mw.CreatePart(h)
	if err != nil {
		return err
	}
	if att.Content == nil {
		return nil
	}
	_, err = io.Copy(part, att.Content)
	return err
}

package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// DefaultImageURL is shown for records that come without cover art.
const DefaultImageURL = "assets/default-book.png"

// ErrUnrecognizedShape is returned for listing bodies that match none of the known shapes.
var ErrUnrecognizedShape = errors.New("unrecognized listing response shape")

// DocumentRecord is one catalog entry as displayed. Records are replaced wholesale
// on every fetch, never patched.
type DocumentRecord struct {
	ID         int64  `json:"documentId"`
	Title      string `json:"title"`
	Author     string `json:"author"`
	Year       int    `json:"year"`
	Category   string `json:"category"`
	Department string `json:"department"`
	ImageURL   string `json:"imageUrl"`
}

// ListResult is one page of records and the total number of matches.
type ListResult struct {
	Items      []DocumentRecord `json:"items"`
	TotalCount int              `json:"totalCount"`
}

// Shape tags which of the accepted listing layouts a body used.
type Shape int

const (
	// ShapeArray is a bare JSON array of records.
	ShapeArray Shape = iota + 1
	// ShapeItems is an object carrying the records under "items".
	ShapeItems
	// ShapeData is an object carrying the records under "data".
	ShapeData
)

func (s Shape) String() string {
	switch s {
	case ShapeArray:
		return "array"
	case ShapeItems:
		return "items"
	case ShapeData:
		return "data"
	default:
		return "unknown"
	}
}

// RawListing is a listing body after boundary validation but before defaults are applied.
type RawListing struct {
	Shape      Shape
	Records    []wireRecord
	TotalCount *int
}

type wireRecord struct {
	DocumentID *int64 `json:"documentId"`
	ID         *int64 `json:"id"`
	Title      string `json:"title"`
	Author     string `json:"author"`
	Year       int    `json:"year"`
	Category   string `json:"category"`
	Department string `json:"department"`
	ImageURL   string `json:"imageUrl"`
}

type envelope struct {
	Items      json.RawMessage `json:"items"`
	Data       json.RawMessage `json:"data"`
	TotalCount *int            `json:"totalCount"`
}

// ParseListing classifies raw into one of the known shapes.
// "items" wins over "data"; a key holding null counts as absent.
func ParseListing(raw []byte) (RawListing, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return RawListing{}, fmt.Errorf("%w: empty body", ErrUnrecognizedShape)
	}

	switch raw[0] {
	case '[':
		recs, err := decodeRecords(raw)
		if err != nil {
			return RawListing{}, err
		}
		return RawListing{Shape: ShapeArray, Records: recs}, nil
	case '{':
		var env envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			return RawListing{}, fmt.Errorf("%w: %v", ErrUnrecognizedShape, err)
		}
		if env.TotalCount != nil && *env.TotalCount < 0 {
			return RawListing{}, fmt.Errorf("%w: negative totalCount %d", ErrUnrecognizedShape, *env.TotalCount)
		}
		if present(env.Items) {
			recs, err := decodeRecords(env.Items)
			if err != nil {
				return RawListing{}, err
			}
			return RawListing{Shape: ShapeItems, Records: recs, TotalCount: env.TotalCount}, nil
		}
		if present(env.Data) {
			recs, err := decodeRecords(env.Data)
			if err != nil {
				return RawListing{}, err
			}
			return RawListing{Shape: ShapeData, Records: recs, TotalCount: env.TotalCount}, nil
		}
		return RawListing{}, fmt.Errorf("%w: object without items or data", ErrUnrecognizedShape)
	default:
		return RawListing{}, fmt.Errorf("%w: unexpected %q", ErrUnrecognizedShape, raw[0])
	}
}

// Normalize turns a raw listing body into display records.
// Without an explicit totalCount the total falls back to the number of records,
// so paging degrades to a single page holding everything.
func Normalize(raw []byte) (ListResult, error) {
	parsed, err := ParseListing(raw)
	if err != nil {
		return ListResult{}, err
	}
	return parsed.Result(), nil
}

// Result applies record defaults and resolves the total count.
func (r RawListing) Result() ListResult {
	items := make([]DocumentRecord, 0, len(r.Records))
	for _, w := range r.Records {
		items = append(items, w.record())
	}
	total := len(items)
	if r.TotalCount != nil {
		total = *r.TotalCount
	}
	return ListResult{Items: items, TotalCount: total}
}

func (w wireRecord) record() DocumentRecord {
	rec := DocumentRecord{
		Title:      w.Title,
		Author:     w.Author,
		Year:       w.Year,
		Category:   w.Category,
		Department: w.Department,
		ImageURL:   w.ImageURL,
	}
	switch {
	case w.DocumentID != nil:
		rec.ID = *w.DocumentID
	case w.ID != nil:
		rec.ID = *w.ID
	}
	if rec.ImageURL == "" {
		rec.ImageURL = DefaultImageURL
	}
	return rec
}

func decodeRecords(raw json.RawMessage) ([]wireRecord, error) {
	var ptrs []*wireRecord
	if err := json.Unmarshal(raw, &ptrs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnrecognizedShape, err)
	}
	recs := make([]wireRecord, 0, len(ptrs))
	for i, p := range ptrs {
		if p == nil {
			return nil, fmt.Errorf("%w: null record at index %d", ErrUnrecognizedShape, i)
		}
		recs = append(recs, *p)
	}
	return recs, nil
}

func present(raw json.RawMessage) bool {
	return len(raw) > 0 && !bytes.Equal(raw, []byte("null"))
}

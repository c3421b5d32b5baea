package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_Shapes(t *testing.T) {
	x := `{"documentId":1,"title":"x","imageUrl":"x.png"}`
	y := `{"documentId":2,"title":"y","imageUrl":"y.png"}`

	tests := []struct {
		name      string
		body      string
		wantShape Shape
		wantIDs   []int64
		wantTotal int
	}{
		{
			name:      "items with explicit total",
			body:      `{"items":[` + x + `,` + y + `],"totalCount":5}`,
			wantShape: ShapeItems,
			wantIDs:   []int64{1, 2},
			wantTotal: 5,
		},
		{
			name:      "bare array falls back to length",
			body:      `[` + x + `,` + y + `]`,
			wantShape: ShapeArray,
			wantIDs:   []int64{1, 2},
			wantTotal: 2,
		},
		{
			name:      "data without total falls back to length",
			body:      `{"data":[` + x + `]}`,
			wantShape: ShapeData,
			wantIDs:   []int64{1},
			wantTotal: 1,
		},
		{
			name:      "items preferred over data",
			body:      `{"items":[` + y + `],"data":[` + x + `],"totalCount":9}`,
			wantShape: ShapeItems,
			wantIDs:   []int64{2},
			wantTotal: 9,
		},
		{
			name:      "null items falls through to data",
			body:      `{"items":null,"data":[` + x + `]}`,
			wantShape: ShapeData,
			wantIDs:   []int64{1},
			wantTotal: 1,
		},
		{
			name:      "null total falls back to length",
			body:      `{"items":[` + x + `],"totalCount":null}`,
			wantShape: ShapeItems,
			wantIDs:   []int64{1},
			wantTotal: 1,
		},
		{
			name:      "empty page is valid",
			body:      ` {"items":[],"totalCount":0} `,
			wantShape: ShapeItems,
			wantIDs:   []int64{},
			wantTotal: 0,
		},
		{
			name:      "id accepted when documentId missing",
			body:      `[{"id":7,"title":"z"}]`,
			wantShape: ShapeArray,
			wantIDs:   []int64{7},
			wantTotal: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := ParseListing([]byte(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.wantShape, parsed.Shape)

			res, err := Normalize([]byte(tt.body))
			require.NoError(t, err)

			ids := make([]int64, 0, len(res.Items))
			for _, it := range res.Items {
				ids = append(ids, it.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
			assert.Equal(t, tt.wantTotal, res.TotalCount)
		})
	}
}

func TestNormalize_KeepsOrder(t *testing.T) {
	res, err := Normalize([]byte(`[{"documentId":3},{"documentId":1},{"documentId":2}]`))
	require.NoError(t, err)

	assert.Equal(t, int64(3), res.Items[0].ID)
	assert.Equal(t, int64(1), res.Items[1].ID)
	assert.Equal(t, int64(2), res.Items[2].ID)
}

func TestNormalize_ImagePlaceholder(t *testing.T) {
	res, err := Normalize([]byte(`{"items":[
		{"documentId":1,"title":"no image"},
		{"documentId":2,"title":"empty image","imageUrl":""},
		{"documentId":3,"title":"own image","imageUrl":"https://covers.example/3.jpg"}
	],"totalCount":3}`))
	require.NoError(t, err)

	assert.Equal(t, DefaultImageURL, res.Items[0].ImageURL)
	assert.Equal(t, DefaultImageURL, res.Items[1].ImageURL)
	assert.Equal(t, "https://covers.example/3.jpg", res.Items[2].ImageURL)
}

func TestNormalize_RecordFields(t *testing.T) {
	res, err := Normalize([]byte(`[{"documentId":11,"title":"Clean Code","author":"Robert C. Martin",
		"year":2008,"category":"Book","department":"Computer Science"}]`))
	require.NoError(t, err)

	assert.Equal(t, DocumentRecord{
		ID:         11,
		Title:      "Clean Code",
		Author:     "Robert C. Martin",
		Year:       2008,
		Category:   "Book",
		Department: "Computer Science",
		ImageURL:   DefaultImageURL,
	}, res.Items[0])
}

func TestNormalize_FailsClosed(t *testing.T) {
	bodies := map[string]string{
		"empty":              ``,
		"null":               `null`,
		"number":             `42`,
		"string":             `"items"`,
		"object without key": `{"totalCount":3}`,
		"items not an array": `{"items":{"documentId":1}}`,
		"data not an array":  `{"data":"nope"}`,
		"null record":        `[{"documentId":1},null]`,
		"scalar record":      `[1,2]`,
		"negative total":     `{"items":[],"totalCount":-1}`,
		"invalid json":       `{"items":[`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			_, err := Normalize([]byte(body))
			assert.ErrorIs(t, err, ErrUnrecognizedShape)
		})
	}
}

func TestShape_String(t *testing.T) {
	assert.Equal(t, "array", ShapeArray.String())
	assert.Equal(t, "items", ShapeItems.String())
	assert.Equal(t, "data", ShapeData.String())
	assert.Equal(t, "unknown", Shape(0).String())
}

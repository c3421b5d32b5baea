package model

// Defaults preselected on the add-book form.
const (
	DefaultCategory   = "Book"
	DefaultDepartment = "Computer Science"
)

// BookForm is the editable part of a catalog record.
type BookForm struct {
	Title      string `json:"title" validate:"required"`
	Author     string `json:"author" validate:"required"`
	Year       int    `json:"year" validate:"required,gte=1900"`
	Category   string `json:"category" validate:"required"`
	Department string `json:"department" validate:"required"`
}

// DownloadFile is a decoded document ready to stream to the client.
type DownloadFile struct {
	FileName    string
	ContentType string
	Data        []byte
}

// Notification types.
const (
	NotifySuccess = "success"
	NotifyError   = "error"
)

// Notification is the user-facing outcome of a mutation.
type Notification struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

package domain

// RawDocument represents opaque bytes fetched from blob storage.
// It is the input to text extraction.
type RawDocument struct {
	// Name is the file name the bytes were fetched by.
	Name string

	// MIMEType is the content type (e.g., "application/pdf").
	MIMEType string

	// Content is the raw bytes.
	Content []byte
}

// ChangeType represents the type of blob change.
type ChangeType int

const (
	// ChangeCreated indicates a new file.
	ChangeCreated ChangeType = iota

	// ChangeUpdated indicates a modified file.
	ChangeUpdated

	// ChangeDeleted indicates a removed file.
	ChangeDeleted
)

// String returns the string representation.
func (c ChangeType) String() string {
	switch c {
	case ChangeCreated:
		return "created"
	case ChangeUpdated:
		return "updated"
	case ChangeDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// BlobChange is a change event from a watched blob store.
type BlobChange struct {
	// Type is the kind of change.
	Type ChangeType

	// Name is the affected file name.
	Name string
}

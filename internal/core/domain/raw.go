package domain

// RawDocument is a file as the connector found it: bytes plus enough
// context for the normaliser registry to pick an extractor.
type RawDocument struct {
	// URI is where the file lives, as a path under the corpus root.
	URI string

	// MIMEType is guessed from the file extension.
	MIMEType string

	// Content is the unparsed file body.
	Content []byte

	// Metadata carries connector-specific extras, e.g. a display
	// title or the file's modification time.
	Metadata map[string]any
}

// ChangeType says what happened to a watched file.
type ChangeType int

const (
	ChangeCreated ChangeType = iota
	ChangeUpdated
	ChangeDeleted
)

// RawDocumentChange is one watcher event. For deletions only the URI
// is meaningful; the content is whatever was last seen, possibly nil.
type RawDocumentChange struct {
	Type     ChangeType
	Document RawDocument
}

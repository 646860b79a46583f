package port

import "github.com/garyjia/travel-expense/internal/domain/regulation"

// DocumentRenderer turns a regulation into the bytes of one export format
type DocumentRenderer interface {
	Format() string
	Extension() string
	ContentType() string
	// Render receives the structured document and its generated text
	Render(doc regulation.Document, text string) ([]byte, error)
}

package domain

// IDField is the document key holding the identifier.
const IDField = "id"

// Document represents a row served by the demo API.
type Document map[string]interface{}

// GetID implements Entity.
func (d Document) GetID() ID {
	return d[IDField]
}

// Table represents a named set of documents kept in insertion order
type Table struct {
	Name      string              `json:"name" msgpack:"name"`
	Documents map[string]Document `json:"documents" msgpack:"documents"`
	Order     []string            `json:"order" msgpack:"order"`
}

// NewTable creates a new table
func NewTable(name string) *Table {
	return &Table{
		Name:      name,
		Documents: make(map[string]Document),
	}
}

// Rows returns the documents in insertion order.
func (t *Table) Rows() []Document {
	rows := make([]Document, 0, len(t.Order))
	for _, id := range t.Order {
		if doc, ok := t.Documents[id]; ok {
			rows = append(rows, doc)
		}
	}
	return rows
}

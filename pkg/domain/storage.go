package domain

// Store defines the operations the demo API needs from its backing store
type Store interface {
	Insert(table string, doc Document) (Document, error)
	InsertMany(table string, docs []Document) ([]Document, error)
	List(table string, query ListQuery) (*ListResult, error)
	Search(table, text string, filters map[string]interface{}) ([]Document, error)
	GetById(table, docId string) (Document, error)
	UpdateById(table, docId string, updates Document) (Document, error)
	DeleteById(table, docId string) error
	Tables() []string
}

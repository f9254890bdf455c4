package storage

import (
	"fmt"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/adfharrison1/go-listquery/pkg/domain"
)

// Generator builds the i-th fake document of a table
type Generator func(f *gofakeit.Faker, i int) domain.Document

// ProductGenerator builds products shaped like "<adjective> <adjective>
// <product>" with a price, category, color and stock.
func ProductGenerator(f *gofakeit.Faker, _ int) domain.Document {
	return domain.Document{
		domain.IDField: f.UUID(),
		"name":         fmt.Sprintf("%s %s %s", f.Adjective(), f.Adjective(), f.ProductName()),
		"price":        f.Price(1, 500),
		"category":     f.ProductCategory(),
		"color":        f.Color(),
		"stock":        f.Number(0, 250),
	}
}

// UserGenerator builds users with a name and an email.
func UserGenerator(f *gofakeit.Faker, _ int) domain.Document {
	return domain.Document{
		domain.IDField: f.UUID(),
		"name":         f.Name(),
		"email":        f.Email(),
		"city":         f.City(),
	}
}

// Seed inserts n generated documents into table. The same seed produces
// the same documents.
func (se *StorageEngine) Seed(table string, n int, seed uint64, gen Generator) ([]domain.Document, error) {
	if n <= 0 {
		return nil, nil
	}
	if gen == nil {
		gen = ProductGenerator
	}

	f := gofakeit.New(seed)
	docs := make([]domain.Document, n)
	for i := range docs {
		docs[i] = gen(f, i)
	}

	inserted, err := se.InsertMany(table, docs)
	if err != nil {
		return nil, fmt.Errorf("failed to seed table %s: %w", table, err)
	}
	se.logger.WithField("table", table).WithField("count", n).Info("seeded table")
	return inserted, nil
}

package config

import (
	"time"

	"github.com/spf13/viper"
)

// Store configures the in-memory store behind the demo API.
type Store struct {
	Table     string `validate:"required"`
	SeedCount int    `validate:"gte=0"`
	// FakerSeed makes the seeded rows reproducible. Zero picks a random seed.
	FakerSeed    uint64
	SnapshotFile string
	// SaveInterval enables background snapshots of a dirty store.
	SaveInterval time.Duration `validate:"gte=0"`
	MaxPageSize  int           `validate:"gte=1"`
}

func getStoreConfig(v *viper.Viper) *Store {
	return &Store{
		Table:        v.GetString("store.table"),
		SeedCount:    v.GetInt("store.seed_count"),
		FakerSeed:    v.GetUint64("store.faker_seed"),
		SnapshotFile: v.GetString("store.snapshot_file"),
		SaveInterval: v.GetDuration("store.save_interval"),
		MaxPageSize:  v.GetInt("store.max_page_size"),
	}
}

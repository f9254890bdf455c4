package server

import (
	"fmt"

	"github.com/adfharrison1/go-listquery/pkg/config"
	"github.com/adfharrison1/go-listquery/pkg/storage"
)

// NewStore builds the storage engine described by c.
func NewStore(c *config.Store) *storage.StorageEngine {
	options := []storage.StorageOption{
		storage.WithMaxPageSize(c.MaxPageSize),
	}
	if c.SnapshotFile != "" {
		options = append(options, storage.WithSnapshotFile(c.SnapshotFile))
		if c.SaveInterval > 0 {
			options = append(options, storage.WithBackgroundSave(c.SaveInterval))
		}
	}
	return storage.NewStorageEngine(options...)
}

// InitStore loads the snapshot file when one exists, and otherwise seeds
// the configured table with fake products.
func (s *Server) InitStore(c *config.Store) error {
	if c.SnapshotFile != "" {
		loaded, err := s.store.LoadFromFile(c.SnapshotFile)
		if err != nil {
			return fmt.Errorf("failed to load snapshot %s: %w", c.SnapshotFile, err)
		}
		if loaded {
			s.logger.WithField("file", c.SnapshotFile).Info("loaded store snapshot")
			return nil
		}
	}

	if c.SeedCount == 0 {
		return s.store.CreateTable(c.Table)
	}
	_, err := s.store.Seed(c.Table, c.SeedCount, c.FakerSeed, storage.ProductGenerator)
	return err
}

// SaveStore saves the current store state to the snapshot file, if any
func (s *Server) SaveStore(c *config.Store) {
	if c.SnapshotFile == "" {
		return
	}
	if err := s.store.SaveToFile(c.SnapshotFile); err != nil {
		s.logger.WithError(err).WithField("file", c.SnapshotFile).Error("could not save store")
		return
	}
	s.logger.WithField("file", c.SnapshotFile).Info("saved store")
}

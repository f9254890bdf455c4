package storage

import (
	"time"

	"github.com/sirupsen/logrus"
)

type StorageOption func(*StorageEngine)

// WithMaxPageSize caps the page size of List.
func WithMaxPageSize(size int) StorageOption {
	return func(engine *StorageEngine) {
		if size > 0 {
			engine.maxPageSize = size
		}
	}
}

// WithSnapshotFile sets the file the background saver writes to.
func WithSnapshotFile(filename string) StorageOption {
	return func(engine *StorageEngine) {
		engine.snapshotFile = filename
	}
}

// WithBackgroundSave snapshots dirty tables every interval. It needs a
// snapshot file.
func WithBackgroundSave(interval time.Duration) StorageOption {
	return func(engine *StorageEngine) {
		if interval > 0 {
			engine.backgroundSave = true
			engine.saveInterval = interval
		}
	}
}

// WithIDGenerator replaces the uuid generator used for inserted documents
// without an id.
func WithIDGenerator(fn func() string) StorageOption {
	return func(engine *StorageEngine) {
		if fn != nil {
			engine.newID = fn
		}
	}
}

func WithLogger(logger logrus.FieldLogger) StorageOption {
	return func(engine *StorageEngine) {
		engine.logger = logger
	}
}

package storage

import (
	"bytes"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"time"

	"github.com/pierrec/lz4/v4"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/adfharrison1/go-listquery/pkg/domain"
)

// SaveToFile snapshots every table to filename. The file is written next
// to the target and renamed into place.
func (se *StorageEngine) SaveToFile(filename string) error {
	storageData := se.snapshot()
	storageData.Metadata["savedAt"] = time.Now().UTC().Format(time.RFC3339)

	payload, err := encodeStorageData(storageData)
	if err != nil {
		return err
	}

	dir := filepath.Dir(filename)
	tmp, err := os.CreateTemp(dir, filepath.Base(filename)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), filename); err != nil {
		return fmt.Errorf("failed to move snapshot into place: %w", err)
	}

	se.dirty.Store(false)
	se.logger.WithField("file", filename).Debug("saved snapshot")
	return nil
}

// LoadFromFile replaces the tables with the snapshot in filename. A
// missing file is not an error; loaded reports whether anything was read.
func (se *StorageEngine) LoadFromFile(filename string) (loaded bool, err error) {
	file, err := os.Open(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	storageData, err := decodeStorageData(file)
	if err != nil {
		return false, err
	}

	se.mu.Lock()
	se.tables = make(map[string]*domain.Table, len(storageData.Tables))
	for name, table := range storageData.Tables {
		if table == nil {
			continue
		}
		if table.Documents == nil {
			table.Documents = make(map[string]domain.Document)
		}
		table.Name = name
		se.tables[name] = table
	}
	se.mu.Unlock()

	se.dirty.Store(false)
	return true, nil
}

// snapshot deep-copies the tables one lock at a time
func (se *StorageEngine) snapshot() *StorageData {
	storageData := NewStorageData()
	for _, name := range se.Tables() {
		table, err := se.getTable(name)
		if err != nil {
			continue
		}
		_ = se.withTableReadLock(name, func() error {
			copied := domain.NewTable(name)
			for id, doc := range table.Documents {
				copied.Documents[id] = maps.Clone(doc)
			}
			copied.Order = append([]string(nil), table.Order...)
			storageData.Tables[name] = copied
			return nil
		})
	}
	return storageData
}

func encodeStorageData(storageData *StorageData) ([]byte, error) {
	msgpackData, err := msgpack.Marshal(storageData)
	if err != nil {
		return nil, fmt.Errorf("failed to encode MessagePack: %w", err)
	}

	compressedData := make([]byte, lz4.CompressBlockBound(len(msgpackData)))
	var hashTable [1 << 16]int
	n, err := lz4.CompressBlock(msgpackData, compressedData, hashTable[:])
	if err != nil {
		return nil, fmt.Errorf("failed to compress data: %w", err)
	}

	var flags uint8
	body := compressedData[:n]
	if n == 0 || n >= len(msgpackData) {
		flags |= FlagUncompressed
		body = msgpackData
	}

	var buf bytes.Buffer
	if err := WriteHeader(&buf, flags, uint32(len(msgpackData))); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	buf.Write(body)
	return buf.Bytes(), nil
}

func decodeStorageData(r io.Reader) (*StorageData, error) {
	header, err := ReadHeader(r)
	if err != nil {
		return nil, fmt.Errorf("invalid file header: %w", err)
	}

	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	msgpackData := body
	if header.Flags&FlagUncompressed == 0 {
		msgpackData = make([]byte, header.RawSize)
		n, err := lz4.UncompressBlock(body, msgpackData)
		if err != nil {
			return nil, fmt.Errorf("failed to decompress data: %w", err)
		}
		msgpackData = msgpackData[:n]
	}

	dec := msgpack.NewDecoder(bytes.NewReader(msgpackData))
	dec.UseLooseInterfaceDecoding(true)

	storageData := NewStorageData()
	if err := dec.Decode(storageData); err != nil {
		return nil, fmt.Errorf("failed to decode MessagePack: %w", err)
	}
	return storageData, nil
}

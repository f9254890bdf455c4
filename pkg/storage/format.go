package storage

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/adfharrison1/go-listquery/pkg/domain"
)

const (
	// Magic bytes to identify our file format
	MagicBytes = "GOLQ"
	// Current version
	FormatVersion = 1
	// File extension for snapshot files
	FileExtension = ".golq"
)

// Header flags
const (
	// FlagUncompressed marks a payload stored as plain MessagePack because
	// lz4 could not shrink it.
	FlagUncompressed uint8 = 1 << iota
)

// FileHeader represents the header of a snapshot file
type FileHeader struct {
	Magic   [4]byte // "GOLQ"
	Version uint8   // Format version
	Flags   uint8   // FlagUncompressed
	// Reserved for future use
	Reserved [2]byte
	// Size of the MessagePack payload before compression
	RawSize uint32
}

// WriteHeader writes the file header to the given writer
func WriteHeader(w io.Writer, flags uint8, rawSize uint32) error {
	header := FileHeader{
		Magic:   [4]byte{'G', 'O', 'L', 'Q'},
		Version: FormatVersion,
		Flags:   flags,
		RawSize: rawSize,
	}

	return binary.Write(w, binary.LittleEndian, header)
}

// ReadHeader reads and validates the file header
func ReadHeader(r io.Reader) (*FileHeader, error) {
	var header FileHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	if string(header.Magic[:]) != MagicBytes {
		return nil, fmt.Errorf("invalid file format: expected %s, got %s", MagicBytes, string(header.Magic[:]))
	}

	if header.Version != FormatVersion {
		return nil, fmt.Errorf("unsupported file version: %d", header.Version)
	}

	return &header, nil
}

// StorageData represents the snapshot payload
type StorageData struct {
	Tables   map[string]*domain.Table `msgpack:"tables"`
	Metadata map[string]interface{}   `msgpack:"metadata,omitempty"`
}

// NewStorageData creates a new empty snapshot payload
func NewStorageData() *StorageData {
	return &StorageData{
		Tables:   make(map[string]*domain.Table),
		Metadata: make(map[string]interface{}),
	}
}

package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// LoadDir loads every snapshot chunk (parts_*.bin) found in dirPath and
// returns the merged record set. Chunks are msgpack-encoded []Part, merged
// in ascending filename order so record order stays stable across loads.
func LoadDir(dirPath string) ([]Part, error) {
	pattern := filepath.Join(dirPath, "parts_*.bin")
	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to scan for catalog chunks: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no catalog chunks found in %s", dirPath)
	}
	sort.Strings(files)

	var parts []Part
	for _, file := range files {
		chunk, err := LoadFile(file)
		if err != nil {
			return nil, err
		}
		log.Debugf("Loaded %d part records from %s", len(chunk), filepath.Base(file))
		parts = append(parts, chunk...)
	}
	log.Debugf("Catalog snapshot ready: %d records from %d chunks", len(parts), len(files))
	return parts, nil
}

// LoadFile decodes a single msgpack snapshot chunk.
func LoadFile(path string) ([]Part, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog chunk: %w", err)
	}
	defer file.Close()

	var parts []Part
	if err := msgpack.NewDecoder(file).Decode(&parts); err != nil {
		return nil, fmt.Errorf("decode catalog chunk %s: %w", path, err)
	}
	return parts, nil
}

// SaveFile writes a record set as a single msgpack snapshot chunk.
func SaveFile(path string, parts []Part) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create catalog chunk: %w", err)
	}
	defer file.Close()

	if err := msgpack.NewEncoder(file).Encode(parts); err != nil {
		return fmt.Errorf("encode catalog chunk %s: %w", path, err)
	}
	return nil
}

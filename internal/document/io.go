package document

import (
	"encoding/json"
	"fmt"
	"os"
)

// WriteJSON writes a payload to path as two-space indented UTF-8 JSON.
func WriteJSON(path string, payload any) error {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// ReadPagesPayload loads a raw-pages artifact.
func ReadPagesPayload(path string) (*PagesPayload, error) {
	var payload PagesPayload
	if err := readJSON(path, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// ReadSectionsPayload loads a sections artifact.
func ReadSectionsPayload(path string) (*SectionsPayload, error) {
	var payload SectionsPayload
	if err := readJSON(path, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// ReadChunksPayload loads a chunks artifact.
func ReadChunksPayload(path string) (*ChunksPayload, error) {
	var payload ChunksPayload
	if err := readJSON(path, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func readJSON(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

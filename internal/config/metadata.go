package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"solana-token-admin/internal/domain"
)

// LoadMetadata overlays the YAML file at path onto base. Keys absent from
// the file keep their base values. Unknown keys are rejected.
func LoadMetadata(path string, base domain.MetadataParams) (domain.MetadataParams, error) {
	if path == "" {
		return base, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return base, fmt.Errorf("open metadata file: %w", err)
	}
	defer f.Close()

	out := base
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&out); err != nil {
		if errors.Is(err, io.EOF) {
			return base, nil
		}
		return base, fmt.Errorf("decode metadata file %s: %w", path, err)
	}
	return out, nil
}

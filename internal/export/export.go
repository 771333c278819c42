// Package export encodes and decodes user lists in interchange formats.
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/smileynet/roster/internal/user"
)

// Format names an interchange format.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
	TOML Format = "toml"
)

// ErrUnknownFormat indicates an unsupported format name or file extension.
var ErrUnknownFormat = errors.New("export: unknown format")

// ParseFormat maps a format name to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	case "toml":
		return TOML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", fmt.Errorf("%w: %s has no extension", ErrUnknownFormat, path)
	}
	return ParseFormat(ext)
}

// document wraps the list for formats that need a top-level table.
type document struct {
	Users []user.Record `toml:"users" yaml:"users"`
}

// Encode writes users to w in format f. JSON output is the same array
// shape as the session snapshot.
func Encode(w io.Writer, f Format, users []user.Record) error {
	if users == nil {
		users = []user.Record{}
	}
	switch f {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(users); err != nil {
			return fmt.Errorf("export: encoding json: %w", err)
		}
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(document{Users: users}); err != nil {
			return fmt.Errorf("export: encoding yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("export: encoding yaml: %w", err)
		}
	case TOML:
		if err := toml.NewEncoder(w).Encode(document{Users: users}); err != nil {
			return fmt.Errorf("export: encoding toml: %w", err)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
	}
	return nil
}

// Decode reads a user list in format f from r.
func Decode(r io.Reader, f Format) ([]user.Record, error) {
	switch f {
	case JSON:
		var users []user.Record
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&users); err != nil {
			return nil, fmt.Errorf("export: decoding json: %w", err)
		}
		return users, nil
	case YAML:
		var doc document
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, nil
			}
			return nil, fmt.Errorf("export: decoding yaml: %w", err)
		}
		return doc.Users, nil
	case TOML:
		var doc document
		md, err := toml.NewDecoder(r).Decode(&doc)
		if err != nil {
			return nil, fmt.Errorf("export: decoding toml: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("export: decoding toml: unknown key %s", undecoded[0])
		}
		return doc.Users, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
	}
}

package schema

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/arloliu/cbc/errs"
	"github.com/arloliu/cbc/field"
	"github.com/arloliu/cbc/log"
	"github.com/arloliu/cbc/message"
	"github.com/arloliu/cbc/registry"
)

// Format names a schema document's serialization.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

// DetectFormat chooses a Format from a file extension. Recognizes .json and
// .yaml/.yml, per SPEC_FULL.md §8.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return 0, fmt.Errorf("%w: %q", errs.ErrUnsupportedSchemaFormat, path)
	}
}

// Parse decodes data as a Document using the given Format.
func Parse(data []byte, format Format) (Document, error) {
	var doc Document
	var err error
	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, &doc)
	case FormatYAML:
		err = yaml.Unmarshal(data, &doc)
	default:
		return Document{}, fmt.Errorf("%w: format %d", errs.ErrUnsupportedSchemaFormat, format)
	}
	if err != nil {
		return Document{}, fmt.Errorf("schema: parse: %w", err)
	}

	return doc, nil
}

// Load reads and parses the schema document at path, inferring its format
// from the file extension.
func Load(path string) (Document, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return Document{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("schema: read %q: %w", path, err)
	}

	return Parse(data, format)
}

// Marshal serializes doc in the given Format.
func Marshal(doc Document, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return json.MarshalIndent(doc, "", "  ")
	case FormatYAML:
		return yaml.Marshal(doc)
	default:
		return nil, fmt.Errorf("%w: format %d", errs.ErrUnsupportedSchemaFormat, format)
	}
}

// BuildMessage turns one MessageSpec into a *message.Message.
func BuildMessage(spec MessageSpec) (*message.Message, error) {
	fields, err := field.BuildList(spec.Fields)
	if err != nil {
		return nil, fmt.Errorf("message %q: %w", spec.Name, err)
	}

	opts := message.DefaultOptions()
	opts.Description = spec.Description
	if spec.CoapCompatible != nil {
		opts.CoapCompatible = *spec.CoapCompatible
	}
	if spec.VsatReserved != nil {
		opts.VsatReserved = *spec.VsatReserved
	}
	if spec.NimoCompatible != nil {
		opts.NimoCompatible = *spec.NimoCompatible
	}

	return message.New(spec.Name, message.Direction(spec.Direction), spec.MessageKey, fields, opts)
}

// BuildRegistry builds every message in doc and inserts it into a new
// Registry, in document order, surfacing the first construction or
// insertion error encountered.
func BuildRegistry(doc Document, opts ...registry.Option) (*registry.Registry, error) {
	reg, err := registry.New(opts...)
	if err != nil {
		return nil, err
	}
	for _, spec := range doc.Messages {
		m, err := BuildMessage(spec)
		if err != nil {
			return nil, err
		}
		if err := reg.Insert(m); err != nil {
			return nil, err
		}
	}

	return reg, nil
}

// LoadRegistry loads the schema document at path and builds a Registry from
// it in one step, logging lenient-mode warnings (if any) through logger.
func LoadRegistry(path string, logger log.Logger, lenient bool) (*registry.Registry, error) {
	doc, err := Load(path)
	if err != nil {
		return nil, err
	}

	var opts []registry.Option
	if logger != nil {
		opts = append(opts, registry.WithLogger(logger))
	}
	if lenient {
		opts = append(opts, registry.WithLenientKeyRanges())
	}

	return BuildRegistry(doc, opts...)
}

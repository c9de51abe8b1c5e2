package storage

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Codec encodes persisted values
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Ext() string
}

// JSONCodec encodes values as indented JSON
type JSONCodec struct{}

func (JSONCodec) Marshal(v any) ([]byte, error)      { return json.MarshalIndent(v, "", "  ") }
func (JSONCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }
func (JSONCodec) Ext() string                        { return ".json" }

// YAMLCodec encodes values as YAML
type YAMLCodec struct{}

func (YAMLCodec) Marshal(v any) ([]byte, error)      { return yaml.Marshal(v) }
func (YAMLCodec) Unmarshal(data []byte, v any) error { return yaml.Unmarshal(data, v) }
func (YAMLCodec) Ext() string                        { return ".yaml" }

// CodecFor picks a codec by name or file extension
func CodecFor(name string) (Codec, error) {
	format := strings.ToLower(name)
	if ext := filepath.Ext(format); ext != "" {
		format = ext[1:]
	}
	switch format {
	case "json":
		return JSONCodec{}, nil
	case "yaml", "yml":
		return YAMLCodec{}, nil
	default:
		return nil, fmt.Errorf("unsupported format %q (valid: json, yaml)", name)
	}
}

package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mikey/contract-sentinel/internal/record"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned for files that are neither JSON nor YAML
var ErrUnsupportedFormat = errors.New("unsupported record file format")

// FileSource loads records from a JSON or YAML file holding a list of objects
type FileSource struct {
	path   string
	logger *zap.Logger
}

// NewFileSource creates a new file source
func NewFileSource(path string, logger *zap.Logger) *FileSource {
	return &FileSource{
		path:   path,
		logger: logger,
	}
}

// Path returns the file the source reads
func (s *FileSource) Path() string {
	return s.path
}

// Load reads and decodes the file
func (s *FileSource) Load(ctx context.Context) ([]record.Record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read records: %w", err)
	}

	records, err := Decode(filepath.Ext(s.path), data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", s.path, err)
	}

	s.logger.Debug("Records loaded", zap.String("path", s.path), zap.Int("count", len(records)))
	return records, nil
}

// Decode parses a list of record objects. ext selects the format (".json",
// ".yaml" or ".yml"). Non-string values are stringified
func Decode(ext string, data []byte) ([]record.Record, error) {
	var raw []map[string]interface{}

	switch strings.ToLower(ext) {
	case ".json":
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	records := make([]record.Record, 0, len(raw))
	for _, obj := range raw {
		r := make(record.Record, len(obj))
		for k, v := range obj {
			if v == nil {
				continue
			}
			r[k] = stringify(v)
		}
		records = append(records, r)
	}
	return records, nil
}

func stringify(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprint(t)
	case map[string]interface{}:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, k+"="+stringify(t[k]))
		}
		return strings.Join(parts, " ")
	default:
		return fmt.Sprint(t)
	}
}

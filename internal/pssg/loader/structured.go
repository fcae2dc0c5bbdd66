package loader

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/masajid/masajid-seo/internal/pkg/errors"
	"github.com/masajid/masajid-seo/internal/pssg/config"
)

// StructuredLoader reads an authoritative JSON or YAML record list. The
// document is a top-level array of records. Decoding is strict: unknown
// fields, type mismatches and the first record failing validation abort
// the load with the record's position.
type StructuredLoader struct {
	Config    *config.Config
	Log       *zap.Logger
	validator *recordValidator
}

// Load reads, decodes and validates the data file.
func (l *StructuredLoader) Load() (*Result, error) {
	path := l.Config.Paths.Data
	res := &Result{}

	data, err := os.ReadFile(path)
	if err != nil {
		return failed(res, errors.CodeDataUnavailable, fmt.Sprintf("reading data file %s", path), err)
	}

	var candidates []*rawRecord
	switch l.Config.Data.Format {
	case "yaml":
		candidates, err = decodeYAML(data)
	default:
		candidates, err = decodeJSON(data)
	}
	if err != nil {
		return failed(res, errors.CodeInvalidRecord, fmt.Sprintf("decoding %s", path), err)
	}

	records, _, err := l.validator.accept(candidates, false)
	if err != nil {
		return failed(res, errors.CodeInvalidRecord, path, err)
	}
	if len(records) == 0 {
		return failed(res, errors.CodeDataUnavailable, fmt.Sprintf("no records in %s", path), nil)
	}

	res.Strategy = StrategyStrict
	res.Records = records
	logResult(l.Log, path, res)
	return res, nil
}

// decodeJSON decodes each array element separately so that a decoding
// error names the record it came from.
func decodeJSON(data []byte) ([]*rawRecord, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}

	out := make([]*rawRecord, 0, len(items))
	for i, item := range items {
		dec := json.NewDecoder(bytes.NewReader(item))
		dec.DisallowUnknownFields()
		var r rawRecord
		if err := dec.Decode(&r); err != nil {
			return nil, fmt.Errorf("%s: %w", recordLabel(i, peekID(item)), err)
		}
		out = append(out, &r)
	}
	return out, nil
}

func peekID(item json.RawMessage) string {
	var probe struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(item, &probe)
	return probe.ID
}

// decodeYAML errors carry the source line of the offending field.
func decodeYAML(data []byte) ([]*rawRecord, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var out []*rawRecord
	if err := dec.Decode(&out); err != nil && !stderrors.Is(err, io.EOF) {
		return nil, err
	}
	return out, nil
}

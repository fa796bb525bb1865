package services

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/pkg/errors"

	"github.com/daedaleanai/svcnames/diagnostics"
)

// exportedTable is turned into JSON or YAML to be consumed by external clients.
type exportedTable struct {
	Services []Entry `json:"services" yaml:"services"`
}

// The formats a table can be exported to
type ExportFormat string

const (
	ExportJSON ExportFormat = "json"
	ExportYAML ExportFormat = "yaml"
)

// Extension returns the file name extension used for the format
func (format ExportFormat) Extension() string {
	return "." + string(format)
}

// formatFromPath guesses the export format from the file name extension
func formatFromPath(path string) (ExportFormat, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return ExportJSON, nil
	case ".yaml", ".yml":
		return ExportYAML, nil
	}
	return "", errors.Errorf("cannot tell the export format of `%s`, expected a .json or .yaml file", path)
}

// IsExportPath returns true if the file name looks like a table written by Export
func IsExportPath(path string) bool {
	_, err := formatFromPath(path)
	return err == nil
}

// Export writes all entries, in definition order, in the requested format.
func Export(w io.Writer, t *Table, format ExportFormat) error {
	data := exportedTable{Services: t.Entries()}
	switch format {
	case ExportJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return errors.Wrap(encoder.Encode(data), "JSON encoding")
	case ExportYAML:
		out, err := yaml.Marshal(data)
		if err != nil {
			return errors.Wrap(err, "YAML encoding")
		}
		_, err = w.Write(out)
		return err
	}
	return errors.Errorf("unknown export format `%s`", format)
}

// LoadExport reads back a table previously written by Export. The format is chosen by the file extension.
func LoadExport(path string) (*Table, []diagnostics.Issue, error) {
	format, err := formatFromPath(path)
	if err != nil {
		return nil, nil, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, errors.Wrap(err, "read exported table")
	}

	var data exportedTable
	switch format {
	case ExportJSON:
		if err := json.Unmarshal(raw, &data); err != nil {
			return nil, nil, errors.Wrapf(err, "parse exported table `%s`", path)
		}
	case ExportYAML:
		if err := yaml.Unmarshal(raw, &data); err != nil {
			return nil, nil, errors.Wrapf(err, "parse exported table `%s`", path)
		}
	}

	issues := checkEntries(data.Services, path, nil)
	if diagnostics.HasMajor(issues) {
		return nil, issues, nil
	}
	return newTable(data.Services), issues, nil
}

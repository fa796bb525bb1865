// Reads configuration data from a svcnames_config.json file

package config

import (
	"bytes"
	"encoding/json"
	"log"
	"os"
	"path/filepath"

	"github.com/daedaleanai/svcnames/diagnostics"
	"github.com/daedaleanai/svcnames/git"
	"github.com/daedaleanai/svcnames/linepipes"
	"github.com/daedaleanai/svcnames/services"
	"github.com/pkg/errors"
)

// The name of the configuration file, located at the top of the checkout
const FileName = "svcnames_config.json"

// The chroma style used by reports unless configured otherwise
const DefaultReportStyle = "vs"

/// Internal types for parsing json files

type jsonConfig struct {
	Source      string   `json:"source"`
	ReportStyle string   `json:"reportStyle"`
	Header      []string `json:"header"`
}

/// Types exported for application use

// Config holds the settings shared by all commands.
type Config struct {
	// Path of the service table source. Empty selects the table embedded in the binary.
	Source string
	// Chroma style used to highlight the table source in reports
	ReportStyle string
	// Comment lines written at the top of generated table sources
	Header []string
}

// Default returns the configuration used when no configuration file exists.
func Default() Config {
	return Config{
		ReportStyle: DefaultReportStyle,
		Header:      services.DefaultHeader,
	}
}

// ParseConfig reads the configuration file from the given directory. A missing file is not an error, the defaults
// are returned instead. A relative source path is resolved against dir.
func ParseConfig(dir string) (Config, error) {
	cfg := Default()

	configPath := filepath.Join(dir, FileName)
	data, err := os.ReadFile(configPath)
	if os.IsNotExist(err) {
		if linepipes.Verbose {
			log.Printf("No %s found in %s, using defaults", FileName, dir)
		}
		return cfg, nil
	}
	if err != nil {
		return Config{}, errors.Wrapf(err, "Error opening configuration file: %s", configPath)
	}

	var raw jsonConfig
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&raw); err != nil {
		return Config{}, errors.Wrapf(err, "Error while parsing configuration file `%s`", configPath)
	}

	if raw.Source != "" {
		cfg.Source = raw.Source
		if !filepath.IsAbs(cfg.Source) {
			cfg.Source = filepath.Join(dir, cfg.Source)
		}
	}
	if raw.ReportStyle != "" {
		cfg.ReportStyle = raw.ReportStyle
	}
	if raw.Header != nil {
		cfg.Header = raw.Header
	}
	return cfg, nil
}

// LoadConfig finds the configuration for the checkout containing dir. Outside of a git checkout the defaults are
// used.
func LoadConfig(dir string) (Config, error) {
	toplevel, err := git.TopLevel(dir)
	if err != nil {
		if linepipes.Verbose {
			log.Printf("Not using a configuration file: %s", err)
		}
		return Default(), nil
	}
	return ParseConfig(toplevel)
}

// LoadTable loads the service table selected by the configuration. JSON and YAML exports are loaded as well as table
// sources.
func (cfg *Config) LoadTable() (*services.Table, []diagnostics.Issue, error) {
	if cfg.Source == "" {
		return services.Default(), nil, nil
	}
	if linepipes.Verbose {
		log.Printf("Loading service table from %s", cfg.Source)
	}
	if services.IsExportPath(cfg.Source) {
		return services.LoadExport(cfg.Source)
	}
	return services.ParseFile(cfg.Source)
}

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultStore      = "mongodb://localhost:27017"
	DefaultHostDB     = "vulnmgt"
	DefaultCVEDB      = "cvedb"
	DefaultReportFile = "detailed-vuln-report.html"
	DefaultOlderThan  = 28

	storeEnv  = "VULNMGT_STORE"
	configEnv = "VULNMGT_CONFIG"
)

type Settings struct {
	Store  StoreSettings  `yaml:"store"`
	Report ReportSettings `yaml:"report"`
	Clean  CleanSettings  `yaml:"clean"`
}

type StoreSettings struct {
	URI    string `yaml:"uri"`
	HostDB string `yaml:"host_db"`
	CVEDB  string `yaml:"cve_db"`
}

type ReportSettings struct {
	Output string `yaml:"output"`
}

type CleanSettings struct {
	// OlderThan is the number of days after which a record is stale
	OlderThan int `yaml:"older_than"`
}

func Default() *Settings {
	return &Settings{
		Store: StoreSettings{
			URI:    DefaultStore,
			HostDB: DefaultHostDB,
			CVEDB:  DefaultCVEDB,
		},
		Report: ReportSettings{
			Output: DefaultReportFile,
		},
		Clean: CleanSettings{
			OlderThan: DefaultOlderThan,
		},
	}
}

// Load reads the settings file at path on top of the defaults.
// An empty path falls back to $VULNMGT_CONFIG and then to defaults only.
// A .env file in the working directory is loaded first when present.
func Load(path string) (*Settings, error) {
	// a missing .env is not an error
	_ = godotenv.Load()

	s := Default()

	if path == "" {
		path = os.Getenv(configEnv)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}

		if err = yaml.Unmarshal(data, s); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if uri := strings.TrimSpace(os.Getenv(storeEnv)); uri != "" {
		s.Store.URI = uri
	}

	s.fillDefaults()

	return s, nil
}

func (s *Settings) fillDefaults() {
	d := Default()

	if s.Store.URI == "" {
		s.Store.URI = d.Store.URI
	}
	if s.Store.HostDB == "" {
		s.Store.HostDB = d.Store.HostDB
	}
	if s.Store.CVEDB == "" {
		s.Store.CVEDB = d.Store.CVEDB
	}
	if s.Report.Output == "" {
		s.Report.Output = d.Report.Output
	}
	if s.Clean.OlderThan <= 0 {
		s.Clean.OlderThan = d.Clean.OlderThan
	}
}

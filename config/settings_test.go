package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	full := filepath.Join(dir, "full.yaml")
	err := os.WriteFile(full, []byte(`
store:
  uri: sqlite:///var/lib/vulnmgt/vulnmgt.db
  host_db: scans
report:
  output: out/report.html
clean:
  older_than: 7
`), 0644)
	if err != nil {
		t.Fatal(err)
	}

	partial := filepath.Join(dir, "partial.yaml")
	err = os.WriteFile(partial, []byte("clean:\n  older_than: -3\n"), 0644)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		path    string
		env     string
		want    *Settings
		wantErr bool
	}{
		{
			name: "defaults",
			want: Default(),
		},
		{
			name: "full",
			path: full,
			want: &Settings{
				Store:  StoreSettings{URI: "sqlite:///var/lib/vulnmgt/vulnmgt.db", HostDB: "scans", CVEDB: DefaultCVEDB},
				Report: ReportSettings{Output: "out/report.html"},
				Clean:  CleanSettings{OlderThan: 7},
			},
		},
		{
			name: "invalidThreshold",
			path: partial,
			want: Default(),
		},
		{
			name: "envStore",
			env:  "sqlite://env.db",
			want: &Settings{
				Store:  StoreSettings{URI: "sqlite://env.db", HostDB: DefaultHostDB, CVEDB: DefaultCVEDB},
				Report: ReportSettings{Output: DefaultReportFile},
				Clean:  CleanSettings{OlderThan: DefaultOlderThan},
			},
		},
		{
			name:    "missingFile",
			path:    filepath.Join(dir, "nope.yaml"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(storeEnv, tt.env)
			t.Setenv(configEnv, "")

			got, err := Load(tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Load() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Load() got = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSeverity(t *testing.T) {
	score := func(f float64) *float64 { return &f }

	tests := []struct {
		name  string
		score *float64
		want  string
	}{
		{name: "none", score: nil, want: "unknown"},
		{name: "critical", score: score(10), want: "critical"},
		{name: "high", score: score(7.5), want: "high"},
		{name: "medium", score: score(4.0), want: "medium"},
		{name: "low", score: score(2.1), want: "low"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Severity(tt.score); got != tt.want {
				t.Errorf("Severity() got = %v, want %v", got, tt.want)
			}
		})
	}
}

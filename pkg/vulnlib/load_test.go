package vulnlib

import (
	"context"
	"strings"
	"testing"
)

func TestLoad(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		kind      string
		data      string
		wantCount int
		wantErr   bool
	}{
		{
			name: "jsonLines",
			kind: "hosts",
			data: `{"ip": "10.0.0.1", "oids": [{"oid": "1.3.6.1"}], "updated": "2022-03-01T00:00:00Z"}

{"ip": "10.0.0.2", "oids": [], "updated": "2022-03-01T00:00:00Z"}
`,
			wantCount: 2,
		},
		{
			name:      "array",
			kind:      "vulnerabilities",
			data:      `[{"oid": "1.3.6.1", "cve": ["CVE-2021-1"]}, {"oid": "1.3.6.2", "cve": ["NOCVE"]}]`,
			wantCount: 2,
		},
		{
			name:      "stopsAtBadDoc",
			kind:      "cves",
			data:      "{\"id\": \"CVE-2021-1\"}\n{\"summary\": \"no id\"}\n{\"id\": \"CVE-2021-3\"}\n",
			wantCount: 1,
			wantErr:   true,
		},
		{
			name:    "unknownKind",
			kind:    "assets",
			data:    `{}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := newTestStore(t)

			got, err := Load(ctx, st, tt.kind, strings.NewReader(tt.data))
			if (err != nil) != tt.wantErr {
				t.Fatalf("Load() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.wantCount {
				t.Errorf("Load() got = %d, want %d", got, tt.wantCount)
			}
		})
	}
}

func TestLoadHostsReadable(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	data := `{"ip": "10.0.0.1", "oids": [{"oid": "1.3.6.1"}, {"oid": "1.3.6.2"}], "updated": {"$date": "2022-03-01T00:00:00Z"}}`
	if _, err := Load(ctx, st, "hosts", strings.NewReader(data)); err != nil {
		t.Fatal(err)
	}

	hosts, err := st.Hosts(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(hosts) != 1 || len(hosts[0].OIDs) != 2 || hosts[0].Updated.IsZero() {
		t.Errorf("Hosts() got = %+v", hosts)
	}
}

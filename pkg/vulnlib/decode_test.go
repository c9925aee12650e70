package vulnlib

import (
	"reflect"
	"testing"
	"time"

	"github.com/tidwall/gjson"
)

func TestParseTime(t *testing.T) {
	want := time.Date(2021, 12, 10, 10, 15, 0, 0, time.UTC)

	tests := []struct {
		name string
		doc  string
		want time.Time
	}{
		{name: "rfc3339", doc: `{"t": "2021-12-10T10:15:00Z"}`, want: want},
		{name: "offset", doc: `{"t": "2021-12-10T11:15:00+01:00"}`, want: want},
		{name: "naive", doc: `{"t": "2021-12-10T10:15:00"}`, want: want},
		{name: "cveSearch", doc: `{"t": "2021-12-10T10:15"}`, want: want},
		{name: "date", doc: `{"t": "2021-12-10"}`, want: time.Date(2021, 12, 10, 0, 0, 0, 0, time.UTC)},
		{name: "extDate", doc: `{"t": {"$date": "2021-12-10T10:15:00Z"}}`, want: want},
		{name: "extMillis", doc: `{"t": {"$date": {"$numberLong": "1639131300000"}}}`, want: want},
		{name: "millis", doc: `{"t": 1639131300000}`, want: want},
		{name: "garbage", doc: `{"t": "yesterday"}`, want: time.Time{}},
		{name: "missing", doc: `{}`, want: time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseTime(gjson.Get(tt.doc, "t"))
			if !got.Equal(tt.want) {
				t.Errorf("parseTime() got = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseCVE(t *testing.T) {
	score := 5.0

	tests := []struct {
		name    string
		doc     string
		want    *CVE
		wantErr bool
	}{
		{
			name: "cveSearch",
			doc: `{"id": "CVE-2014-0160", "summary": "heartbleed", "cwe": "CWE-119",
				"Published": "2014-04-07T22:55:03.893", "Modified": "2020-10-15T13:29",
				"cvss": 5.0, "impact": {"confidentiality": "PARTIAL", "integrity": "NONE", "availability": "NONE"},
				"access": {"vector": "NETWORK", "complexity": "LOW", "authentication": "NONE"},
				"references": ["http://heartbleed.com/"]}`,
			want: &CVE{
				ID:         "CVE-2014-0160",
				Summary:    "heartbleed",
				CWE:        "CWE-119",
				Published:  time.Date(2014, 4, 7, 22, 55, 3, 893000000, time.UTC),
				Modified:   time.Date(2020, 10, 15, 13, 29, 0, 0, time.UTC),
				CVSS:       &score,
				Impact:     &Impact{Confidentiality: "PARTIAL", Integrity: "NONE", Availability: "NONE"},
				Access:     &Access{Vector: "NETWORK", Complexity: "LOW", Authentication: "NONE"},
				References: []string{"http://heartbleed.com/"},
			},
		},
		{
			name: "noScore",
			doc:  `{"id": "CVE-2020-0001", "cwe": "Unknown", "cvss": null}`,
			want: &CVE{ID: "CVE-2020-0001", CWE: "Unknown", References: []string{}},
		},
		{
			name: "stringScore",
			doc:  `{"id": "CVE-2020-0002", "cvss": "5.0"}`,
			want: &CVE{ID: "CVE-2020-0002", CVSS: &score, References: []string{}},
		},
		{
			name:    "broken",
			doc:     `{"id": `,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCVE(tt.doc)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCVE() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseCVE() got = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseVulnerability(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want *Vulnerability
	}{
		{
			name: "list",
			doc:  `{"oid": "1.3.6.1", "cve": ["NOCVE", "CVE-2021-1"]}`,
			want: &Vulnerability{OID: "1.3.6.1", CVE: []string{"NOCVE", "CVE-2021-1"}},
		},
		{
			name: "single",
			doc:  `{"oid": "1.3.6.2", "cve": "CVE-2021-2"}`,
			want: &Vulnerability{OID: "1.3.6.2", CVE: []string{"CVE-2021-2"}},
		},
		{
			name: "none",
			doc:  `{"oid": "1.3.6.3"}`,
			want: &Vulnerability{OID: "1.3.6.3", CVE: []string{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseVulnerability(tt.doc)
			if err != nil {
				t.Fatalf("ParseVulnerability() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseVulnerability() got = %+v, want %+v", got, tt.want)
			}
		})
	}
}

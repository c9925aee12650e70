package vulnlib

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// cve-search writes naive timestamps without a zone
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

var errInvalidDoc = errors.New("invalid json document")

func parseDoc(doc string) (gjson.Result, error) {
	if !gjson.Valid(doc) {
		return gjson.Result{}, errInvalidDoc
	}

	return gjson.Parse(doc), nil
}

func ParseHost(doc string) (*Host, error) {
	r, err := parseDoc(doc)
	if err != nil {
		return nil, err
	}

	h := &Host{
		IP:      r.Get("ip").String(),
		Updated: parseTime(r.Get("updated")),
	}

	if oids := r.Get("oids"); oids.Exists() {
		h.OIDs = []OIDRef{}
		for _, o := range oids.Array() {
			h.OIDs = append(h.OIDs, OIDRef{OID: o.Get("oid").String()})
		}
	}

	return h, nil
}

func ParseHostVuln(doc string) (*HostVuln, error) {
	r, err := parseDoc(doc)
	if err != nil {
		return nil, err
	}

	return &HostVuln{
		IP:      r.Get("ip").String(),
		OID:     r.Get("oid").String(),
		Updated: parseTime(r.Get("updated")),
	}, nil
}

func ParseVulnerability(doc string) (*Vulnerability, error) {
	r, err := parseDoc(doc)
	if err != nil {
		return nil, err
	}

	v := &Vulnerability{
		OID: r.Get("oid").String(),
		CVE: []string{},
	}

	cves := r.Get("cve")
	if cves.IsArray() {
		for _, c := range cves.Array() {
			v.CVE = append(v.CVE, c.String())
		}
	} else if cves.Exists() {
		// a single id stored as a plain string
		v.CVE = append(v.CVE, cves.String())
	}

	return v, nil
}

func ParseCVE(doc string) (*CVE, error) {
	r, err := parseDoc(doc)
	if err != nil {
		return nil, err
	}

	c := &CVE{
		ID:         r.Get("id").String(),
		Summary:    r.Get("summary").String(),
		CWE:        r.Get("cwe").String(),
		Published:  parseTime(r.Get("Published")),
		Modified:   parseTime(r.Get("Modified")),
		CVSS:       parseScore(r.Get("cvss")),
		References: []string{},
	}

	if impact := r.Get("impact"); impact.IsObject() {
		c.Impact = &Impact{
			Confidentiality: impact.Get("confidentiality").String(),
			Integrity:       impact.Get("integrity").String(),
			Availability:    impact.Get("availability").String(),
		}
	}

	if access := r.Get("access"); access.IsObject() {
		c.Access = &Access{
			Vector:         access.Get("vector").String(),
			Complexity:     access.Get("complexity").String(),
			Authentication: access.Get("authentication").String(),
		}
	}

	for _, ref := range r.Get("references").Array() {
		c.References = append(c.References, ref.String())
	}

	return c, nil
}

func ParseCWE(doc string) (*CWE, error) {
	r, err := parseDoc(doc)
	if err != nil {
		return nil, err
	}

	return &CWE{
		ID:   r.Get("id").String(),
		Name: r.Get("name").String(),
	}, nil
}

// parseTime accepts RFC3339 strings, cve-search naive timestamps and
// mongoexport extended json ({"$date": ...}).
func parseTime(r gjson.Result) time.Time {
	if d := r.Get("$date"); d.Exists() {
		r = d
	}
	if n := r.Get("$numberLong"); n.Exists() {
		r = n
	}

	switch r.Type {
	case gjson.Number:
		return time.UnixMilli(r.Int()).UTC()
	case gjson.String:
		s := strings.TrimSpace(r.String())
		if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
			return time.UnixMilli(ms).UTC()
		}

		for _, layout := range timeLayouts {
			t, err := time.Parse(layout, s)
			if err == nil {
				return t.UTC()
			}
		}
	}

	return time.Time{}
}

func parseScore(r gjson.Result) *float64 {
	var score float64

	switch r.Type {
	case gjson.Number:
		score = r.Float()
	case gjson.String:
		f, err := strconv.ParseFloat(strings.TrimSpace(r.String()), 64)
		if err != nil {
			return nil
		}
		score = f
	default:
		return nil
	}

	return &score
}

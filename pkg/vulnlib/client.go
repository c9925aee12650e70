package vulnlib

import (
	"context"
	"errors"
	"time"
)

const (
	HostCollection     = "hosts"
	HostVulnCollection = "hostvuln"
	VulnCollection     = "vulnerabilities"
	CVECollection      = "cves"
	CWECollection      = "cwe"

	// NoCVE marks a vulnerability test that has no CVE assigned
	NoCVE = "NOCVE"
)

var ErrNotFound = errors.New("document not found")

// Store is the document store shared by the report and clean jobs.
// Host records live in the host database, CVE and CWE records in the CVE database.
type Store interface {
	// Hosts returns every host record that carries an oids field.
	Hosts(ctx context.Context) ([]*Host, error)
	Vulnerability(ctx context.Context, oid string) (*Vulnerability, error)
	CVE(ctx context.Context, id string) (*CVE, error)
	CWE(ctx context.Context, id string) (*CWE, error)

	// CountStale counts documents in collection last updated before the given time.
	CountStale(ctx context.Context, collection string, before time.Time) (int64, error)
	RemoveStale(ctx context.Context, collection string, before time.Time) (int64, error)

	PutHost(ctx context.Context, h *Host) error
	PutHostVuln(ctx context.Context, hv *HostVuln) error
	PutVulnerability(ctx context.Context, v *Vulnerability) error
	PutCVE(ctx context.Context, c *CVE) error
	PutCWE(ctx context.Context, c *CWE) error

	Close() error
}

type OIDRef struct {
	OID string `json:"oid" bson:"oid"`
}

type Host struct {
	IP      string    `json:"ip" bson:"ip"`
	OIDs    []OIDRef  `json:"oids" bson:"oids"`
	Updated time.Time `json:"updated" bson:"updated"`
}

type HostVuln struct {
	IP      string    `json:"ip" bson:"ip"`
	OID     string    `json:"oid" bson:"oid"`
	Updated time.Time `json:"updated" bson:"updated"`
}

type Vulnerability struct {
	OID string   `json:"oid" bson:"oid"`
	CVE []string `json:"cve" bson:"cve"`
}

type Impact struct {
	Confidentiality string `json:"confidentiality" bson:"confidentiality"`
	Integrity       string `json:"integrity" bson:"integrity"`
	Availability    string `json:"availability" bson:"availability"`
}

type Access struct {
	Vector         string `json:"vector" bson:"vector"`
	Complexity     string `json:"complexity" bson:"complexity"`
	Authentication string `json:"authentication" bson:"authentication"`
}

// CVE follows the cve-search document layout.
type CVE struct {
	ID         string    `json:"id" bson:"id"`
	Summary    string    `json:"summary" bson:"summary"`
	CWE        string    `json:"cwe" bson:"cwe"`
	Published  time.Time `json:"Published" bson:"Published"`
	Modified   time.Time `json:"Modified" bson:"Modified"`
	CVSS       *float64  `json:"cvss" bson:"cvss"`
	Impact     *Impact   `json:"impact,omitempty" bson:"impact,omitempty"`
	Access     *Access   `json:"access,omitempty" bson:"access,omitempty"`
	References []string  `json:"references" bson:"references"`
}

// CWE is keyed by the numeric part of the identifier, "79" for CWE-79.
type CWE struct {
	ID   string `json:"id" bson:"id"`
	Name string `json:"name" bson:"name"`
}

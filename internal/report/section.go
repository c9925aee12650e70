package report

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kvesta/vulnmgt/pkg/vulnlib"
)

const unknownCWE = "Unknown"

// Section is one CVE of the report with its affected hosts and, when the
// CVE database knows it, the CVE record and the CWE title.
type Section struct {
	CVE     string       `json:"cve"`
	Hosts   []string     `json:"hosts"`
	Detail  *vulnlib.CVE `json:"detail,omitempty"`
	CWEName string       `json:"cwe_name,omitempty"`
}

// Sections enriches every collected CVE from the CVE database.
// Missing CVE or CWE records leave Detail or CWEName empty.
func Sections(ctx context.Context, st vulnlib.Store, r *Result) ([]*Section, error) {
	sections := []*Section{}

	for _, id := range r.CVEs() {
		s := &Section{
			CVE:   id,
			Hosts: r.Hosts(id),
		}

		detail, err := st.CVE(ctx, id)
		switch {
		case errors.Is(err, vulnlib.ErrNotFound):
			sections = append(sections, s)
			continue
		case err != nil:
			return nil, fmt.Errorf("lookup %s: %w", id, err)
		}
		s.Detail = detail

		cwe, err := st.CWE(ctx, cweID(detail.CWE))
		switch {
		case errors.Is(err, vulnlib.ErrNotFound):
		case err != nil:
			return nil, fmt.Errorf("lookup cwe of %s: %w", id, err)
		default:
			s.CWEName = cwe.Name
		}

		sections = append(sections, s)
	}

	return sections, nil
}

// cweID turns "CWE-79" into "79"; anything else is unknown.
func cweID(cwe string) string {
	if id := strings.TrimPrefix(cwe, "CWE-"); id != cwe && id != "" {
		return id
	}

	return unknownCWE
}

package report

import (
	"fmt"
	"strconv"
	"time"

	"github.com/kvesta/vulnmgt/pkg/htmldoc"
	"github.com/kvesta/vulnmgt/pkg/vulnlib"
)

const (
	cweURL       = "https://cwe.mitre.org/data/definitions/"
	dateLayout   = "2006-01-02"
	unknown      = "Unknown"
	detailsUnset = "Details unknown -- update your CVE database"
)

// RenderHTML lays out the detailed vulnerability report for network.
func RenderHTML(network string, sections []*Section) *htmldoc.Doc {
	d := htmldoc.New()
	title := "Vulnerability report for " + network

	d.Tag("html", func() {
		d.Tag("head", func() {
			d.Line("title", title)
		})
		d.Tag("body", func() {
			d.Line("h1", title)

			for _, s := range sections {
				renderSection(d, s)
			}
		})
	})

	return d
}

func renderSection(d *htmldoc.Doc, s *Section) {
	d.Line("h2", s.CVE)
	d.Line("b", "Affected hosts: ")
	d.Text(strconv.Itoa(len(s.Hosts)))
	d.Stag("br")

	if s.Detail != nil {
		d.Tag("table", func() {
			renderDetail(d, s)
		})
	} else {
		d.Line("i", detailsUnset)
		d.Stag("br")
	}

	d.Line("b", "Affected hosts:")
	d.Stag("br")
	for _, host := range s.Hosts {
		d.Text(host)
		d.Stag("br")
	}
}

func renderDetail(d *htmldoc.Doc, s *Section) {
	c := s.Detail

	row(d, "Summary", c.Summary)

	d.Tag("tr", func() {
		d.Line("td", "CWE")
		d.Tag("td", func() {
			d.Line("a", c.CWE, htmldoc.Attr("href", cweURL+cweID(c.CWE)))
			if s.CWEName != "" {
				d.Text(" (" + s.CWEName + ")")
			} else {
				d.Text(" (no title)")
			}
		})
	})

	row(d, "Published", formatDate(c.Published))
	row(d, "Modified", formatDate(c.Modified))
	row(d, "CVSS", formatScore(c.CVSS))

	heading(d, "Impacts")
	if c.Impact != nil {
		row(d, "Confidentiality", c.Impact.Confidentiality)
		row(d, "Integrity", c.Impact.Integrity)
		row(d, "Availability", c.Impact.Availability)
	}

	heading(d, "Access")
	if c.Access != nil {
		row(d, "Vector", c.Access.Vector)
		row(d, "Complexity", c.Access.Complexity)
		row(d, "Authentication", c.Access.Authentication)
	}

	heading(d, "References")
	for _, ref := range c.References {
		d.Tag("tr", func() {
			d.Tag("td", func() {
				d.Line("a", ref, htmldoc.Attr("href", ref))
			})
		})
	}
}

func row(d *htmldoc.Doc, name, value string) {
	d.Tag("tr", func() {
		d.Line("td", name)
		d.Line("td", value)
	})
}

func heading(d *htmldoc.Doc, name string) {
	d.Tag("tr", func() {
		d.Tag("td", func() {
			d.Line("b", name)
		})
	})
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return unknown
	}

	return t.Format(dateLayout)
}

func formatScore(score *float64) string {
	if score == nil {
		return unknown
	}

	return fmt.Sprintf("%.1f", *score)
}

// detailOf is used by the console summary.
func detailOf(s *Section) *vulnlib.CVE {
	if s.Detail == nil {
		return &vulnlib.CVE{ID: s.CVE}
	}

	return s.Detail
}

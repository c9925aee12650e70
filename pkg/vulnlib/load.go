package vulnlib

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/tidwall/gjson"
)

type loader func(ctx context.Context, st Store, doc string) error

var loaders = map[string]loader{
	"hosts": func(ctx context.Context, st Store, doc string) error {
		h, err := ParseHost(doc)
		if err != nil {
			return err
		}
		if h.IP == "" {
			return fmt.Errorf("host without ip")
		}
		return st.PutHost(ctx, h)
	},
	"hostvulns": func(ctx context.Context, st Store, doc string) error {
		hv, err := ParseHostVuln(doc)
		if err != nil {
			return err
		}
		return st.PutHostVuln(ctx, hv)
	},
	"vulnerabilities": func(ctx context.Context, st Store, doc string) error {
		v, err := ParseVulnerability(doc)
		if err != nil {
			return err
		}
		if v.OID == "" {
			return fmt.Errorf("vulnerability without oid")
		}
		return st.PutVulnerability(ctx, v)
	},
	"cves": func(ctx context.Context, st Store, doc string) error {
		c, err := ParseCVE(doc)
		if err != nil {
			return err
		}
		if c.ID == "" {
			return fmt.Errorf("cve without id")
		}
		return st.PutCVE(ctx, c)
	},
	"cwes": func(ctx context.Context, st Store, doc string) error {
		c, err := ParseCWE(doc)
		if err != nil {
			return err
		}
		return st.PutCWE(ctx, c)
	},
}

// Kinds lists the document kinds accepted by Load.
func Kinds() []string {
	kinds := make([]string, 0, len(loaders))
	for k := range loaders {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)

	return kinds
}

// Load reads a json array or json lines from r and stores every document as kind.
// It stops at the first bad document and returns how many were stored before it.
func Load(ctx context.Context, st Store, kind string, r io.Reader) (int, error) {
	load, ok := loaders[kind]
	if !ok {
		return 0, fmt.Errorf("unknown kind %q, expected one of %s", kind, strings.Join(Kinds(), ", "))
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}

	var (
		count   int
		loadErr error
		line    = 0
	)

	each := func(doc gjson.Result) bool {
		line++
		if loadErr = load(ctx, st, doc.Raw); loadErr != nil {
			loadErr = fmt.Errorf("%s document %d: %w", kind, line, loadErr)
			return false
		}
		count++
		return true
	}

	body := strings.TrimSpace(string(data))
	if strings.HasPrefix(body, "[") {
		if !gjson.Valid(body) {
			return 0, errInvalidDoc
		}
		gjson.Parse(body).ForEach(func(_, doc gjson.Result) bool {
			return each(doc)
		})
	} else {
		gjson.ForEachLine(body, each)
	}

	return count, loadErr
}

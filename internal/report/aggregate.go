package report

import (
	"context"
	"errors"
	"fmt"
	"net/netip"
	"sort"
	"strings"

	"github.com/kvesta/vulnmgt/config"
	"github.com/kvesta/vulnmgt/pkg/vulnlib"

	log "github.com/sirupsen/logrus"
)

// AnyNetwork is the report title used when no range is given.
const AnyNetwork = "0.0.0.0/0"

type hostSet map[string]struct{}

// Result maps each CVE id to the set of affected host addresses.
type Result struct {
	Network string
	cves    map[string]hostSet
}

func newResult(network string) *Result {
	return &Result{
		Network: network,
		cves:    map[string]hostSet{},
	}
}

func (r *Result) add(cve, ip string) {
	hosts, ok := r.cves[cve]
	if !ok {
		hosts = hostSet{}
		r.cves[cve] = hosts
	}
	hosts[ip] = struct{}{}
}

// CVEs returns the collected CVE ids in lexicographic order.
func (r *Result) CVEs() []string {
	ids := make([]string, 0, len(r.cves))
	for id := range r.cves {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	return ids
}

// Hosts returns the sorted, distinct addresses affected by cve.
func (r *Result) Hosts(cve string) []string {
	hosts := make([]string, 0, len(r.cves[cve]))
	for ip := range r.cves[cve] {
		hosts = append(hosts, ip)
	}
	sort.Strings(hosts)

	return hosts
}

type Aggregator struct {
	DB vulnlib.Store

	// Network is a CIDR or a single address; empty matches every host
	Network string
}

// ParseNetwork parses a CIDR the strict way: host bits must be zero.
// A bare address is treated as a single-host network.
func ParseNetwork(network string) (netip.Prefix, error) {
	network = strings.TrimSpace(network)
	if network == "" {
		return netip.Prefix{}, nil
	}

	if !strings.Contains(network, "/") {
		addr, err := netip.ParseAddr(network)
		if err != nil {
			return netip.Prefix{}, fmt.Errorf("invalid network %q: %w", network, err)
		}
		return netip.PrefixFrom(addr, addr.BitLen()), nil
	}

	prefix, err := netip.ParsePrefix(network)
	if err != nil {
		return netip.Prefix{}, fmt.Errorf("invalid network %q: %w", network, err)
	}

	if prefix.Masked() != prefix {
		return netip.Prefix{}, fmt.Errorf("invalid network %q: host bits set", network)
	}

	return prefix, nil
}

// Collect walks every host carrying OIDs and maps the CVEs of its OIDs back to it.
// A host with a malformed address aborts the run.
func (a *Aggregator) Collect(ctx context.Context) (*Result, error) {
	prefix, err := ParseNetwork(a.Network)
	if err != nil {
		return nil, err
	}

	title := AnyNetwork
	if prefix.IsValid() {
		title = strings.TrimSpace(a.Network)
	}

	log.Printf(config.Green("Begin to collect hosts in %s"), title)

	hosts, err := a.DB.Hosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list hosts: %w", err)
	}

	res := newResult(title)
	resolved := map[string][]string{}

	for _, h := range hosts {
		if len(h.OIDs) < 1 {
			continue
		}

		addr, err := netip.ParseAddr(strings.TrimSpace(h.IP))
		if err != nil {
			return nil, fmt.Errorf("host %q: %w", h.IP, err)
		}

		if prefix.IsValid() && !prefix.Contains(addr) {
			continue
		}

		for _, o := range h.OIDs {
			cves, err := a.resolve(ctx, o.OID, resolved)
			if err != nil {
				return nil, err
			}

			for _, cve := range cves {
				if cve == vulnlib.NoCVE || cve == "" {
					continue
				}
				res.add(cve, h.IP)
			}
		}
	}

	log.Debugf("Collected %d cves from %d hosts", len(res.cves), len(hosts))

	return res, nil
}

// resolve maps an OID to its CVE list; each OID is looked up once per run.
func (a *Aggregator) resolve(ctx context.Context, oid string, resolved map[string][]string) ([]string, error) {
	if cves, ok := resolved[oid]; ok {
		return cves, nil
	}

	v, err := a.DB.Vulnerability(ctx, oid)
	switch {
	case errors.Is(err, vulnlib.ErrNotFound):
		log.Warnf("no vulnerability reference for oid %s, skipped", oid)
		resolved[oid] = nil
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("lookup oid %s: %w", oid, err)
	}

	resolved[oid] = v.CVE

	return v.CVE, nil
}

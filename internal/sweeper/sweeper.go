package sweeper

import (
	"context"
	"fmt"
	"time"

	"github.com/kvesta/vulnmgt/config"
	"github.com/kvesta/vulnmgt/pkg/vulnlib"

	log "github.com/sirupsen/logrus"
)

// OlderThan is the default number of days after which a record is stale.
const OlderThan = config.DefaultOlderThan

// swept in this order
var collections = []string{
	vulnlib.HostCollection,
	vulnlib.HostVulnCollection,
}

// Sweeper finds host and host-vuln records not updated within OlderThan days.
// Nothing is deleted unless Delete is set.
type Sweeper struct {
	DB vulnlib.Store

	OlderThan int
	Delete    bool

	// Now defaults to time.Now
	Now func() time.Time
}

type Tally struct {
	Collection string `json:"collection"`
	Stale      int64  `json:"stale"`
	Removed    int64  `json:"removed"`
}

type Result struct {
	Now       time.Time `json:"now"`
	Cutoff    time.Time `json:"cutoff"`
	OlderThan int       `json:"older_than"`
	DryRun    bool      `json:"dry_run"`
	Tallies   []Tally   `json:"tallies"`
}

// Cutoff returns now minus days, in UTC.
func Cutoff(now time.Time, days int) time.Time {
	return now.UTC().AddDate(0, 0, -days)
}

func (s *Sweeper) Sweep(ctx context.Context) (*Result, error) {
	days := s.OlderThan
	if days <= 0 {
		days = OlderThan
	}

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}

	res := &Result{
		Now:       now().UTC(),
		OlderThan: days,
		DryRun:    !s.Delete,
	}
	res.Cutoff = Cutoff(res.Now, days)

	log.Printf("Today's date: %s, %d days ago: %s",
		res.Now.Format(time.RFC3339), days, config.Yellow(res.Cutoff.Format(time.RFC3339)))

	for _, coll := range collections {
		count, err := s.DB.CountStale(ctx, coll, res.Cutoff)
		if err != nil {
			return nil, fmt.Errorf("count stale %s: %w", coll, err)
		}
		res.Tallies = append(res.Tallies, Tally{Collection: coll, Stale: count})
	}

	if res.DryRun {
		log.Printf(config.Yellow("Dry run, nothing removed. Use --delete to remove stale records"))
		return res, nil
	}

	for i := range res.Tallies {
		t := &res.Tallies[i]
		if t.Stale == 0 {
			continue
		}

		removed, err := s.DB.RemoveStale(ctx, t.Collection, res.Cutoff)
		if err != nil {
			return res, fmt.Errorf("remove stale %s: %w", t.Collection, err)
		}
		t.Removed = removed

		log.Printf("Removed %s stale records from %s", config.Red(removed), t.Collection)
	}

	return res, nil
}

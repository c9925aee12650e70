package sweeper

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/kvesta/vulnmgt/pkg/vulnlib"
)

var now = time.Date(2022, 3, 29, 9, 30, 0, 0, time.UTC)

func seed(t *testing.T) *vulnlib.SQLiteStore {
	t.Helper()

	st, err := vulnlib.OpenSQLite(filepath.Join(t.TempDir(), "sweep.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { st.Close() })

	ctx := context.Background()
	ages := map[string]int{
		"10.0.0.1": 1,
		"10.0.0.2": 27,
		"10.0.0.3": 29,
		"10.0.0.4": 60,
		"10.0.0.5": 400,
	}

	for ip, days := range ages {
		updated := now.AddDate(0, 0, -days)
		if err = st.PutHost(ctx, &vulnlib.Host{IP: ip, OIDs: []vulnlib.OIDRef{{OID: "1.3.6.1"}}, Updated: updated}); err != nil {
			t.Fatal(err)
		}
		if err = st.PutHostVuln(ctx, &vulnlib.HostVuln{IP: ip, OID: "1.3.6.1", Updated: updated}); err != nil {
			t.Fatal(err)
		}
	}

	// only one stale mapping for a fresh host
	if err = st.PutHostVuln(ctx, &vulnlib.HostVuln{IP: "10.0.0.1", OID: "1.3.6.2", Updated: now.AddDate(0, 0, -90)}); err != nil {
		t.Fatal(err)
	}

	return st
}

func TestCutoff(t *testing.T) {
	got := Cutoff(now, 28)
	want := time.Date(2022, 3, 1, 9, 30, 0, 0, time.UTC)

	if !got.Equal(want) {
		t.Errorf("Cutoff() got = %v, want %v", got, want)
	}
}

func TestSweep(t *testing.T) {
	tests := []struct {
		name      string
		olderThan int
		delete    bool
		want      []Tally
		wantLeft  []int64
	}{
		{
			name: "dryRun",
			want: []Tally{
				{Collection: vulnlib.HostCollection, Stale: 3},
				{Collection: vulnlib.HostVulnCollection, Stale: 4},
			},
			wantLeft: []int64{3, 4},
		},
		{
			name:      "dryRunCustomAge",
			olderThan: 100,
			want: []Tally{
				{Collection: vulnlib.HostCollection, Stale: 1},
				{Collection: vulnlib.HostVulnCollection, Stale: 1},
			},
			wantLeft: []int64{1, 1},
		},
		{
			name:   "delete",
			delete: true,
			want: []Tally{
				{Collection: vulnlib.HostCollection, Stale: 3, Removed: 3},
				{Collection: vulnlib.HostVulnCollection, Stale: 4, Removed: 4},
			},
			wantLeft: []int64{0, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			st := seed(t)

			s := &Sweeper{
				DB:        st,
				OlderThan: tt.olderThan,
				Delete:    tt.delete,
				Now:       func() time.Time { return now },
			}

			got, err := s.Sweep(ctx)
			if err != nil {
				t.Fatalf("Sweep() error = %v", err)
			}

			if !reflect.DeepEqual(got.Tallies, tt.want) {
				t.Errorf("Sweep() got = %+v, want %+v", got.Tallies, tt.want)
			}
			if got.DryRun == tt.delete {
				t.Errorf("Sweep() DryRun = %v with delete %v", got.DryRun, tt.delete)
			}

			for i, coll := range collections {
				left, err := st.CountStale(ctx, coll, got.Cutoff)
				if err != nil {
					t.Fatal(err)
				}
				if left != tt.wantLeft[i] {
					t.Errorf("%s left = %d, want %d", coll, left, tt.wantLeft[i])
				}
			}

			// fresh records are never touched
			total, _ := st.CountStale(ctx, vulnlib.HostCollection, now.Add(time.Hour))
			if total != 5-tt.want[0].Removed {
				t.Errorf("hosts total = %d", total)
			}
		})
	}
}

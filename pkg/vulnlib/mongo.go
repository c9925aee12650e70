package vulnlib

import (
	"context"
	"fmt"
	"time"

	"github.com/qiniu/qmgo"
	"go.mongodb.org/mongo-driver/bson"
)

const pingTimeout = 5

// MongoStore reads the collections written by the scanning pipeline and by cve-search.
type MongoStore struct {
	cli *qmgo.Client

	hosts     *qmgo.Collection
	hostVulns *qmgo.Collection
	vulns     *qmgo.Collection
	cves      *qmgo.Collection
	cwes      *qmgo.Collection
}

func OpenMongo(ctx context.Context, uri, hostDB, cveDB string) (*MongoStore, error) {
	cli, err := qmgo.NewClient(ctx, &qmgo.Config{Uri: uri})
	if err != nil {
		return nil, err
	}

	if err = cli.Ping(pingTimeout); err != nil {
		cli.Close(ctx)
		return nil, fmt.Errorf("ping %s: %w", uri, err)
	}

	hdb := cli.Database(hostDB)
	cdb := cli.Database(cveDB)

	return &MongoStore{
		cli:       cli,
		hosts:     hdb.Collection(HostCollection),
		hostVulns: hdb.Collection(HostVulnCollection),
		vulns:     hdb.Collection(VulnCollection),
		cves:      cdb.Collection(CVECollection),
		cwes:      cdb.Collection(CWECollection),
	}, nil
}

func (m *MongoStore) Hosts(ctx context.Context) ([]*Host, error) {
	hosts := []*Host{}

	err := m.hosts.Find(ctx, bson.M{"oids": bson.M{"$exists": true}}).All(&hosts)

	return hosts, err
}

func (m *MongoStore) Vulnerability(ctx context.Context, oid string) (*Vulnerability, error) {
	v := &Vulnerability{}
	if err := findOne(ctx, m.vulns, bson.M{"oid": oid}, v); err != nil {
		return nil, err
	}

	return v, nil
}

func (m *MongoStore) CVE(ctx context.Context, id string) (*CVE, error) {
	c := &CVE{}
	if err := findOne(ctx, m.cves, bson.M{"id": id}, c); err != nil {
		return nil, err
	}

	return c, nil
}

func (m *MongoStore) CWE(ctx context.Context, id string) (*CWE, error) {
	c := &CWE{}
	if err := findOne(ctx, m.cwes, bson.M{"id": id}, c); err != nil {
		return nil, err
	}

	return c, nil
}

func findOne(ctx context.Context, coll *qmgo.Collection, filter bson.M, result interface{}) error {
	err := coll.Find(ctx, filter).One(result)
	if qmgo.IsErrNoDocuments(err) {
		return ErrNotFound
	}

	return err
}

func (m *MongoStore) stale(collection string) (*qmgo.Collection, error) {
	switch collection {
	case HostCollection:
		return m.hosts, nil
	case HostVulnCollection:
		return m.hostVulns, nil
	}

	return nil, staleCollection(collection)
}

func (m *MongoStore) CountStale(ctx context.Context, collection string, before time.Time) (int64, error) {
	coll, err := m.stale(collection)
	if err != nil {
		return 0, err
	}

	return coll.Find(ctx, bson.M{"updated": bson.M{"$lt": before}}).Count()
}

func (m *MongoStore) RemoveStale(ctx context.Context, collection string, before time.Time) (int64, error) {
	coll, err := m.stale(collection)
	if err != nil {
		return 0, err
	}

	res, err := coll.RemoveAll(ctx, bson.M{"updated": bson.M{"$lt": before}})
	if err != nil {
		return 0, err
	}

	return res.DeletedCount, nil
}

func (m *MongoStore) PutHost(ctx context.Context, h *Host) error {
	_, err := m.hosts.Upsert(ctx, bson.M{"ip": h.IP}, h)
	return err
}

func (m *MongoStore) PutHostVuln(ctx context.Context, hv *HostVuln) error {
	_, err := m.hostVulns.Upsert(ctx, bson.M{"ip": hv.IP, "oid": hv.OID}, hv)
	return err
}

func (m *MongoStore) PutVulnerability(ctx context.Context, v *Vulnerability) error {
	_, err := m.vulns.Upsert(ctx, bson.M{"oid": v.OID}, v)
	return err
}

func (m *MongoStore) PutCVE(ctx context.Context, c *CVE) error {
	_, err := m.cves.Upsert(ctx, bson.M{"id": c.ID}, c)
	return err
}

func (m *MongoStore) PutCWE(ctx context.Context, c *CWE) error {
	_, err := m.cwes.Upsert(ctx, bson.M{"id": c.ID}, c)
	return err
}

func (m *MongoStore) Close() error {
	return m.cli.Close(context.Background())
}

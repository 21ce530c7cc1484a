package store

import (
	"context"
	"fmt"

	"BdsCrm/api/crm/ingest"
	"BdsCrm/internal/config"
)

// SyncStats reports what one push wrote per collection.
type SyncStats struct {
	Units   int `json:"units"`
	Owners  int `json:"owners"`
	Links   int `json:"links"`
	Batches int `json:"batches"`
}

// SyncPayload pushes a tenant's full payload to the remote document
// store. Documents go out in batches of config.BatchSize, committed
// sequentially; a failed batch aborts the push and leaves earlier batches
// written, same as a partially applied upload. With replace set, each
// collection is dropped first so remote leftovers from deleted entries
// do not survive the push.
func SyncPayload(ctx context.Context, ds DocumentStore, tenant string, p *ingest.Payload, replace bool) (SyncStats, error) {
	var stats SyncStats

	units, err := unitDocs(p)
	if err != nil {
		return stats, err
	}
	owners, err := ownerDocs(p)
	if err != nil {
		return stats, err
	}
	links, err := linkDocs(p)
	if err != nil {
		return stats, err
	}

	collections := []struct {
		name string
		docs []Doc
	}{
		{config.CollCanHo, units},
		{config.CollChuNha, owners},
		{config.CollLinks, links},
	}
	for _, c := range collections {
		if replace {
			if err := ds.DropCollection(ctx, tenant, c.name); err != nil {
				return stats, err
			}
		}
		for _, chunk := range chunkDocs(c.docs, config.BatchSize) {
			if err := ds.BatchSet(ctx, tenant, c.name, chunk); err != nil {
				return stats, err
			}
			stats.Batches++
		}
	}
	stats.Units = len(units)
	stats.Owners = len(owners)
	stats.Links = len(links)
	return stats, nil
}

// FetchPayload pulls the three remote collections and rebuilds the
// canonical payload from them.
func FetchPayload(ctx context.Context, ds DocumentStore, tenant string) (*ingest.Payload, error) {
	p := ingest.NewPayload()

	unitRows, err := ds.List(ctx, tenant, config.CollCanHo)
	if err != nil {
		return nil, err
	}
	for _, d := range unitRows {
		var u ingest.Unit
		if err := fromDoc(d.Data, &u); err != nil {
			return nil, fmt.Errorf("unit %s: %v", d.ID, err)
		}
		if u.ID == "" {
			u.ID = d.ID
		}
		p.CanHo[u.ID] = &u
	}

	ownerRows, err := ds.List(ctx, tenant, config.CollChuNha)
	if err != nil {
		return nil, err
	}
	for _, d := range ownerRows {
		var o ingest.Owner
		if err := fromDoc(d.Data, &o); err != nil {
			return nil, fmt.Errorf("owner %s: %v", d.ID, err)
		}
		if o.ID == "" {
			o.ID = d.ID
		}
		p.ChuNha[o.ID] = &o
	}

	linkRows, err := ds.List(ctx, tenant, config.CollLinks)
	if err != nil {
		return nil, err
	}
	for _, d := range linkRows {
		var l ingest.Link
		if err := fromDoc(d.Data, &l); err != nil {
			return nil, fmt.Errorf("link %s: %v", d.ID, err)
		}
		if l.CanHoID == "" || l.ChuNhaID == "" {
			continue
		}
		p.ChuNhaCanHo = append(p.ChuNhaCanHo, &l)
	}

	p.Normalize()
	return p, nil
}

func unitDocs(p *ingest.Payload) ([]Doc, error) {
	docs := make([]Doc, 0, len(p.CanHo))
	for id, u := range p.CanHo {
		data, err := toDoc(u)
		if err != nil {
			return nil, fmt.Errorf("unit %s: %v", id, err)
		}
		docs = append(docs, Doc{ID: id, Data: data})
	}
	return docs, nil
}

func ownerDocs(p *ingest.Payload) ([]Doc, error) {
	docs := make([]Doc, 0, len(p.ChuNha))
	for id, o := range p.ChuNha {
		data, err := toDoc(o)
		if err != nil {
			return nil, fmt.Errorf("owner %s: %v", id, err)
		}
		docs = append(docs, Doc{ID: id, Data: data})
	}
	return docs, nil
}

func linkDocs(p *ingest.Payload) ([]Doc, error) {
	docs := make([]Doc, 0, len(p.ChuNhaCanHo))
	for _, l := range p.ChuNhaCanHo {
		data, err := toDoc(l)
		if err != nil {
			return nil, fmt.Errorf("link %s: %v", ingest.LinkDocID(l.CanHoID, l.ChuNhaID), err)
		}
		docs = append(docs, Doc{ID: ingest.LinkDocID(l.CanHoID, l.ChuNhaID), Data: data})
	}
	return docs, nil
}

func chunkDocs(docs []Doc, size int) [][]Doc {
	if size <= 0 {
		size = len(docs)
	}
	var chunks [][]Doc
	for start := 0; start < len(docs); start += size {
		end := start + size
		if end > len(docs) {
			end = len(docs)
		}
		chunks = append(chunks, docs[start:end])
	}
	return chunks
}

package store

import (
	"context"
	"encoding/json"
	"fmt"

	"BdsCrm/api/crm/ingest"
)

// Doc is one remote document: its key plus the JSON body as a generic map.
type Doc struct {
	ID   string
	Data map[string]interface{}
}

// DocumentStore is a merge-writing document backend addressed by
// tenant, collection and document id. Set and BatchSet merge fields into
// any existing document instead of replacing it wholesale.
type DocumentStore interface {
	Name() string
	Set(ctx context.Context, tenant, collection, id string, data map[string]interface{}) error
	BatchSet(ctx context.Context, tenant, collection string, docs []Doc) error
	Get(ctx context.Context, tenant, collection, id string) (map[string]interface{}, error)
	List(ctx context.Context, tenant, collection string) ([]Doc, error)
	Delete(ctx context.Context, tenant, collection, id string) error
	DropCollection(ctx context.Context, tenant, collection string) error
	Close(ctx context.Context) error
}

// PayloadCache is the working-copy storage for a tenant's full payload.
// Load returns (nil, nil) when the tenant has no cached payload yet.
type PayloadCache interface {
	Load(ctx context.Context, tenant string) (*ingest.Payload, error)
	Save(ctx context.Context, tenant string, p *ingest.Payload) error
	Clear(ctx context.Context, tenant string) error
}

// toDoc flattens any JSON-taggable value into the generic map shape the
// document stores persist.
func toDoc(v interface{}) (map[string]interface{}, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode doc: %v", err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("decode doc: %v", err)
	}
	return m, nil
}

// fromDoc rehydrates a generic document map into a typed value.
func fromDoc(m map[string]interface{}, v interface{}) error {
	raw, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode doc: %v", err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode doc: %v", err)
	}
	return nil
}

package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgStore persists documents as JSONB rows in a single table keyed by
// (tenant, collection, id). Writes merge bodies with the || operator, so
// a partial document update leaves the other fields in place.
type PgStore struct {
	pool *pgxpool.Pool
}

func NewPgStore(pool *pgxpool.Pool) *PgStore {
	return &PgStore{pool: pool}
}

// DialPostgres opens a pool and verifies connectivity.
func DialPostgres(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres connect: %v", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping: %v", err)
	}
	return pool, nil
}

const createDocumentsTable = `
CREATE TABLE IF NOT EXISTS crm_documents (
	tenant      TEXT NOT NULL,
	collection  TEXT NOT NULL,
	id          TEXT NOT NULL,
	doc         JSONB NOT NULL,
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (tenant, collection, id)
)`

const upsertDocument = `
INSERT INTO crm_documents (tenant, collection, id, doc)
VALUES ($1, $2, $3, $4)
ON CONFLICT (tenant, collection, id)
DO UPDATE SET doc = crm_documents.doc || EXCLUDED.doc, updated_at = now()`

// EnsureSchema creates the documents table when it does not exist yet.
func (s *PgStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, createDocumentsTable); err != nil {
		return fmt.Errorf("create crm_documents: %v", err)
	}
	return nil
}

func (s *PgStore) Name() string { return "postgres" }

func (s *PgStore) Set(ctx context.Context, tenant, collection, id string, data map[string]interface{}) error {
	if _, err := s.pool.Exec(ctx, upsertDocument, tenant, collection, id, data); err != nil {
		return fmt.Errorf("postgres set %s/%s: %v", collection, id, err)
	}
	return nil
}

func (s *PgStore) BatchSet(ctx context.Context, tenant, collection string, docs []Doc) error {
	if len(docs) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, d := range docs {
		batch.Queue(upsertDocument, tenant, collection, d.ID, d.Data)
	}
	res := s.pool.SendBatch(ctx, batch)
	defer res.Close()
	for range docs {
		if _, err := res.Exec(); err != nil {
			return fmt.Errorf("postgres batch set %s: %v", collection, err)
		}
	}
	return nil
}

func (s *PgStore) Get(ctx context.Context, tenant, collection, id string) (map[string]interface{}, error) {
	var data map[string]interface{}
	err := s.pool.QueryRow(ctx,
		`SELECT doc FROM crm_documents WHERE tenant = $1 AND collection = $2 AND id = $3`,
		tenant, collection, id,
	).Scan(&data)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("postgres get %s/%s: %v", collection, id, err)
	}
	return data, nil
}

func (s *PgStore) List(ctx context.Context, tenant, collection string) ([]Doc, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, doc FROM crm_documents WHERE tenant = $1 AND collection = $2 ORDER BY id`,
		tenant, collection,
	)
	if err != nil {
		return nil, fmt.Errorf("postgres list %s: %v", collection, err)
	}
	defer rows.Close()

	var docs []Doc
	for rows.Next() {
		var d Doc
		if err := rows.Scan(&d.ID, &d.Data); err != nil {
			return nil, fmt.Errorf("postgres scan %s: %v", collection, err)
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres rows %s: %v", collection, err)
	}
	return docs, nil
}

func (s *PgStore) Delete(ctx context.Context, tenant, collection, id string) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM crm_documents WHERE tenant = $1 AND collection = $2 AND id = $3`,
		tenant, collection, id,
	)
	if err != nil {
		return fmt.Errorf("postgres delete %s/%s: %v", collection, id, err)
	}
	return nil
}

func (s *PgStore) DropCollection(ctx context.Context, tenant, collection string) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM crm_documents WHERE tenant = $1 AND collection = $2`,
		tenant, collection,
	)
	if err != nil {
		return fmt.Errorf("postgres drop %s: %v", collection, err)
	}
	return nil
}

func (s *PgStore) Close(context.Context) error {
	s.pool.Close()
	return nil
}

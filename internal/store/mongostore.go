package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore persists documents in one Mongo collection per logical
// table, tenants isolated by a tenant field and a tenant-prefixed _id.
// Writes are $set upserts, so they merge fields the same way the other
// backends do.
type MongoStore struct {
	db *mongo.Database
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{db: db}
}

// DialMongo connects, pings and returns the named database handle.
func DialMongo(ctx context.Context, uri, dbName string) (*mongo.Client, *mongo.Database, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %v", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, nil, fmt.Errorf("mongo ping: %v", err)
	}
	return client, client.Database(dbName), nil
}

func (s *MongoStore) Name() string { return "mongo" }

func docKey(tenant, id string) string {
	return tenant + "/" + id
}

func (s *MongoStore) Set(ctx context.Context, tenant, collection, id string, data map[string]interface{}) error {
	fields := bson.M{"tenant": tenant, "docId": id}
	for k, v := range data {
		fields[k] = v
	}
	_, err := s.db.Collection(collection).UpdateOne(ctx,
		bson.M{"_id": docKey(tenant, id)},
		bson.M{"$set": fields},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("mongo set %s/%s: %v", collection, id, err)
	}
	return nil
}

func (s *MongoStore) BatchSet(ctx context.Context, tenant, collection string, docs []Doc) error {
	if len(docs) == 0 {
		return nil
	}
	models := make([]mongo.WriteModel, 0, len(docs))
	for _, d := range docs {
		fields := bson.M{"tenant": tenant, "docId": d.ID}
		for k, v := range d.Data {
			fields[k] = v
		}
		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": docKey(tenant, d.ID)}).
			SetUpdate(bson.M{"$set": fields}).
			SetUpsert(true))
	}
	_, err := s.db.Collection(collection).BulkWrite(ctx, models, options.BulkWrite().SetOrdered(true))
	if err != nil {
		return fmt.Errorf("mongo batch set %s: %v", collection, err)
	}
	return nil
}

func (s *MongoStore) Get(ctx context.Context, tenant, collection, id string) (map[string]interface{}, error) {
	var raw bson.M
	err := s.db.Collection(collection).FindOne(ctx, bson.M{"_id": docKey(tenant, id)}).Decode(&raw)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("mongo get %s/%s: %v", collection, id, err)
	}
	return stripMongoMeta(raw), nil
}

func (s *MongoStore) List(ctx context.Context, tenant, collection string) ([]Doc, error) {
	cur, err := s.db.Collection(collection).Find(ctx, bson.M{"tenant": tenant})
	if err != nil {
		return nil, fmt.Errorf("mongo list %s: %v", collection, err)
	}
	defer cur.Close(ctx)

	var docs []Doc
	for cur.Next(ctx) {
		var raw bson.M
		if err := cur.Decode(&raw); err != nil {
			return nil, fmt.Errorf("mongo decode %s: %v", collection, err)
		}
		id, _ := raw["docId"].(string)
		docs = append(docs, Doc{ID: id, Data: stripMongoMeta(raw)})
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("mongo cursor %s: %v", collection, err)
	}
	return docs, nil
}

func (s *MongoStore) Delete(ctx context.Context, tenant, collection, id string) error {
	_, err := s.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": docKey(tenant, id)})
	if err != nil {
		return fmt.Errorf("mongo delete %s/%s: %v", collection, id, err)
	}
	return nil
}

func (s *MongoStore) DropCollection(ctx context.Context, tenant, collection string) error {
	_, err := s.db.Collection(collection).DeleteMany(ctx, bson.M{"tenant": tenant})
	if err != nil {
		return fmt.Errorf("mongo drop %s: %v", collection, err)
	}
	return nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.db.Client().Disconnect(ctx)
}

// stripMongoMeta removes the bookkeeping fields added on write so callers
// see exactly the document body they stored.
func stripMongoMeta(raw bson.M) map[string]interface{} {
	out := make(map[string]interface{}, len(raw))
	for k, v := range raw {
		if k == "_id" || k == "tenant" || k == "docId" {
			continue
		}
		out[k] = v
	}
	return out
}

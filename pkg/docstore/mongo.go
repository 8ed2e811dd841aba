// Copyright 2025 KrakLabs
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// For commercial licensing, contact: licensing@kraklabs.com
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package docstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoStore implements Store on a MongoDB deployment.
type MongoStore struct {
	client  *mongo.Client
	timeout time.Duration
}

var _ Store = (*MongoStore)(nil)

// OpenMongo connects to MongoDB. The driver connects lazily, so errors such
// as bad credentials surface on the first operation; call Ping to fail early.
func OpenMongo(ctx context.Context, uri string, opts Options) (*MongoStore, error) {
	timeout := opts.connectTimeout()
	clientOpts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}

	return &MongoStore{client: client, timeout: timeout}, nil
}

// Ping verifies the primary is reachable.
func (s *MongoStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("ping mongodb: %w", err)
	}
	return nil
}

// ListDatabases returns the database names.
func (s *MongoStore) ListDatabases(ctx context.Context) ([]string, error) {
	names, err := s.client.ListDatabaseNames(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("list databases: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

// ListCollections returns the collection names of a database.
func (s *MongoStore) ListCollections(ctx context.Context, database string) ([]string, error) {
	names, err := s.client.Database(database).ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("list collections of %s: %w", database, err)
	}
	sort.Strings(names)
	return names, nil
}

// Count returns the number of documents in a collection.
func (s *MongoStore) Count(ctx context.Context, database, collection string) (int64, error) {
	n, err := s.collection(database, collection).CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("count %s.%s: %w", database, collection, err)
	}
	return n, nil
}

// Find returns every document of a collection.
func (s *MongoStore) Find(ctx context.Context, database, collection string) ([]Document, error) {
	cur, err := s.collection(database, collection).Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("find %s.%s: %w", database, collection, err)
	}
	defer func() { _ = cur.Close(ctx) }()

	var docs []Document
	for cur.Next(ctx) {
		var raw bson.D
		if err := cur.Decode(&raw); err != nil {
			return nil, fmt.Errorf("decode document: %w", err)
		}
		docs = append(docs, fromBSON(raw))
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s.%s: %w", database, collection, err)
	}
	return docs, nil
}

// FindOne returns the first document of a collection.
func (s *MongoStore) FindOne(ctx context.Context, database, collection string) (Document, error) {
	var raw bson.D
	err := s.collection(database, collection).FindOne(ctx, bson.D{}).Decode(&raw)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNoDocuments
	}
	if err != nil {
		return nil, fmt.Errorf("find one %s.%s: %w", database, collection, err)
	}
	return fromBSON(raw), nil
}

// InsertMany inserts docs in one bulk call.
func (s *MongoStore) InsertMany(ctx context.Context, database, collection string, docs []Document) (int, error) {
	if len(docs) == 0 {
		return 0, nil
	}
	batch := make([]interface{}, len(docs))
	for i, d := range docs {
		batch[i] = toBSON(d)
	}
	res, err := s.collection(database, collection).InsertMany(ctx, batch)
	if err != nil {
		return 0, fmt.Errorf("insert into %s.%s: %w", database, collection, err)
	}
	return len(res.InsertedIDs), nil
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) collection(database, collection string) *mongo.Collection {
	return s.client.Database(database).Collection(collection)
}

// fromBSON converts a driver document into a Document.
func fromBSON(raw bson.D) Document {
	doc := make(Document, 0, len(raw))
	for _, e := range raw {
		doc = append(doc, Field{Key: e.Key, Value: fromBSONValue(e.Value)})
	}
	return doc
}

func fromBSONValue(v any) any {
	switch x := v.(type) {
	case nil, string, bool, int64, float64:
		return x
	case int32:
		return int64(x)
	case primitive.ObjectID:
		return x.Hex()
	case primitive.DateTime:
		return x.Time().UTC()
	case primitive.Decimal128:
		return x.String()
	case primitive.A:
		out := make([]any, len(x))
		for i := range x {
			out[i] = fromBSONValue(x[i])
		}
		return out
	case primitive.D:
		out := make(map[string]any, len(x))
		for _, e := range x {
			out[e.Key] = fromBSONValue(e.Value)
		}
		return out
	case primitive.M:
		out := make(map[string]any, len(x))
		for k, val := range x {
			out[k] = fromBSONValue(val)
		}
		return out
	case primitive.Null, primitive.Undefined:
		return nil
	default:
		return fmt.Sprint(x)
	}
}

// toBSON converts a Document into an ordered driver document.
func toBSON(doc Document) bson.D {
	out := make(bson.D, 0, len(doc))
	for _, f := range doc {
		out = append(out, bson.E{Key: f.Key, Value: f.Value})
	}
	return out
}

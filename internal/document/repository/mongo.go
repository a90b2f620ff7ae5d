package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/docsearch/docsearch-api/internal/document"
	"github.com/docsearch/docsearch-api/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	PrimarySearchIndex   = "default"
	SecondarySearchIndex = "secondary_default"
	SecondaryCollection  = "documents_archive"
)

// projectedFields is the fixed field set every search hit is reduced to.
var projectedFields = []string{
	document.FieldID,
	document.FieldFileName,
	document.FieldText,
	document.FieldCreator,
	document.FieldAuthor,
	document.FieldTitle,
	document.FieldSubject,
	document.FieldProducer,
	document.FieldPageCount,
}

// MongoStore searches two collections through Atlas Search. The secondary
// collection is folded in with $unionWith so the union and the sort happen
// in a single aggregation.
type MongoStore struct {
	primary   *mongo.Collection
	secondary *mongo.Collection
}

// NewMongoStore binds the store to the primary collection and the fixed
// secondary collection of db.
func NewMongoStore(db *mongo.Database, collection string) *MongoStore {
	return &MongoStore{
		primary:   db.Collection(collection),
		secondary: db.Collection(SecondaryCollection),
	}
}

func (m *MongoStore) Search(ctx context.Context, clauses []document.Clause, sortBy document.SortBy) ([]document.ScoredDocument, error) {
	if len(clauses) == 0 {
		return []document.ScoredDocument{}, nil
	}
	cur, err := m.primary.Aggregate(ctx, BuildSearchPipeline(clauses, sortBy))
	if err != nil {
		return nil, fmt.Errorf("search aggregate: %w", err)
	}
	defer cur.Close(ctx)

	out := []document.ScoredDocument{}
	for cur.Next(ctx) {
		var raw bson.M
		if err := cur.Decode(&raw); err != nil {
			return nil, fmt.Errorf("decode search hit: %w", err)
		}
		out = append(out, Normalize(raw))
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("search cursor: %w", err)
	}
	return out, nil
}

func (m *MongoStore) GetByID(ctx context.Context, id string) (*document.Document, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		logger.Debugf("get by id: malformed id %q: %v", id, err)
		return nil, nil
	}
	for _, col := range []*mongo.Collection{m.primary, m.secondary} {
		var raw bson.M
		err := col.FindOne(ctx, bson.M{document.FieldID: oid}).Decode(&raw)
		if errors.Is(err, mongo.ErrNoDocuments) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("find %s in %s: %w", id, col.Name(), err)
		}
		d := Normalize(raw).Document
		return &d, nil
	}
	return nil, nil
}

func (m *MongoStore) Ping(ctx context.Context) error {
	return m.primary.Database().Client().Ping(ctx, readpref.Primary())
}

// BuildSearchPipeline returns the aggregation run against the primary
// collection: search, project, union with the identically searched
// secondary collection, then sort the merged stream.
func BuildSearchPipeline(clauses []document.Clause, sortBy document.SortBy) mongo.Pipeline {
	return mongo.Pipeline{
		searchStage(PrimarySearchIndex, clauses),
		projectStage(),
		{{Key: "$unionWith", Value: bson.D{
			{Key: "coll", Value: SecondaryCollection},
			{Key: "pipeline", Value: bson.A{
				searchStage(SecondarySearchIndex, clauses),
				projectStage(),
			}},
		}}},
		sortStage(sortBy),
	}
}

func searchStage(index string, clauses []document.Clause) bson.D {
	should := make(bson.A, 0, len(clauses))
	for _, c := range clauses {
		should = append(should, textOperator(c))
	}
	return bson.D{{Key: "$search", Value: bson.D{
		{Key: "index", Value: index},
		{Key: "compound", Value: bson.D{{Key: "should", Value: should}}},
	}}}
}

func textOperator(c document.Clause) bson.D {
	var path interface{} = c.Paths
	if len(c.Paths) == 1 {
		path = c.Paths[0]
	}
	return bson.D{{Key: "text", Value: bson.D{
		{Key: "query", Value: c.Query},
		{Key: "path", Value: path},
		{Key: "fuzzy", Value: bson.D{{Key: "maxEdits", Value: c.MaxEdits}}},
	}}}
}

func projectStage() bson.D {
	fields := make(bson.D, 0, len(projectedFields)+1)
	for _, f := range projectedFields {
		fields = append(fields, bson.E{Key: f, Value: 1})
	}
	fields = append(fields, bson.E{Key: document.FieldScore, Value: bson.D{{Key: "$meta", Value: "searchScore"}}})
	return bson.D{{Key: "$project", Value: fields}}
}

func sortStage(by document.SortBy) bson.D {
	var keys bson.D
	switch by {
	case document.SortPageCount:
		keys = bson.D{{Key: document.FieldPageCount, Value: -1}}
	case document.SortFileName:
		keys = bson.D{{Key: document.FieldFileName, Value: 1}}
	default:
		keys = bson.D{{Key: document.FieldScore, Value: -1}}
	}
	return bson.D{{Key: "$sort", Value: keys}}
}

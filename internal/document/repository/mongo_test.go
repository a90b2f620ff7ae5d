package repository

import (
	"testing"

	"github.com/docsearch/docsearch-api/internal/document"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func lookup(t *testing.T, d bson.D, key string) interface{} {
	t.Helper()
	for _, e := range d {
		if e.Key == key {
			return e.Value
		}
	}
	t.Fatalf("key %q not found in %v", key, d)
	return nil
}

func TestBuildSearchPipeline_Stages(t *testing.T) {
	clauses := []document.Clause{
		document.NewClause("tariff", document.FieldFileName),
		document.NewClause("Smith", document.FieldAuthor, document.FieldCreator),
	}
	p := BuildSearchPipeline(clauses, document.SortRelevance)
	require.Len(t, p, 4)
	require.Equal(t, "$search", p[0][0].Key)
	require.Equal(t, "$project", p[1][0].Key)
	require.Equal(t, "$unionWith", p[2][0].Key)
	require.Equal(t, "$sort", p[3][0].Key)

	search := p[0][0].Value.(bson.D)
	require.Equal(t, PrimarySearchIndex, lookup(t, search, "index"))
	should := lookup(t, lookup(t, search, "compound").(bson.D), "should").(bson.A)
	require.Len(t, should, 2)

	first := lookup(t, should[0].(bson.D), "text").(bson.D)
	require.Equal(t, "tariff", lookup(t, first, "query"))
	require.Equal(t, document.FieldFileName, lookup(t, first, "path"))
	require.Equal(t, 2, lookup(t, lookup(t, first, "fuzzy").(bson.D), "maxEdits"))

	second := lookup(t, should[1].(bson.D), "text").(bson.D)
	require.Equal(t, []string{document.FieldAuthor, document.FieldCreator}, lookup(t, second, "path"))
}

func TestBuildSearchPipeline_UnionSearchesSecondaryIdentically(t *testing.T) {
	clauses := []document.Clause{document.NewClause("budget", document.FieldText, document.FieldTitle, document.FieldSubject)}
	p := BuildSearchPipeline(clauses, document.SortFileName)

	union := p[2][0].Value.(bson.D)
	require.Equal(t, SecondaryCollection, lookup(t, union, "coll"))
	sub := lookup(t, union, "pipeline").(bson.A)
	require.Len(t, sub, 2)

	primarySearch := p[0][0].Value.(bson.D)
	secondarySearch := sub[0].(bson.D)[0].Value.(bson.D)
	require.Equal(t, SecondarySearchIndex, lookup(t, secondarySearch, "index"))
	require.Equal(t, lookup(t, primarySearch, "compound"), lookup(t, secondarySearch, "compound"))
	require.Equal(t, p[1], sub[1].(bson.D))
}

func TestBuildSearchPipeline_ProjectsScore(t *testing.T) {
	p := BuildSearchPipeline([]document.Clause{document.NewClause("x", document.FieldText)}, document.SortRelevance)
	project := p[1][0].Value.(bson.D)
	require.Equal(t, bson.D{{Key: "$meta", Value: "searchScore"}}, lookup(t, project, document.FieldScore))
	require.Equal(t, 1, lookup(t, project, document.FieldPageCount))
}

func TestBuildSearchPipeline_SortStage(t *testing.T) {
	cases := map[document.SortBy]bson.D{
		document.SortPageCount: {{Key: document.FieldPageCount, Value: -1}},
		document.SortFileName:  {{Key: document.FieldFileName, Value: 1}},
		document.SortRelevance: {{Key: document.FieldScore, Value: -1}},
	}
	clauses := []document.Clause{document.NewClause("x", document.FieldText)}
	for by, want := range cases {
		p := BuildSearchPipeline(clauses, by)
		require.Equal(t, want, p[3][0].Value, "sort %s", by)
	}
}

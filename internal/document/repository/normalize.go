package repository

import (
	"fmt"
	"math"
	"strconv"

	"github.com/docsearch/docsearch-api/internal/document"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Normalize maps a raw store record onto a ScoredDocument. Every field has a
// typed default: absent or null text fields become "", an absent page count
// or score becomes 0.
func Normalize(raw map[string]interface{}) document.ScoredDocument {
	return document.ScoredDocument{
		Document: document.Document{
			ID:        idString(raw[document.FieldID]),
			FileName:  stringField(raw, document.FieldFileName),
			Text:      stringField(raw, document.FieldText),
			Creator:   stringField(raw, document.FieldCreator),
			Author:    stringField(raw, document.FieldAuthor),
			Title:     stringField(raw, document.FieldTitle),
			Subject:   stringField(raw, document.FieldSubject),
			Producer:  stringField(raw, document.FieldProducer),
			PageCount: intField(raw, document.FieldPageCount),
		},
		Score: floatField(raw, document.FieldScore),
	}
}

func idString(v interface{}) string {
	switch id := v.(type) {
	case nil:
		return ""
	case primitive.ObjectID:
		return id.Hex()
	case string:
		return id
	default:
		return fmt.Sprint(id)
	}
}

func stringField(raw map[string]interface{}, key string) string {
	switch v := raw[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case primitive.Null, primitive.Undefined:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func intField(raw map[string]interface{}, key string) int {
	switch v := raw[key].(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0
		}
		return int(v)
	case float32:
		return int(v)
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

func floatField(raw map[string]interface{}, key string) float64 {
	switch v := raw[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return 0
	}
}

package elasticsearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/elastic/go-elasticsearch/v8/esapi"
	"go.uber.org/zap"
)

const CategoriesIndexName = "catalog_categories"

// MaxResultWindow is the highest from+size the categories index serves.
const MaxResultWindow = 10000

// CategoriesMapping returns the JSON mapping of the categories index.
// Text fields carry a keyword sub-field so they can be sorted on.
func CategoriesMapping() (string, error) {
	keywordText := map[string]interface{}{
		"type": "text",
		"fields": map[string]interface{}{
			"keyword": map[string]interface{}{"type": "keyword", "ignore_above": 256},
		},
	}
	mapping := map[string]interface{}{
		"settings": map[string]interface{}{
			"index": map[string]interface{}{"max_result_window": MaxResultWindow},
		},
		"mappings": map[string]interface{}{
			"properties": map[string]interface{}{
				"id":          map[string]interface{}{"type": "keyword"},
				"name":        keywordText,
				"slug":        map[string]interface{}{"type": "keyword"},
				"description": map[string]interface{}{"type": "text"},
				"created_at":  map[string]interface{}{"type": "date"},
				"updated_at":  map[string]interface{}{"type": "date"},
			},
		},
	}
	mappingBytes, err := json.Marshal(mapping)
	if err != nil {
		return "", fmt.Errorf("error marshalling categories mapping to JSON: %w", err)
	}
	return string(mappingBytes), nil
}

// CreateCategoriesIndexIfNotExists creates the categories index with its
// mapping if it does not already exist.
func CreateCategoriesIndexIfNotExists(ctx context.Context, client *ESClientWrapper, logger *zap.Logger) error {
	log := logger.Named("elasticsearch_index_setup")

	res, err := esapi.IndicesExistsRequest{Index: []string{CategoriesIndexName}}.Do(ctx, client.Client)
	if err != nil {
		log.Error("Error checking if categories index exists", zap.Error(err))
		return fmt.Errorf("error checking if categories index exists: %w", err)
	}
	res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK:
		log.Info("Categories index already exists", zap.String("index_name", CategoriesIndexName))
		return nil
	case http.StatusNotFound:
	default:
		log.Error("Unexpected status checking categories index",
			zap.String("status", res.Status()),
			zap.String("index_name", CategoriesIndexName),
		)
		return fmt.Errorf("error checking if categories index exists: status %s", res.Status())
	}

	mappingJSON, err := CategoriesMapping()
	if err != nil {
		return err
	}
	log.Debug("Categories index mapping defined", zap.String("mapping", mappingJSON))

	createRes, err := esapi.IndicesCreateRequest{
		Index: CategoriesIndexName,
		Body:  strings.NewReader(mappingJSON),
	}.Do(ctx, client.Client)
	if err != nil {
		log.Error("Error creating categories index", zap.Error(err), zap.String("index_name", CategoriesIndexName))
		return fmt.Errorf("error creating categories index %s: %w", CategoriesIndexName, err)
	}
	defer createRes.Body.Close()

	if createRes.IsError() {
		var errorBody map[string]interface{}
		if err := json.NewDecoder(createRes.Body).Decode(&errorBody); err != nil {
			log.Error("Failed to parse categories index creation error response body", zap.Error(err), zap.String("status", createRes.Status()))
		} else {
			log.Error("Failed to create categories index",
				zap.String("status", createRes.Status()),
				zap.Any("error_details", errorBody),
			)
		}
		return fmt.Errorf("failed to create categories index %s: status %s", CategoriesIndexName, createRes.Status())
	}

	log.Info("Categories index created successfully", zap.String("index_name", CategoriesIndexName))
	return nil
}

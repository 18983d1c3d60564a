// File: internal/catalog/search.go
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"pagination_backend/internal/paging"
	platformElasticsearch "pagination_backend/internal/platform/elasticsearch"

	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MaxSearchWindow is the deepest from+size a category search may ask for.
// Elasticsearch rejects anything past the index's max_result_window.
const MaxSearchWindow = platformElasticsearch.MaxResultWindow

// searchSortFields maps request sort fields to sortable index fields.
var searchSortFields = map[string]string{
	"id":         "id",
	"name":       "name.keyword",
	"slug":       "slug",
	"created_at": "created_at",
	"updated_at": "updated_at",
	"relevance":  "_score",
}

// Searcher is the full-text query executor for categories.
type Searcher interface {
	Search(ctx context.Context, query string, page PageQuery) ([]Category, int64, error)
	Index(ctx context.Context, category *Category) error
	BulkIndex(ctx context.Context, categories []Category) (indexed int, err error)
}

type categoryDocument struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toDocument(c *Category) categoryDocument {
	return categoryDocument{
		ID:          c.ID.String(),
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func (d categoryDocument) toCategory() (Category, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return Category{}, fmt.Errorf("invalid category id %q in search index: %w", d.ID, err)
	}
	c := Category{Name: d.Name, Slug: d.Slug, Description: d.Description}
	c.ID = id
	c.CreatedAt = d.CreatedAt
	c.UpdatedAt = d.UpdatedAt
	return c, nil
}

type esSearcher struct {
	client *platformElasticsearch.ESClientWrapper
	index  string
	logger *zap.Logger
}

// NewSearchRepository returns the Elasticsearch-backed Searcher, or nil when
// search is not configured.
func NewSearchRepository(client *platformElasticsearch.ESClientWrapper, logger *zap.Logger) Searcher {
	if client == nil {
		return nil
	}
	return &esSearcher{
		client: client,
		index:  platformElasticsearch.CategoriesIndexName,
		logger: logger.Named("CatalogSearch"),
	}
}

// buildSearchBody renders the search request. from/size come straight from
// the page; the sort field is whitelisted.
func buildSearchBody(query string, page PageQuery) (map[string]interface{}, error) {
	field, ok := searchSortFields[page.Sort]
	if !ok {
		return nil, ErrUnsupportedSort(page.Sort)
	}
	order := paging.DirDesc
	if page.Dir == paging.DirAsc {
		order = paging.DirAsc
	}

	sort := []interface{}{
		map[string]interface{}{field: map[string]interface{}{"order": order}},
	}
	if field != "id" {
		sort = append(sort, map[string]interface{}{"id": map[string]interface{}{"order": "asc"}})
	}

	return map[string]interface{}{
		"from":             page.Offset,
		"size":             page.Limit,
		"track_total_hits": true,
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  query,
				"fields": []string{"name^3", "slug^2", "description"},
			},
		},
		"sort": sort,
	}, nil
}

type searchResponse struct {
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		Hits []struct {
			Source categoryDocument `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func (s *esSearcher) Search(ctx context.Context, query string, page PageQuery) ([]Category, int64, error) {
	body, err := buildSearchBody(query, page)
	if err != nil {
		return nil, 0, err
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to encode search request: %w", err)
	}

	res, err := esapi.SearchRequest{
		Index: []string{s.index},
		Body:  bytes.NewReader(raw),
	}.Do(ctx, s.client.Client)
	if err != nil {
		return nil, 0, fmt.Errorf("search request failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		s.logger.Error("Elasticsearch search returned an error", zap.String("status", res.Status()), zap.String("body", readBody(res.Body)))
		return nil, 0, fmt.Errorf("search request failed: status %s", res.Status())
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, 0, fmt.Errorf("failed to decode search response: %w", err)
	}

	categories := make([]Category, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		c, err := hit.Source.toCategory()
		if err != nil {
			s.logger.Warn("Skipping malformed search hit", zap.Error(err))
			continue
		}
		categories = append(categories, c)
	}
	return categories, parsed.Hits.Total.Value, nil
}

func (s *esSearcher) Index(ctx context.Context, category *Category) error {
	raw, err := json.Marshal(toDocument(category))
	if err != nil {
		return fmt.Errorf("failed to encode category document: %w", err)
	}

	res, err := esapi.IndexRequest{
		Index:      s.index,
		DocumentID: category.ID.String(),
		Body:       bytes.NewReader(raw),
	}.Do(ctx, s.client.Client)
	if err != nil {
		return fmt.Errorf("index request failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("index request for category %s failed: status %s", category.ID, res.Status())
	}
	return nil
}

type bulkResponse struct {
	Errors bool `json:"errors"`
	Items  []struct {
		Index struct {
			ID     string                 `json:"_id"`
			Status int                    `json:"status"`
			Error  map[string]interface{} `json:"error,omitempty"`
		} `json:"index"`
	} `json:"items"`
}

// BulkIndex indexes categories in one bulk request and reports how many
// documents Elasticsearch accepted.
func (s *esSearcher) BulkIndex(ctx context.Context, categories []Category) (int, error) {
	if len(categories) == 0 {
		return 0, nil
	}

	var body strings.Builder
	for i := range categories {
		doc, err := json.Marshal(toDocument(&categories[i]))
		if err != nil {
			return 0, fmt.Errorf("failed to encode category %s: %w", categories[i].ID, err)
		}
		fmt.Fprintf(&body, `{ "index" : { "_index" : %q, "_id" : %q } }`+"\n", s.index, categories[i].ID.String())
		body.Write(doc)
		body.WriteString("\n")
	}

	res, err := esapi.BulkRequest{Body: strings.NewReader(body.String())}.Do(ctx, s.client.Client)
	if err != nil {
		return 0, fmt.Errorf("bulk request failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return 0, fmt.Errorf("bulk request failed: status %s", res.Status())
	}

	var parsed bulkResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return 0, fmt.Errorf("failed to decode bulk response: %w", err)
	}

	indexed := 0
	for _, item := range parsed.Items {
		if item.Index.Error != nil {
			s.logger.Error("Failed to index category in bulk batch",
				zap.String("categoryID", item.Index.ID),
				zap.Any("error", item.Index.Error),
				zap.Int("status", item.Index.Status),
			)
			continue
		}
		indexed++
	}
	return indexed, nil
}

func readBody(r io.Reader) string {
	b, err := io.ReadAll(r)
	if err != nil {
		return fmt.Sprintf("failed to read response body: %v", err)
	}
	return string(b)
}

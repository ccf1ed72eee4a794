package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/elastic/go-elasticsearch/v8"
	"go.uber.org/zap"

	"grocery.GO/model/entity"
)

// Index is a full-text search backend for the product catalog.
type Index interface {
	Reindex(ctx context.Context, products []entity.Product) error
	Put(ctx context.Context, p entity.Product) error
	Remove(ctx context.Context, id uint) error
	// Search returns matching product ids, best match first.
	Search(ctx context.Context, query string) ([]uint, error)
}

const (
	DefaultIndexName = "grocery_catalog_product"
	searchSize       = 500
)

// document is the indexed shape of a product.
type document struct {
	ID          uint    `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Brand       string  `json:"brand"`
	Price       float64 `json:"price"`
	Rating      float64 `json:"rating"`
	InStock     bool    `json:"in_stock"`
}

func toDocument(p entity.Product) document {
	return document{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Category:    p.Category,
		Brand:       p.BrandName(),
		Price:       p.Price.InexactFloat64(),
		Rating:      p.Rating,
		InStock:     p.InStock,
	}
}

var indexMapping = map[string]interface{}{
	"mappings": map[string]interface{}{
		"properties": map[string]interface{}{
			"id":          map[string]interface{}{"type": "integer"},
			"title":       map[string]interface{}{"type": "text"},
			"description": map[string]interface{}{"type": "text"},
			"category":    map[string]interface{}{"type": "text", "fields": map[string]interface{}{"keyword": map[string]interface{}{"type": "keyword"}}},
			"brand":       map[string]interface{}{"type": "text", "fields": map[string]interface{}{"keyword": map[string]interface{}{"type": "keyword"}}},
			"price":       map[string]interface{}{"type": "scaled_float", "scaling_factor": 100},
			"rating":      map[string]interface{}{"type": "float"},
			"in_stock":    map[string]interface{}{"type": "boolean"},
		},
	},
}

// ElasticIndex stores products in one Elasticsearch index.
type ElasticIndex struct {
	client *elasticsearch.Client
	name   string
	log    *zap.Logger
}

// NewElasticIndex connects to the cluster at url. An empty name uses DefaultIndexName.
func NewElasticIndex(url, name string, log *zap.Logger) (*ElasticIndex, error) {
	if url == "" {
		return nil, errors.New("elasticsearch url is empty")
	}
	if name == "" {
		name = DefaultIndexName
	}
	if log == nil {
		log = zap.NewNop()
	}
	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{url}})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client: %w", err)
	}
	return &ElasticIndex{client: client, name: name, log: log}, nil
}

func (x *ElasticIndex) Name() string { return x.name }

// Reindex drops and recreates the index, then bulk-loads products.
func (x *ElasticIndex) Reindex(ctx context.Context, products []entity.Product) error {
	es := x.client
	res, err := es.Indices.Delete([]string{x.name},
		es.Indices.Delete.WithContext(ctx),
		es.Indices.Delete.WithIgnoreUnavailable(true),
	)
	if err != nil {
		return err
	}
	res.Body.Close()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("elasticsearch delete index: %s", res.String())
	}

	mapping, _ := json.Marshal(indexMapping)
	res, err = es.Indices.Create(x.name,
		es.Indices.Create.WithContext(ctx),
		es.Indices.Create.WithBody(bytes.NewReader(mapping)),
	)
	if err != nil {
		return err
	}
	res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("elasticsearch create index: %s", res.String())
	}
	if len(products) == 0 {
		return nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, p := range products {
		meta := map[string]interface{}{"index": map[string]interface{}{"_id": strconv.FormatUint(uint64(p.ID), 10)}}
		if err := enc.Encode(meta); err != nil {
			return err
		}
		if err := enc.Encode(toDocument(p)); err != nil {
			return err
		}
	}
	res, err = es.Bulk(&buf,
		es.Bulk.WithContext(ctx),
		es.Bulk.WithIndex(x.name),
		es.Bulk.WithRefresh("true"),
	)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("elasticsearch bulk: %s", res.String())
	}
	var bulk struct {
		Errors bool `json:"errors"`
	}
	if err := json.NewDecoder(res.Body).Decode(&bulk); err != nil {
		return err
	}
	if bulk.Errors {
		return errors.New("elasticsearch bulk: some documents were rejected")
	}
	x.log.Info("catalog reindexed", zap.String("index", x.name), zap.Int("products", len(products)))
	return nil
}

func (x *ElasticIndex) Put(ctx context.Context, p entity.Product) error {
	body, err := json.Marshal(toDocument(p))
	if err != nil {
		return err
	}
	es := x.client
	res, err := es.Index(x.name, bytes.NewReader(body),
		es.Index.WithContext(ctx),
		es.Index.WithDocumentID(strconv.FormatUint(uint64(p.ID), 10)),
		es.Index.WithRefresh("true"),
	)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("elasticsearch index product %d: %s", p.ID, res.String())
	}
	return nil
}

func (x *ElasticIndex) Remove(ctx context.Context, id uint) error {
	es := x.client
	res, err := es.Delete(x.name, strconv.FormatUint(uint64(id), 10),
		es.Delete.WithContext(ctx),
		es.Delete.WithRefresh("true"),
	)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("elasticsearch delete product %d: %s", id, res.String())
	}
	return nil
}

func (x *ElasticIndex) Search(ctx context.Context, query string) ([]uint, error) {
	body := map[string]interface{}{
		"size":    searchSize,
		"_source": []string{"id"},
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":     query,
				"fields":    []string{"title^3", "brand^2", "category^2", "description"},
				"fuzziness": "AUTO",
			},
		},
	}
	bodyBytes, _ := json.Marshal(body)

	es := x.client
	res, err := es.Search(
		es.Search.WithContext(ctx),
		es.Search.WithIndex(x.name),
		es.Search.WithBody(bytes.NewReader(bodyBytes)),
	)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch error: %s", res.String())
	}

	var esResp struct {
		Hits struct {
			Hits []struct {
				Source struct {
					ID uint `json:"id"`
				} `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&esResp); err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(esResp.Hits.Hits))
	for _, hit := range esResp.Hits.Hits {
		ids = append(ids, hit.Source.ID)
	}
	return ids, nil
}

package services

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"campusnest/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esutil"
	"github.com/goccy/go-json"
)

// HousingIndex is a full-text index over housings. The database stays the
// source of truth: a search only narrows which ids the SQL query may return,
// so stale documents never surface rows that no longer exist.
type HousingIndex interface {
	Index(ctx context.Context, housing *models.Housing) error
	Remove(ctx context.Context, ids ...uint) error
	Search(ctx context.Context, term string) ([]uint, error)
	Rebuild(ctx context.Context, housings []models.Housing) error
}

const maxIndexHits = 500

type housingDocument struct {
	ID       uint   `json:"id"`
	CampusID uint   `json:"campusId"`
	Type     string `json:"type"`
	Name     string `json:"name"`
	Address  string `json:"address"`
	County   string `json:"county"`
	State    string `json:"state"`
	Folded   string `json:"folded"`
}

func newHousingDocument(h *models.Housing) housingDocument {
	address := h.AddressLine1
	if h.AddressLine2 != nil && *h.AddressLine2 != "" {
		address += ", " + *h.AddressLine2
	}
	return housingDocument{
		ID:       h.ID,
		CampusID: h.CampusID,
		Type:     string(h.Type),
		Name:     h.Name,
		Address:  address,
		County:   h.County,
		State:    string(h.State),
		Folded:   NormalizeInput(h.Name + " " + address + " " + h.County),
	}
}

type ElasticHousingIndex struct {
	es    *elasticsearch.Client
	index string
}

func NewElasticHousingIndex(es *elasticsearch.Client, index string) *ElasticHousingIndex {
	return &ElasticHousingIndex{es: es, index: index}
}

func docID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func (x *ElasticHousingIndex) Index(ctx context.Context, housing *models.Housing) error {
	res, err := x.es.Index(x.index, esutil.NewJSONReader(newHousingDocument(housing)),
		x.es.Index.WithDocumentID(docID(housing.ID)),
		x.es.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("index housing %d: %w", housing.ID, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index housing %d: %s", housing.ID, res.Status())
	}
	return nil
}

// Remove deletes documents by housing id. Missing documents are not an error.
func (x *ElasticHousingIndex) Remove(ctx context.Context, ids ...uint) error {
	for _, id := range ids {
		res, err := x.es.Delete(x.index, docID(id), x.es.Delete.WithContext(ctx))
		if err != nil {
			return fmt.Errorf("remove housing %d: %w", id, err)
		}
		res.Body.Close()
		if res.IsError() && res.StatusCode != http.StatusNotFound {
			return fmt.Errorf("remove housing %d: %s", id, res.Status())
		}
	}
	return nil
}

// Search returns the ids of housings matching term, best match first.
func (x *ElasticHousingIndex) Search(ctx context.Context, term string) ([]uint, error) {
	query := map[string]interface{}{
		"size":    maxIndexHits,
		"_source": false,
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":     NormalizeInput(term),
				"fields":    []string{"name^3", "folded", "address", "county"},
				"fuzziness": "AUTO",
			},
		},
	}
	res, err := x.es.Search(
		x.es.Search.WithContext(ctx),
		x.es.Search.WithIndex(x.index),
		x.es.Search.WithBody(esutil.NewJSONReader(query)),
	)
	if err != nil {
		return nil, fmt.Errorf("search housings: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("search housings: %s", res.Status())
	}

	var body struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	ids := make([]uint, 0, len(body.Hits.Hits))
	for _, hit := range body.Hits.Hits {
		id, err := strconv.ParseUint(hit.ID, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}

// Rebuild drops the index and bulk-loads housings into a fresh one.
func (x *ElasticHousingIndex) Rebuild(ctx context.Context, housings []models.Housing) error {
	res, err := x.es.Indices.Delete([]string{x.index},
		x.es.Indices.Delete.WithContext(ctx),
		x.es.Indices.Delete.WithIgnoreUnavailable(true),
	)
	if err != nil {
		return fmt.Errorf("drop index %s: %w", x.index, err)
	}
	res.Body.Close()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("drop index %s: %s", x.index, res.Status())
	}
	if len(housings) == 0 {
		return nil
	}

	var buf bytes.Buffer
	for i := range housings {
		fmt.Fprintf(&buf, `{"index":{"_id":"%s"}}`+"\n", docID(housings[i].ID))
		doc, err := json.Marshal(newHousingDocument(&housings[i]))
		if err != nil {
			return fmt.Errorf("encode housing %d: %w", housings[i].ID, err)
		}
		buf.Write(doc)
		buf.WriteByte('\n')
	}

	res, err = x.es.Bulk(&buf,
		x.es.Bulk.WithContext(ctx),
		x.es.Bulk.WithIndex(x.index),
		x.es.Bulk.WithRefresh("true"),
	)
	if err != nil {
		return fmt.Errorf("bulk index housings: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("bulk index housings: %s", res.Status())
	}

	var bulk struct {
		Errors bool `json:"errors"`
		Items  []map[string]struct {
			ID    string          `json:"_id"`
			Error json.RawMessage `json:"error"`
		} `json:"items"`
	}
	if err := json.NewDecoder(res.Body).Decode(&bulk); err != nil {
		return fmt.Errorf("decode bulk response: %w", err)
	}
	if !bulk.Errors {
		return nil
	}
	var failed []string
	for _, item := range bulk.Items {
		for _, op := range item {
			if len(op.Error) > 0 {
				failed = append(failed, op.ID)
			}
		}
	}
	return fmt.Errorf("bulk index housings: %d documents failed (%s)", len(failed), strings.Join(failed, ", "))
}

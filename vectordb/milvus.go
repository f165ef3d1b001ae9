package vectordb

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"

	"github.com/HasinduNiran/Nephro-AI-sub000/config"
	"github.com/HasinduNiran/Nephro-AI-sub000/schema"
)

// MilvusStore backs the retriever with a Milvus collection. Documents use the
// fields id (varchar, pk), content (varchar), metadata (varchar, JSON-encoded)
// and vector (float_vector).
type MilvusStore struct {
	cli        client.Client
	collection string
	dimensions int
}

func NewMilvusStore(cfg *config.VectorDBConfig, dimensions int) (*MilvusStore, error) {
	host := cfg.Host
	if host == "" {
		host = "localhost"
	}
	port := cfg.Port
	if port == 0 {
		port = 19530
	}
	cli, err := client.NewClient(context.Background(), client.Config{
		Address:  fmt.Sprintf("%s:%d", host, port),
		Username: cfg.Username,
		Password: cfg.Password,
		DBName:   cfg.Database,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to milvus failed: %w", err)
	}
	return &MilvusStore{cli: cli, collection: cfg.Collection, dimensions: dimensions}, nil
}

func (s *MilvusStore) SearchDocs(ctx context.Context, vector []float32, opts *schema.SearchOptions) ([]schema.SearchResult, error) {
	topK := 10
	threshold := 0.0
	expr := ""
	if opts != nil {
		if opts.TopK > 0 {
			topK = opts.TopK
		}
		threshold = opts.Threshold
		expr = filterExpr(opts.Filter)
	}
	sp, err := entity.NewIndexHNSWSearchParam(64)
	if err != nil {
		return nil, fmt.Errorf("build search param failed: %w", err)
	}
	res, err := s.cli.Search(ctx, s.collection, nil, expr,
		[]string{"content", "metadata"},
		[]entity.Vector{entity.FloatVector(vector)},
		"vector", entity.IP, topK, sp)
	if err != nil {
		return nil, fmt.Errorf("milvus search failed: %w", err)
	}

	var results []schema.SearchResult
	for _, rs := range res {
		contentCol := rs.Fields.GetColumn("content")
		metadataCol := rs.Fields.GetColumn("metadata")
		for i := 0; i < rs.ResultCount; i++ {
			id, err := rs.IDs.GetAsString(i)
			if err != nil {
				continue
			}
			doc := schema.Document{ID: id}
			if contentCol != nil {
				if v, err := contentCol.GetAsString(i); err == nil {
					doc.Content = v
				}
			}
			if metadataCol != nil {
				if raw, err := metadataCol.GetAsString(i); err == nil && raw != "" {
					var meta map[string]interface{}
					if json.Unmarshal([]byte(raw), &meta) == nil {
						doc.Metadata = meta
					}
				}
			}
			score := float64(rs.Scores[i])
			if threshold > 0 && score < threshold {
				continue
			}
			results = append(results, schema.SearchResult{Document: doc, Score: score})
		}
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	return results, nil
}

// filterExpr renders the portable filter form into a Milvus boolean expression.
// Supported shapes: {"field": "value"} and {"field": {"$in": [v1, v2]}}.
func filterExpr(filter map[string]interface{}) string {
	if len(filter) == 0 {
		return ""
	}
	keys := make([]string, 0, len(filter))
	for k := range filter {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	clauses := make([]string, 0, len(keys))
	for _, field := range keys {
		switch v := filter[field].(type) {
		case string:
			clauses = append(clauses, fmt.Sprintf("%s == %q", field, v))
		case map[string]interface{}:
			if in, ok := v["$in"].([]string); ok {
				quoted := make([]string, 0, len(in))
				for _, item := range in {
					quoted = append(quoted, fmt.Sprintf("%q", item))
				}
				clauses = append(clauses, fmt.Sprintf("%s in [%s]", field, strings.Join(quoted, ", ")))
			}
		}
	}
	return strings.Join(clauses, " and ")
}

package nlu

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/HasinduNiran/Nephro-AI-sub000/common/httpx"
	"github.com/HasinduNiran/Nephro-AI-sub000/schema"
)

// Classifier is the local zero-shot intent classifier: embedding similarity
// against English anchor phrases per intent category. The model itself runs
// out of process; the engine only consumes its analysis.
type Classifier interface {
	Classify(ctx context.Context, text string) (*schema.Analysis, error)
}

// HTTPClassifier posts the query to a classifier sidecar.
// Request body:  {"text":"..."}
// Response body: {"intent":"ask_diet","confidence":0.87,
//                 "translated_query":"...","entities":{"symptom":["swelling"]}}
type HTTPClassifier struct {
	Endpoint string
	Client   *httpx.Client
}

type classifyReq struct {
	Text string `json:"text"`
}

func (c *HTTPClassifier) Classify(ctx context.Context, text string) (*schema.Analysis, error) {
	if c.Endpoint == "" {
		return nil, fmt.Errorf("classifier endpoint not configured")
	}
	bs, _ := json.Marshal(classifyReq{Text: text})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(bs))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.Client == nil {
		c.Client = httpx.NewFromConfig(nil)
	}
	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("classifier returned status %d", resp.StatusCode)
	}
	var analysis schema.Analysis
	if err := json.NewDecoder(resp.Body).Decode(&analysis); err != nil {
		return nil, fmt.Errorf("decode classifier response: %w", err)
	}
	return &analysis, nil
}

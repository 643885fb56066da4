// Package nlu provides the Rasa NLU classifier adapter.
package nlu

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gls-pallavi/Wellbot/internal/domain/entities"
)

// RasaClassifier implements ports.Classifier against a Rasa server's
// /model/parse endpoint.
type RasaClassifier struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewRasaClassifier creates a classifier. An empty baseURL targets a local
// Rasa server; a non-positive timeout uses 5s.
func NewRasaClassifier(baseURL, token string, timeout time.Duration) *RasaClassifier {
	if baseURL == "" {
		baseURL = "http://localhost:5005"
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &RasaClassifier{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: timeout},
	}
}

type parseRequest struct {
	Text string `json:"text"`
}

type parseResponse struct {
	Intent *struct {
		Name       string  `json:"name"`
		Confidence float64 `json:"confidence"`
	} `json:"intent"`
	Entities []struct {
		Entity string          `json:"entity"`
		Value  json.RawMessage `json:"value"`
	} `json:"entities"`
}

// Classify sends text to Rasa and returns the top intent with its entities.
func (c *RasaClassifier) Classify(ctx context.Context, text string) (entities.Classification, error) {
	jsonData, err := json.Marshal(parseRequest{Text: text})
	if err != nil {
		return entities.Classification{}, fmt.Errorf("marshaling request: %w", err)
	}

	endpoint := c.baseURL + "/model/parse"
	if c.token != "" {
		endpoint += "?" + url.Values{"token": {c.token}}.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return entities.Classification{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return entities.Classification{}, fmt.Errorf("calling Rasa: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return entities.Classification{}, fmt.Errorf("Rasa returned status %d", resp.StatusCode)
	}

	var parsed parseResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return entities.Classification{}, fmt.Errorf("decoding response: %w", err)
	}

	var out entities.Classification
	if parsed.Intent != nil {
		out.Intent = parsed.Intent.Name
		out.Confidence = parsed.Intent.Confidence
	}
	for _, e := range parsed.Entities {
		value := entityValue(e.Value)
		if value == "" {
			continue
		}
		out.Entities = append(out.Entities, entities.ExtractedEntity{Entity: e.Entity, Value: value})
	}
	return out, nil
}

// entityValue flattens a Rasa entity value. Extractors such as duckling
// emit numbers or objects; those are kept as their JSON text.
func entityValue(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

package nlu

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gls-pallavi/Wellbot/internal/domain/entities"
)

func TestRasaClassifier_Classify(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/model/parse", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "I have a mild headache", body["text"])

		w.Write([]byte(`{
			"text": "I have a mild headache",
			"intent": {"name": "headache", "confidence": 0.93},
			"entities": [
				{"entity": "severity", "value": "mild", "start": 9, "end": 13},
				{"entity": "days", "value": 3},
				{"entity": "empty", "value": null}
			]
		}`))
	}))
	defer server.Close()

	c := NewRasaClassifier(server.URL, "", time.Second)
	got, err := c.Classify(context.Background(), "I have a mild headache")

	require.NoError(t, err)
	assert.Equal(t, "headache", got.Intent)
	assert.InDelta(t, 0.93, got.Confidence, 1e-9)
	assert.Equal(t, []entities.ExtractedEntity{
		{Entity: "severity", Value: "mild"},
		{Entity: "days", Value: "3"},
	}, got.Entities)
}

func TestRasaClassifier_NoIntent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"text": "???", "intent": null, "entities": []}`))
	}))
	defer server.Close()

	got, err := NewRasaClassifier(server.URL, "", time.Second).Classify(context.Background(), "???")

	require.NoError(t, err)
	assert.Empty(t, got.Intent)
	assert.Empty(t, got.EntityValues())
}

func TestRasaClassifier_SendsToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.URL.Query().Get("token"))
		w.Write([]byte(`{"intent": {"name": "greeting", "confidence": 1}}`))
	}))
	defer server.Close()

	got, err := NewRasaClassifier(server.URL+"/", "secret", time.Second).Classify(context.Background(), "hi")

	require.NoError(t, err)
	assert.Equal(t, "greeting", got.Intent)
}

func TestRasaClassifier_EscapesToken(t *testing.T) {
	token := "a&b=c #d+e"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/model/parse", r.URL.Path)
		assert.Equal(t, []string{token}, r.URL.Query()["token"])
		assert.Len(t, r.URL.Query(), 1)
		w.Write([]byte(`{"intent": {"name": "greeting", "confidence": 1}}`))
	}))
	defer server.Close()

	_, err := NewRasaClassifier(server.URL, token, time.Second).Classify(context.Background(), "hi")

	require.NoError(t, err)
}

func TestRasaClassifier_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := NewRasaClassifier(server.URL, "", time.Second).Classify(context.Background(), "x")

	assert.Error(t, err)
}

func TestRasaClassifier_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	_, err := NewRasaClassifier(server.URL, "", 20*time.Millisecond).Classify(context.Background(), "x")

	assert.Error(t, err)
}

func TestRasaClassifier_Defaults(t *testing.T) {
	c := NewRasaClassifier("", "", 0)

	assert.Equal(t, "http://localhost:5005", c.baseURL)
	assert.Equal(t, 5*time.Second, c.client.Timeout)
}

// Package extraction calls a hosted large-language-model API to turn an
// uploaded broker PDF into a structured extraction batch. The result is
// never trusted directly: it feeds the reconciler and the review workflow,
// and only an explicit user confirmation lands anything in the session.
package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/epeers/transferdesk/internal/models"
	log "github.com/sirupsen/logrus"
	"google.golang.org/genai"
)

const extractionPrompt = `You are given a broker statement PDF describing share transfers.
Extract every transfer into this exact JSON shape, with no commentary:

{
  "metadata": {
    "source": "<document title or broker name>",
    "confidence_score": <your overall confidence, 0 to 1>,
    "extraction_timestamp": "<RFC3339 timestamp>"
  },
  "entries": [
    {
      "identifiers": {"ticker": "", "isin": "", "instrument_id": 0, "name": ""},
      "portfolio_data": {
        "platform": "EE or SX",
        "trust_account_id": "<digits>",
        "quantity": <integer, negative for transfers out>,
        "base_cost": <decimal>,
        "settlement_date": "YYYY-MM-DD",
        "last_price": <decimal>,
        "broker_from": "<broker id>",
        "broker_to": "<broker id>"
      },
      "field_confidence": {"quantity": 0.9}
    }
  ]
}

Omit identifier fields you cannot find rather than guessing. Use the
document's own values verbatim; do not normalize quantities or prices.`

// Client extracts share-transfer batches from PDFs via the Gemini API.
type Client struct {
	client *genai.Client
	model  string
}

// NewClient creates an extraction client for the given model.
func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &Client{client: c, model: model}, nil
}

// ExtractTransfers sends the PDF to the model and decodes its reply into an
// extraction batch. The batch is raw extractor output: matching, validation
// and the review gate all happen downstream.
func (c *Client) ExtractTransfers(ctx context.Context, pdf []byte) (*models.ExtractionBatch, error) {
	contents := []*genai.Content{{
		Parts: []*genai.Part{
			{InlineData: &genai.Blob{MIMEType: "application/pdf", Data: pdf}},
			{Text: extractionPrompt},
		},
	}}
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("extraction request failed: %w", err)
	}

	batch, err := DecodeBatch([]byte(resp.Text()))
	if err != nil {
		return nil, err
	}

	if batch.Metadata.Source == "" {
		batch.Metadata.Source = "gemini:" + c.model
	}
	if batch.Metadata.ExtractedAt.IsZero() {
		batch.Metadata.ExtractedAt = time.Now().UTC()
	}

	log.Infof("Extracted %d entries from PDF via %s", len(batch.Entries), c.model)
	return batch, nil
}

// DecodeBatch parses a model reply into an ExtractionBatch. Split out from
// the network call so payload handling tests without an API key. Replies
// wrapped in markdown code fences are tolerated; models still emit them
// occasionally despite the JSON response MIME type.
func DecodeBatch(raw []byte) (*models.ExtractionBatch, error) {
	payload := bytes.TrimSpace(raw)
	payload = bytes.TrimPrefix(payload, []byte("```json"))
	payload = bytes.TrimPrefix(payload, []byte("```"))
	payload = bytes.TrimSuffix(payload, []byte("```"))
	payload = bytes.TrimSpace(payload)

	var batch models.ExtractionBatch
	if err := json.Unmarshal(payload, &batch); err != nil {
		return nil, fmt.Errorf("failed to decode extraction payload: %w", err)
	}
	return &batch, nil
}

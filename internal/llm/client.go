package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/openlettings/biddocs/constants"
	"github.com/openlettings/biddocs/internal/common"
)

// maxPromptChars caps how much document text goes into the prompt.
const maxPromptChars = 8000

// ExtractFields pulls the document's text and asks the model for the
// document type's field set, constrained by a JSON schema. The returned
// map always contains every expected key.
func (c *Client) ExtractFields(ctx context.Context, path string, docType constants.DocumentType) (map[string]any, error) {
	rid := uuid.New().String()
	start := time.Now()

	schema, ok := c.fields.Resolve(docType)
	if !ok {
		schema, ok = fallbackSchemas[docType]
	}
	if !ok {
		return nil, common.NotFoundError(fmt.Sprintf("no field schema for document type %q", docType))
	}

	text, _, err := c.text.ExtractText(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("extract text for llm: %w", err)
	}

	c.logger.Info("llm.extract.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"doc_type", docType,
		"text_len", len(text),
	)

	jsonSchema := BuildFieldJSONSchema(schema)
	body := map[string]any{
		"model":           c.cfg.Model,
		"temperature":     c.cfg.Temperature,
		"response_format": map[string]any{"type": "json_object"},
		"messages": []map[string]any{
			{"role": "system", "content": buildSystemPrompt(docType)},
			{"role": "user", "content": buildUserPrompt(filepath.Base(path), text) + "\n\nReturn ONLY JSON that matches the provided schema."},
			{"role": "system", "content": "JSON Schema:\n" + mustJSON(jsonSchema)},
		},
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	raw, httpErr := c.post(ctx, endpoint, body)
	if httpErr != nil {
		c.logger.Error("llm.extract.http_error",
			"req_id", rid, "error", httpErr,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, httpErr
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		c.logger.Error("llm.extract.decode_error",
			"req_id", rid, "error", err, "raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, fmt.Errorf("decode completion response: %w", err)
	}
	if len(cc.Choices) == 0 {
		c.logger.Error("llm.extract.no_choices",
			"req_id", rid, "raw", string(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, fmt.Errorf("no choices in completion response")
	}
	content := []byte(StripCodeFence(cc.Choices[0].Message.Content))

	if err := ValidateJSONAgainstSchema(jsonSchema, content); err != nil {
		c.logger.Error("llm.extract.schema_validation_failed",
			"req_id", rid, "error", err, "content", string(content),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	var out map[string]any
	if err := json.Unmarshal(content, &out); err != nil {
		c.logger.Error("llm.extract.unmarshal_failed",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, fmt.Errorf("unmarshal fields: %w", err)
	}
	out = ensureFields(out, schema.Fields)

	c.logger.Info("llm.extract.ok",
		"req_id", rid,
		"doc_type", docType,
		"fields", len(out),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}

func (c *Client) post(ctx context.Context, url string, body map[string]any) ([]byte, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("completion http error: %w", err)
	}
	defer func(Body io.ReadCloser) {
		err := Body.Close()
		if err != nil {
			c.logger.Warn("completion response body close error", "error", err)
		}
	}(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		buf := new(bytes.Buffer)
		_, _ = buf.ReadFrom(resp.Body)
		return nil, common.InternalErrorf("completion status %d: %s", resp.StatusCode, buf.String())
	}

	buf := new(bytes.Buffer)
	_, _ = buf.ReadFrom(resp.Body)
	return buf.Bytes(), nil
}

func buildSystemPrompt(docType constants.DocumentType) string {
	parts := []string{
		"You are a highway construction bid document parser. Return ONLY JSON that matches the JSON Schema provided.",
		"The document is a " + strings.ReplaceAll(string(docType), "_", " ") + ".",
		"Use ISO-8601 dates (YYYY-MM-DD).",
		"Monetary amounts must be plain numbers without currency symbols or thousands separators.",
		"Contract numbers look like DA00123 or an eight digit number.",
		"Include every field from the schema; use null when the document does not contain it.",
	}
	return strings.Join(parts, " ")
}

func buildUserPrompt(filename, text string) string {
	var b strings.Builder
	b.WriteString("Filename: ")
	b.WriteString(filename)
	b.WriteString("\n\nDocument text (first ~8k chars):\n")
	if len(text) > maxPromptChars {
		b.WriteString(text[:maxPromptChars])
	} else {
		b.WriteString(text)
	}
	return b.String()
}

func mustJSON(v any) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"symptom-quiz-service/internal/domain"
)

// MetaobjectSource loads intake questions authored as quiz_question
// metaobjects via the Storefront API. It is the "remote" catalog source;
// the built-in static list is the fallback.
type MetaobjectSource struct {
	endpoint string
	token    string
	httpc    *http.Client
}

func NewMetaobjectSource(shopURL, apiVersion, storefrontToken string) *MetaobjectSource {
	if apiVersion == "" {
		apiVersion = defaultAPIVersion
	}
	return &MetaobjectSource{
		endpoint: shopURL + "/api/" + apiVersion + "/graphql.json",
		token:    storefrontToken,
		httpc:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (s *MetaobjectSource) LoadQuestions(ctx context.Context) ([]domain.Question, error) {
	const query = `
		query {
			metaobjects(type: "quiz_question", first: 100) {
				edges { node { id fields { key value } } }
			}
		}`

	body, _ := json.Marshal(map[string]any{"query": query})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("X-Shopify-Storefront-Access-Token", s.token)
	}

	resp, err := s.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("storefront request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("storefront error: %s", resp.Status)
	}

	var envelope struct {
		Data struct {
			Metaobjects struct {
				Edges []struct {
					Node struct {
						Fields []struct {
							Key   string `json:"key"`
							Value string `json:"value"`
						} `json:"fields"`
					} `json:"node"`
				} `json:"edges"`
			} `json:"metaobjects"`
		} `json:"data"`
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode storefront response: %w", err)
	}
	if len(envelope.Errors) > 0 {
		return nil, fmt.Errorf("storefront graphql error: %s", envelope.Errors[0].Message)
	}

	var questions []domain.Question
	for _, edge := range envelope.Data.Metaobjects.Edges {
		fields := map[string]string{}
		for _, f := range edge.Node.Fields {
			fields[f.Key] = f.Value
		}
		q := domain.Question{
			ID:          fields["question_id"],
			Type:        fields["question_type"],
			Text:        fields["question_text"],
			Subtitle:    fields["question_subtitle"],
			Placeholder: fields["placeholder"],
			Category:    fields["category"],
			Required:    fields["required"] == "true",
		}
		if q.Category == "" {
			q.Category = "general"
		}
		q.Order, _ = strconv.Atoi(fields["order"])
		if raw := fields["options"]; raw != "" {
			_ = json.Unmarshal([]byte(raw), &q.Options)
		}
		questions = append(questions, q)
	}
	return questions, nil
}

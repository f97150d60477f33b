package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"symptom-quiz-service/internal/domain"
)

const (
	defaultAPIVersion = "2024-01"
	metafieldNS       = "alledrops"
	historyKey        = "quiz_history"
)

// Customer is the slice of the Admin API customer node we use.
type Customer struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// AdminClient talks GraphQL to the commerce Admin API. It resolves customers
// by email (creating them when absent) and writes the quiz summary
// metafields plus the bounded history list in one batched mutation.
type AdminClient struct {
	endpoint string
	token    string
	httpc    *http.Client
}

func NewAdminClient(storeDomain, token, apiVersion string) *AdminClient {
	if apiVersion == "" {
		apiVersion = defaultAPIVersion
	}
	return NewAdminClientWithEndpoint(
		"https://"+storeDomain+"/admin/api/"+apiVersion+"/graphql.json", token)
}

// NewAdminClientWithEndpoint points the client at an explicit GraphQL URL
// (used by tests to target a stub server).
func NewAdminClientWithEndpoint(endpoint, token string) *AdminClient {
	return &AdminClient{
		endpoint: endpoint,
		token:    token,
		httpc:    &http.Client{Timeout: 15 * time.Second},
	}
}

// UpsertQuizSummary resolves the customer, merges the new history entry into
// the stored list, and writes the five scalar summary fields plus the
// history in one metafieldsSet call. Returns the customer ID.
//
// The read-merge-write on the history field has no conditional update; two
// concurrent submissions for the same customer are last-write-wins.
func (c *AdminClient) UpsertQuizSummary(ctx context.Context, sum domain.QuizSummary) (string, error) {
	customer, err := c.FindOrCreateCustomer(ctx, sum.Email)
	if err != nil {
		return "", err
	}

	date := sum.Date
	if date == "" {
		date = time.Now().UTC().Format(time.RFC3339)
	}
	history := c.quizHistory(ctx, customer.ID)
	history = domain.MergeHistory(history, domain.HistoryEntry{
		ProfileID: sum.ProfileID,
		Date:      date,
		Score:     sum.Score,
		Severity:  sum.Severity,
		Region:    sum.Region,
	})
	historyJSON, err := json.Marshal(history)
	if err != nil {
		return "", fmt.Errorf("marshal history: %w", err)
	}

	if err := c.setMetafields(ctx, customer.ID, sum, date, string(historyJSON)); err != nil {
		return "", err
	}
	return customer.ID, nil
}

// FindOrCreateCustomer looks a customer up by email and creates one when
// the search comes back empty.
func (c *AdminClient) FindOrCreateCustomer(ctx context.Context, email string) (Customer, error) {
	const searchQuery = `
		query findCustomer($email: String!) {
			customers(first: 1, query: $email) {
				edges { node { id email } }
			}
		}`

	var search struct {
		Customers struct {
			Edges []struct {
				Node Customer `json:"node"`
			} `json:"edges"`
		} `json:"customers"`
	}
	if err := c.graphql(ctx, searchQuery, map[string]any{"email": email}, &search); err != nil {
		return Customer{}, err
	}
	if len(search.Customers.Edges) > 0 {
		return search.Customers.Edges[0].Node, nil
	}

	const createMutation = `
		mutation createCustomer($input: CustomerInput!) {
			customerCreate(input: $input) {
				customer { id email }
				userErrors { field message }
			}
		}`

	var create struct {
		CustomerCreate struct {
			Customer   *Customer   `json:"customer"`
			UserErrors []userError `json:"userErrors"`
		} `json:"customerCreate"`
	}
	input := map[string]any{"email": email, "acceptsMarketing": false}
	if err := c.graphql(ctx, createMutation, map[string]any{"input": input}, &create); err != nil {
		return Customer{}, err
	}
	if len(create.CustomerCreate.UserErrors) > 0 {
		return Customer{}, fmt.Errorf("%w: %s", domain.ErrCustomerRejected, create.CustomerCreate.UserErrors[0].Message)
	}
	if create.CustomerCreate.Customer == nil {
		return Customer{}, fmt.Errorf("%w: no customer returned", domain.ErrCustomerRejected)
	}
	return *create.CustomerCreate.Customer, nil
}

// quizHistory reads the stored history list. A missing or malformed value
// resets to empty rather than failing the whole write.
func (c *AdminClient) quizHistory(ctx context.Context, customerID string) []domain.HistoryEntry {
	const query = `
		query quizHistory($id: ID!, $namespace: String!, $key: String!) {
			customer(id: $id) {
				metafield(namespace: $namespace, key: $key) { value }
			}
		}`

	var resp struct {
		Customer *struct {
			Metafield *struct {
				Value string `json:"value"`
			} `json:"metafield"`
		} `json:"customer"`
	}
	vars := map[string]any{"id": customerID, "namespace": metafieldNS, "key": historyKey}
	if err := c.graphql(ctx, query, vars, &resp); err != nil {
		return nil
	}
	if resp.Customer == nil || resp.Customer.Metafield == nil {
		return nil
	}
	var history []domain.HistoryEntry
	if err := json.Unmarshal([]byte(resp.Customer.Metafield.Value), &history); err != nil {
		return nil
	}
	return history
}

func (c *AdminClient) setMetafields(ctx context.Context, customerID string, sum domain.QuizSummary, date, historyJSON string) error {
	const mutation = `
		mutation setCustomerMetafields($metafields: [MetafieldsSetInput!]!) {
			metafieldsSet(metafields: $metafields) {
				metafields { id namespace key value }
				userErrors { field message }
			}
		}`

	metafield := func(key, typ, value string) map[string]any {
		return map[string]any{
			"ownerId":   customerID,
			"namespace": metafieldNS,
			"key":       key,
			"type":      typ,
			"value":     value,
		}
	}
	metafields := []map[string]any{
		metafield("symptom_profile_id", "single_line_text_field", sum.ProfileID),
		metafield("quiz_score", "number_integer", fmt.Sprintf("%d", sum.Score)),
		metafield("quiz_region", "single_line_text_field", sum.Region),
		metafield("quiz_date", "date_time", date),
		metafield("severity_level", "single_line_text_field", sum.Severity),
		metafield(historyKey, "json", historyJSON),
	}

	var resp struct {
		MetafieldsSet struct {
			UserErrors []userError `json:"userErrors"`
		} `json:"metafieldsSet"`
	}
	if err := c.graphql(ctx, mutation, map[string]any{"metafields": metafields}, &resp); err != nil {
		return err
	}
	if len(resp.MetafieldsSet.UserErrors) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrCustomerRejected, resp.MetafieldsSet.UserErrors[0].Message)
	}
	return nil
}

// Name implements app.SubmissionSink.
func (c *AdminClient) Name() string { return "customer summary" }

// Deliver implements app.SubmissionSink by projecting the submission onto
// the summary payload and writing it to the customer record.
func (c *AdminClient) Deliver(ctx context.Context, _ domain.Catalog, rec domain.Submission) error {
	_, err := c.UpsertQuizSummary(ctx, domain.QuizSummary{
		Email:     rec.CustomerEmail,
		ProfileID: rec.ProfileID,
		Score:     rec.Score,
		Region:    rec.Region,
		Date:      rec.SubmittedAt.UTC().Format(time.RFC3339),
		Severity:  rec.Severity,
	})
	return err
}

type userError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
}

func (c *AdminClient) graphql(ctx context.Context, query string, variables map[string]any, out any) error {
	body, err := json.Marshal(map[string]any{"query": query, "variables": variables})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Access-Token", c.token)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("admin api request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("admin api error: %s", resp.Status)
	}

	var envelope struct {
		Data   json.RawMessage `json:"data"`
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decode admin api response: %w", err)
	}
	if len(envelope.Errors) > 0 {
		return fmt.Errorf("admin api graphql error: %s", envelope.Errors[0].Message)
	}
	if out != nil {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("decode admin api data: %w", err)
		}
	}
	return nil
}

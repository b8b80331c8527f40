package migration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/obrastudio/site-backend/database"
)

// Client drives the target system through its public HTTP surface, exactly
// like the admin UI does.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResult struct {
	Token string `json:"token"`
	Error string `json:"error"`
}

// Login authenticates once; the token is held for the run's duration.
func (c *Client) Login(ctx context.Context, email, password string) error {
	body, err := json.Marshal(loginPayload{Email: email, Password: password})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/auth/login", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("login request: %w", err)
	}
	defer resp.Body.Close()

	var result loginResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decoding login response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("login failed with status %d: %s", resp.StatusCode, result.Error)
	}
	if result.Token == "" {
		return fmt.Errorf("login succeeded but returned no token")
	}

	c.token = result.Token
	return nil
}

type queryResult struct {
	Data  json.RawMessage `json:"data"`
	Error *string         `json:"error"`
}

// Query posts a declarative request to /api/db/{table}/query and returns the
// raw data payload. Any non-2xx status or envelope error is fatal to the run.
func (c *Client) Query(ctx context.Context, table string, req database.Request) (json.RawMessage, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/api/db/%s/query", c.baseURL, table), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("query request for %s: %w", table, err)
	}
	defer resp.Body.Close()

	var result queryResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding query response for %s: %w", table, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := ""
		if result.Error != nil {
			msg = *result.Error
		}
		return nil, fmt.Errorf("%s %s failed with status %d: %s", req.Operation, table, resp.StatusCode, msg)
	}
	if result.Error != nil {
		return nil, fmt.Errorf("%s %s failed: %s", req.Operation, table, *result.Error)
	}
	return result.Data, nil
}

// InsertOne inserts a single document and returns its newly assigned id.
func (c *Client) InsertOne(ctx context.Context, table string, doc Row) (string, error) {
	data, err := c.Query(ctx, table, database.Request{
		Operation: string(database.OpInsert),
		Payload:   doc,
		Returning: true,
		Single:    true,
	})
	if err != nil {
		return "", err
	}

	var inserted struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &inserted); err != nil {
		return "", fmt.Errorf("decoding inserted %s document: %w", table, err)
	}
	if inserted.ID == "" {
		return "", fmt.Errorf("insert into %s returned no id", table)
	}
	return inserted.ID, nil
}

// InsertBatch bulk-inserts a batch of documents without echoing them back.
func (c *Client) InsertBatch(ctx context.Context, table string, docs []Row) error {
	if len(docs) == 0 {
		return nil
	}
	_, err := c.Query(ctx, table, database.Request{
		Operation: string(database.OpInsert),
		Payload:   docs,
	})
	return err
}

// DeleteAll wipes a table using the explicit all-rows confirmation flag.
func (c *Client) DeleteAll(ctx context.Context, table string) error {
	_, err := c.Query(ctx, table, database.Request{
		Operation: string(database.OpDelete),
		All:       true,
	})
	return err
}

// CountRemaining selects a table and reports how many rows it holds; used to
// verify the reset before any insert begins.
func (c *Client) CountRemaining(ctx context.Context, table string) (int, error) {
	data, err := c.Query(ctx, table, database.Request{
		Operation: string(database.OpSelect),
		Select:    "id",
	})
	if err != nil {
		return 0, err
	}
	var rows []json.RawMessage
	if err := json.Unmarshal(data, &rows); err != nil {
		return 0, fmt.Errorf("decoding %s rows: %w", table, err)
	}
	return len(rows), nil
}

package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/hashicorp/go-hclog"

	"sheet-quiz/internal/domain"
)

const statusSuccess = "success"

// Client reads question lists from a spreadsheet web app.
// GET {baseURL}?sheet={sourceKey} answers {"status":"success","data":[{Questions, Option1..4, Answer}]}.
type Client struct {
	baseURL string
	http    *http.Client
	log     hclog.Logger
}

func NewClient(baseURL string, httpClient *http.Client, logger hclog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Client{baseURL: baseURL, http: httpClient, log: logger}
}

// Row mirrors one spreadsheet row.
type Row struct {
	Question cell `json:"Questions"`
	Option1  cell `json:"Option1"`
	Option2  cell `json:"Option2"`
	Option3  cell `json:"Option3"`
	Option4  cell `json:"Option4"`
	Answer   cell `json:"Answer"`
}

type apiResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    []Row  `json:"data"`
}

func (c *Client) FetchQuestions(ctx context.Context, sourceKey string) ([]domain.Question, error) {
	reqURL, err := c.sheetURL(sourceKey)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTransport, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: sheet api returned status %d", domain.ErrTransport, resp.StatusCode)
	}

	var payload apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", domain.ErrTransport, err)
	}
	if payload.Status != statusSuccess {
		c.log.Debug("sheet api reported failure", "sheet", sourceKey, "status", payload.Status, "message", payload.Message)
		return nil, fmt.Errorf("%w for sheet %q (status %q)", domain.ErrEmptyResult, sourceKey, payload.Status)
	}
	if len(payload.Data) == 0 {
		return nil, fmt.Errorf("%w for sheet %q", domain.ErrEmptyResult, sourceKey)
	}

	questions := make([]domain.Question, 0, len(payload.Data))
	for i, row := range payload.Data {
		q := row.question()
		if err := q.Validate(); err != nil {
			return nil, fmt.Errorf("sheet %q row %d: %w", sourceKey, i+1, err)
		}
		questions = append(questions, q)
	}
	c.log.Debug("fetched questions", "sheet", sourceKey, "count", len(questions))
	return questions, nil
}

func (c *Client) sheetURL(sourceKey string) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("%w: base url: %v", domain.ErrTransport, err)
	}
	q := u.Query()
	q.Set("sheet", sourceKey)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (r Row) question() domain.Question {
	return domain.Question{
		Prompt:  string(r.Question),
		Options: []string{string(r.Option1), string(r.Option2), string(r.Option3), string(r.Option4)},
		Correct: string(r.Answer),
	}
}

// cell accepts the string, number or boolean a spreadsheet cell serializes to.
type cell string

func (c *cell) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*c = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = cell(strings.TrimSpace(s))
	default:
		*c = cell(data)
	}
	return nil
}

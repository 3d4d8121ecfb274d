package sportmonks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// maxPages bounds the pagination loop so a source that never reports
// has_more=false cannot spin forever.
const maxPages = 1000

type Client struct {
	BaseURL  string
	APIKey   string
	PageSize int
	HTTP     *http.Client
	Limiter  *rate.Limiter
}

// TypeRecord is one element of the provider's /core/types collection. Raw
// keeps the untouched provider JSON for the record.
type TypeRecord struct {
	ID            int             `json:"id"`
	ParentID      *int            `json:"parent_id"`
	Name          string          `json:"name"`
	Code          string          `json:"code"`
	DeveloperName string          `json:"developer_name"`
	Group         *string         `json:"group"`
	StatGroup     *string         `json:"stat_group"`
	ModelType     string          `json:"model_type"`
	Raw           json.RawMessage `json:"-"`
}

type typesPage struct {
	Data       []json.RawMessage `json:"data"`
	Pagination struct {
		HasMore bool `json:"has_more"`
	} `json:"pagination"`
}

// NewClient builds a types client. ratePerSecond <= 0 disables client-side
// rate limiting.
func NewClient(baseURL, apiKey string, pageSize int, timeout time.Duration, ratePerSecond float64) *Client {
	c := &Client{
		BaseURL:  strings.TrimRight(baseURL, "/"),
		APIKey:   apiKey,
		PageSize: pageSize,
		HTTP: &http.Client{
			Timeout: timeout,
		},
	}
	if ratePerSecond > 0 {
		c.Limiter = rate.NewLimiter(rate.Limit(ratePerSecond), 1)
	}
	return c
}

func (c *Client) Enabled() bool {
	return c != nil && c.BaseURL != "" && c.APIKey != ""
}

// FetchAllTypes walks every page of /core/types sequentially and returns the
// full record set. Any page failure aborts the whole fetch; callers never see
// a partial batch.
func (c *Client) FetchAllTypes(ctx context.Context) ([]TypeRecord, error) {
	if !c.Enabled() {
		return nil, errors.New("sportmonks not configured")
	}

	records := []TypeRecord{}
	for page := 1; page <= maxPages; page++ {
		out, err := c.fetchTypesPage(ctx, page)
		if err != nil {
			return nil, fmt.Errorf("types page %d: %w", page, err)
		}
		for _, raw := range out.Data {
			var rec TypeRecord
			if err := json.Unmarshal(raw, &rec); err != nil {
				return nil, fmt.Errorf("types page %d: decode record: %w", page, err)
			}
			rec.Raw = raw
			records = append(records, rec)
		}
		if !out.Pagination.HasMore {
			return records, nil
		}
	}
	return nil, fmt.Errorf("types pagination did not terminate after %d pages", maxPages)
}

func (c *Client) fetchTypesPage(ctx context.Context, page int) (*typesPage, error) {
	if c.Limiter != nil {
		if err := c.Limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	q := url.Values{}
	q.Set("api_token", c.APIKey)
	q.Set("page", strconv.Itoa(page))
	if c.PageSize > 0 {
		q.Set("per_page", strconv.Itoa(c.PageSize))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/core/types?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("sportmonks status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out typesPage
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

package mollie

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"
)

const DefaultBaseURL = "https://api.mollie.com"

var ErrMissingAPIKey = errors.New("mollie: MOLLIE_API_KEY is not set")

type Client struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
}

func NewClientFromEnv() *Client {
	base := os.Getenv("MOLLIE_API_URL")
	if base == "" {
		base = DefaultBaseURL
	}
	return &Client{
		BaseURL: base,
		APIKey:  os.Getenv("MOLLIE_API_KEY"),
		HTTP:    &http.Client{Timeout: 30 * time.Second},
	}
}

type Amount struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

type Payment struct {
	ID        string          `json:"id"`
	Amount    Amount          `json:"amount"`
	Status    string          `json:"status"`
	CreatedAt *time.Time      `json:"createdAt"`
	PaidAt    *time.Time      `json:"paidAt"`
	Metadata  json.RawMessage `json:"metadata"`
}

// metadata is whatever the checkout flow attached to the payment; the
// fields below are the ones it writes today.
type paymentMetadata struct {
	ReferrerCode  string `json:"referrer_code"`
	Ref           string `json:"ref"`
	CustomerEmail string `json:"customer_email"`
	Email         string `json:"email"`
	CustomerName  string `json:"customer_name"`
	Name          string `json:"name"`
}

func (p *Payment) metadataFields() paymentMetadata {
	var m paymentMetadata
	if len(p.Metadata) == 0 {
		return m
	}
	// Mollie stores metadata as arbitrary JSON; anything that is not the
	// expected object is ignored.
	_ = json.Unmarshal(p.Metadata, &m)
	return m
}

func (p *Payment) ReferrerCode() string {
	m := p.metadataFields()
	if m.ReferrerCode != "" {
		return m.ReferrerCode
	}
	return m.Ref
}

func (p *Payment) CustomerEmail() string {
	m := p.metadataFields()
	if m.CustomerEmail != "" {
		return m.CustomerEmail
	}
	return m.Email
}

func (p *Payment) CustomerName() string {
	m := p.metadataFields()
	if m.CustomerName != "" {
		return m.CustomerName
	}
	return m.Name
}

type PaymentsPage struct {
	Payments   []Payment
	NextCursor string
}

// ListPayments fetches one page of payments, newest first. An empty cursor
// starts from the top; the returned cursor is empty on the last page.
func (c *Client) ListPayments(cursor string, limit int) (*PaymentsPage, error) {
	if c.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	endpoint := fmt.Sprintf("%s/v2/payments?limit=%d", c.BaseURL, limit)
	if cursor != "" {
		endpoint += "&from=" + url.QueryEscape(cursor)
	}

	req, err := http.NewRequest("GET", endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("mollie: list payments: %w", err)
	}
	defer resp.Body.Close()

	rawResp, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("mollie: list payments: %s: %s", resp.Status, string(rawResp))
	}

	var result struct {
		Embedded struct {
			Payments []Payment `json:"payments"`
		} `json:"_embedded"`
		Links struct {
			Next *struct {
				Href string `json:"href"`
			} `json:"next"`
		} `json:"_links"`
	}
	if err := json.Unmarshal(rawResp, &result); err != nil {
		return nil, fmt.Errorf("mollie: decode error: %v", err)
	}

	page := &PaymentsPage{Payments: result.Embedded.Payments}
	if result.Links.Next != nil {
		page.NextCursor = nextCursorFromHref(result.Links.Next.Href)
	}
	return page, nil
}

// nextCursorFromHref pulls the "from" token out of the pagination link,
// e.g. https://api.mollie.com/v2/payments?from=tr_abc&limit=250 -> tr_abc.
func nextCursorFromHref(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return u.Query().Get("from")
}

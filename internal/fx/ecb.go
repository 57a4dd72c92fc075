package fx

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/beevik/etree"
)

// ECBClient reads the European Central Bank daily reference-rate feed. The
// feed quotes USD per 1 EUR; the engine works in EUR per 1 USD, so the
// quote is inverted before it leaves this package.
type ECBClient struct {
	url    string
	client *http.Client
}

// NewECBClient initialises a feed client.
func NewECBClient(url string) *ECBClient {
	return &ECBClient{
		url: url,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// CurrentRate fetches today's reference rate as EUR per 1 USD.
func (c *ECBClient) CurrentRate(ctx context.Context) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return 0, fmt.Errorf("fx: build feed request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("fx: feed request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("fx: feed returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("fx: read feed response: %w", err)
	}

	return parseECBDaily(body)
}

func parseECBDaily(raw []byte) (float64, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(raw); err != nil {
		return 0, fmt.Errorf("fx: parse feed xml: %w", err)
	}

	for _, cube := range doc.FindElements("//Cube[@currency]") {
		if cube.SelectAttrValue("currency", "") != "USD" {
			continue
		}
		usdPerEur, err := strconv.ParseFloat(cube.SelectAttrValue("rate", ""), 64)
		if err != nil {
			return 0, fmt.Errorf("fx: parse usd rate: %w", err)
		}
		if usdPerEur <= 0 {
			return 0, fmt.Errorf("fx: non-positive usd rate %v", usdPerEur)
		}
		return 1 / usdPerEur, nil
	}
	return 0, fmt.Errorf("fx: usd rate missing from feed")
}

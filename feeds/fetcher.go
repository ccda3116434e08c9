package feeds

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Credential is the optional single header attached to a feed request. It is
// only sent when both Header and Value are non-empty.
type Credential struct {
	Header string
	Value  string
}

func (c Credential) complete() bool {
	return c.Header != "" && c.Value != ""
}

type Fetcher struct {
	client HTTPClient
}

func NewFetcher(client ...HTTPClient) *Fetcher {
	var c HTTPClient = http.DefaultClient
	if len(client) > 0 && client[0] != nil {
		c = client[0]
	}
	return &Fetcher{client: c}
}

// Fetch performs one GET against url and returns the body. An empty url
// returns ErrNoURL without touching the network.
func (f *Fetcher) Fetch(ctx context.Context, url string, cred Credential) ([]byte, error) {
	if url == "" {
		return nil, ErrNoURL
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{URL: url, Err: fmt.Errorf("build request: %w", err)}
	}
	if cred.complete() {
		req.Header.Set(cred.Header, cred.Value)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{URL: url, StatusCode: resp.StatusCode}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{URL: url, Err: fmt.Errorf("read body: %w", err)}
	}
	return body, nil
}

// Load fetches and decodes a feed.
func (f *Fetcher) Load(ctx context.Context, url string, cred Credential) (*Feed, error) {
	body, err := f.Fetch(ctx, url, cred)
	if err != nil {
		return nil, err
	}
	return Decode(body)
}

package status

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// StatusList2021Type is the credentialStatus type handled by this package.
const StatusList2021Type = "StatusList2021Entry"

// PurposeRevocation is the statusPurpose for revocation lists.
const PurposeRevocation = "revocation"

// StatusList is a fetched and decoded status list credential.
type StatusList struct {
	ID      string
	Purpose string
	Bits    *Bitstring
}

// statusListCredential models the Verifiable Credential served at a
// statusListCredential URL. Only the fields the checker needs are typed.
type statusListCredential struct {
	ID                string                 `json:"id"`
	Issuer            interface{}            `json:"issuer"`
	Type              []string               `json:"type"`
	CredentialSubject statusListSubject      `json:"credentialSubject"`
	Proof             map[string]interface{} `json:"proof"`
}

type statusListSubject struct {
	ID            string `json:"id"`
	Type          string `json:"type"`
	StatusPurpose string `json:"statusPurpose"`
	EncodedList   string `json:"encodedList"`
}

// Client fetches status list credentials over HTTP.
type Client struct {
	httpClient *http.Client
}

// NewClient creates a status list client with a default 10 second timeout
// and traced transport.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout:   10 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// NewClientWithHTTP creates a status list client using the given HTTP client.
func NewClientWithHTTP(httpClient *http.Client) *Client {
	return &Client{httpClient: httpClient}
}

// Resolve fetches the status list credential at the given URL and decodes
// its bitstring.
func (c *Client) Resolve(ctx context.Context, statusListCredentialURL string) (*StatusList, error) {
	if statusListCredentialURL == "" {
		return nil, fmt.Errorf("statusListCredential URL is empty")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, statusListCredentialURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build status list request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call status list credential endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status list credential endpoint returned non-200 status: %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read status list credential response body: %w", err)
	}

	var cred statusListCredential
	if err := json.Unmarshal(body, &cred); err != nil {
		return nil, fmt.Errorf("failed to unmarshal status list credential JSON: %w", err)
	}
	if cred.CredentialSubject.EncodedList == "" {
		return nil, fmt.Errorf("status list credential has no encodedList")
	}

	bits, err := DecodeEncodedList(cred.CredentialSubject.EncodedList)
	if err != nil {
		return nil, err
	}

	return &StatusList{
		ID:      cred.ID,
		Purpose: cred.CredentialSubject.StatusPurpose,
		Bits:    bits,
	}, nil
}

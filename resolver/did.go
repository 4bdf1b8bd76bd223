package resolver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/attestia/go-identity-sdk/diddoc"
)

// DIDResolver resolves DID documents from an HTTP resolver endpoint that
// serves documents at baseURL/<escaped-did>.
type DIDResolver struct {
	baseURL string
	client  *http.Client
}

var _ Resolver[string, *diddoc.Document] = (*DIDResolver)(nil)

// NewDIDResolver creates a resolver client with a default 10 second timeout
// and traced transport.
func NewDIDResolver(baseURL string) *DIDResolver {
	return &DIDResolver{
		baseURL: baseURL,
		client: &http.Client{
			Timeout:   10 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// NewDIDResolverWithHTTP creates a resolver client using the given HTTP
// client.
func NewDIDResolverWithHTTP(baseURL string, client *http.Client) *DIDResolver {
	return &DIDResolver{baseURL: baseURL, client: client}
}

// Resolve fetches and parses the DID document for the given DID.
func (r *DIDResolver) Resolve(ctx context.Context, did string) (*diddoc.Document, error) {
	if did == "" {
		return nil, fmt.Errorf("did is empty")
	}

	apiURL := r.baseURL + "/" + url.PathEscape(did)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build resolver request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call DID resolver: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("DID resolver returned non-200 status: %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read DID resolver response body: %w", err)
	}

	if wrapped, ok := unmarshalEnvelope(body); ok {
		body = wrapped
	}
	doc, err := diddoc.ParseDocument(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DID document: %w", err)
	}
	if doc.ID != did {
		return nil, fmt.Errorf("resolved document id %s does not match requested did %s", doc.ID, did)
	}
	return doc, nil
}

// unmarshalEnvelope tolerates resolvers that wrap the document in the
// didDocument envelope defined by W3C DID Resolution.
func unmarshalEnvelope(body []byte) (json.RawMessage, bool) {
	var envelope struct {
		DIDDocument json.RawMessage `json:"didDocument"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.DIDDocument) == 0 {
		return nil, false
	}
	return envelope.DIDDocument, true
}

package broker

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const acceptHeader = "application/hal+json, application/json"

type Config struct {
	BaseURL       string `env:"PACT_BROKER_BASE_URL"`  // Broker root URL, required for every tool call
	Token         string `env:"PACT_BROKER_TOKEN"`     // Bearer token, takes precedence over basic auth
	Username      string `env:"PACT_BROKER_USERNAME"`  // Basic auth username
	Password      string `env:"PACT_BROKER_PASSWORD"`  // Basic auth password
	ServerAddress string `env:"SERVER_ADDRESS"`        // When set, serve MCP over HTTP on this address instead of stdio
	LogLevel      string `env:"LOG_LEVEL,default=info"`
}

// BrokerURL returns the configured base URL without a trailing slash.
func (c Config) BrokerURL() string {
	return strings.TrimRight(c.BaseURL, "/")
}

// AuthorizationHeader returns the Authorization header value for broker
// requests. A bearer token wins over basic credentials when both are set;
// with neither, no header is sent.
func (c Config) AuthorizationHeader() (string, bool) {
	if c.Token != "" {
		return "Bearer " + c.Token, true
	}
	if c.Username != "" || c.Password != "" {
		cred := base64.StdEncoding.EncodeToString([]byte(c.Username + ":" + c.Password))
		return "Basic " + cred, true
	}
	return "", false
}

// RequestError is a non-2xx response from the broker. It is never retried.
type RequestError struct {
	Status     int
	StatusText string
	Body       string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("pact broker request failed: %d %s: %s", e.Status, e.StatusText, e.Body)
}

type Client struct {
	cfg  Config
	http *http.Client
}

func NewClient(cfg Config) *Client {
	return &Client{
		cfg: cfg,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// get performs one GET against the broker and returns the raw body.
// Non-2xx statuses surface as *RequestError.
func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	requestURL := c.cfg.BrokerURL() + path
	if len(query) > 0 {
		requestURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "build request for %s", path)
	}
	req.Header.Set("Accept", acceptHeader)
	if auth, ok := c.cfg.AuthorizationHeader(); ok {
		req.Header.Set("Authorization", auth)
	}

	log.Debugf("GET %s", requestURL)
	res, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "request %s", path)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "read response from %s", path)
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, &RequestError{
			Status:     res.StatusCode,
			StatusText: http.StatusText(res.StatusCode),
			Body:       string(body),
		}
	}
	return body, nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out interface{}) error {
	body, err := c.get(ctx, path, query)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return errors.Wrapf(err, "parse response from %s", path)
	}
	return nil
}

func (c *Client) ListPacticipants(ctx context.Context) ([]Pacticipant, error) {
	var doc pacticipantsDocument
	if err := c.getJSON(ctx, "/pacticipants", nil, &doc); err != nil {
		return nil, err
	}
	return doc.Embedded.Pacticipants, nil
}

func (c *Client) GetPacticipant(ctx context.Context, name string) (*Pacticipant, error) {
	var pacticipant Pacticipant
	if err := c.getJSON(ctx, "/pacticipants/"+url.PathEscape(name), nil, &pacticipant); err != nil {
		return nil, err
	}
	return &pacticipant, nil
}

func (c *Client) ListLatestPacts(ctx context.Context) ([]PactRef, error) {
	var doc latestPactsDocument
	if err := c.getJSON(ctx, "/pacts/latest", nil, &doc); err != nil {
		return nil, err
	}
	refs := make([]PactRef, 0, len(doc.Embedded.Pacts))
	for _, pact := range doc.Embedded.Pacts {
		refs = append(refs, pact.ref())
	}
	return refs, nil
}

// ListProviders returns the pacticipants that appear as the provider of at
// least one latest pact. The broker has no providers-only endpoint, so the
// subset is derived here from two sequential fetches.
func (c *Client) ListProviders(ctx context.Context) ([]Pacticipant, error) {
	pacticipants, err := c.ListPacticipants(ctx)
	if err != nil {
		return nil, err
	}
	pacts, err := c.ListLatestPacts(ctx)
	if err != nil {
		return nil, err
	}

	providerNames := map[string]bool{}
	for _, pact := range pacts {
		providerNames[strings.ToLower(pact.Provider)] = true
	}

	providers := []Pacticipant{}
	for _, pacticipant := range pacticipants {
		if providerNames[strings.ToLower(pacticipant.Name)] {
			providers = append(providers, pacticipant)
		}
	}
	return providers, nil
}

// PactsForProvider filters the latest pacts by provider name. The filter is
// client-side because not every broker deployment offers a per-participant
// latest-pacts endpoint.
func (c *Client) PactsForProvider(ctx context.Context, provider string) ([]PactRef, error) {
	return c.filterLatestPacts(ctx, func(ref PactRef) bool {
		return strings.EqualFold(ref.Provider, provider)
	})
}

// PactsForConsumer filters the latest pacts by consumer name.
func (c *Client) PactsForConsumer(ctx context.Context, consumer string) ([]PactRef, error) {
	return c.filterLatestPacts(ctx, func(ref PactRef) bool {
		return strings.EqualFold(ref.Consumer, consumer)
	})
}

func (c *Client) filterLatestPacts(ctx context.Context, keep func(PactRef) bool) ([]PactRef, error) {
	pacts, err := c.ListLatestPacts(ctx)
	if err != nil {
		return nil, err
	}
	matched := []PactRef{}
	for _, ref := range pacts {
		if keep(ref) {
			matched = append(matched, ref)
		}
	}
	return matched, nil
}

func (c *Client) GetPact(ctx context.Context, consumer, provider string) (*Pact, error) {
	path := fmt.Sprintf("/pacts/provider/%s/consumer/%s/latest",
		url.PathEscape(provider), url.PathEscape(consumer))
	var pact Pact
	if err := c.getJSON(ctx, path, nil, &pact); err != nil {
		return nil, err
	}
	return &pact, nil
}

func (c *Client) GetPactVersion(ctx context.Context, consumer, provider, consumerVersion string) (*Pact, error) {
	path := fmt.Sprintf("/pacts/provider/%s/consumer/%s/version/%s",
		url.PathEscape(provider), url.PathEscape(consumer), url.PathEscape(consumerVersion))
	var pact Pact
	if err := c.getJSON(ctx, path, nil, &pact); err != nil {
		return nil, err
	}
	return &pact, nil
}

func (c *Client) GetPreviousDistinctPact(ctx context.Context, consumer, provider, consumerVersion string) (*Pact, error) {
	path := fmt.Sprintf("/pacts/provider/%s/consumer/%s/version/%s/previous-distinct",
		url.PathEscape(provider), url.PathEscape(consumer), url.PathEscape(consumerVersion))
	var pact Pact
	if err := c.getJSON(ctx, path, nil, &pact); err != nil {
		return nil, err
	}
	return &pact, nil
}

func (c *Client) GetLatestVerificationResults(ctx context.Context, consumer, provider, pactVersion string) (*VerificationResult, error) {
	path := fmt.Sprintf("/pacts/provider/%s/consumer/%s/pact-version/%s/verification-results/latest",
		url.PathEscape(provider), url.PathEscape(consumer), url.PathEscape(pactVersion))
	var result VerificationResult
	if err := c.getJSON(ctx, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ProviderStates returns the distinct provider-state names declared across
// the provider's pacts, lexicographically sorted.
func (c *Client) ProviderStates(ctx context.Context, provider string) ([]string, error) {
	path := fmt.Sprintf("/pacts/provider/%s/provider-states", url.PathEscape(provider))
	var doc providerStatesDocument
	if err := c.getJSON(ctx, path, nil, &doc); err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	names := []string{}
	for _, state := range doc.ProviderStates {
		if state.Name != "" && !seen[state.Name] {
			seen[state.Name] = true
			names = append(names, state.Name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (c *Client) ListEnvironments(ctx context.Context) ([]Environment, error) {
	var doc environmentsDocument
	if err := c.getJSON(ctx, "/environments", nil, &doc); err != nil {
		return nil, err
	}
	return doc.Embedded.Environments, nil
}

func (c *Client) ListBranches(ctx context.Context, pacticipant string) ([]Branch, error) {
	path := fmt.Sprintf("/pacticipants/%s/branches", url.PathEscape(pacticipant))
	var doc branchesDocument
	if err := c.getJSON(ctx, path, nil, &doc); err != nil {
		return nil, err
	}
	return doc.Embedded.Branches, nil
}

func (c *Client) BranchLatestVersion(ctx context.Context, pacticipant, branch string) (*Version, error) {
	path := fmt.Sprintf("/pacticipants/%s/branches/%s/latest-version",
		url.PathEscape(pacticipant), url.PathEscape(branch))
	var version Version
	if err := c.getJSON(ctx, path, nil, &version); err != nil {
		return nil, err
	}
	return &version, nil
}

func (c *Client) CurrentlyDeployedVersions(ctx context.Context, environment string) ([]DeployedVersion, error) {
	return c.environmentVersions(ctx, environment, "deployed-versions/currently-deployed")
}

func (c *Client) CurrentlySupportedVersions(ctx context.Context, environment string) ([]DeployedVersion, error) {
	return c.environmentVersions(ctx, environment, "released-versions/currently-supported")
}

func (c *Client) environmentVersions(ctx context.Context, environment, suffix string) ([]DeployedVersion, error) {
	env, err := c.findEnvironment(ctx, environment)
	if err != nil {
		return nil, err
	}

	path := fmt.Sprintf("/environments/%s/%s", url.PathEscape(env.UUID), suffix)
	var doc deployedVersionsDocument
	if err := c.getJSON(ctx, path, nil, &doc); err != nil {
		return nil, err
	}

	entries := doc.Embedded.DeployedVersions
	if len(entries) == 0 {
		entries = doc.Embedded.ReleasedVersions
	}
	versions := make([]DeployedVersion, 0, len(entries))
	for _, entry := range entries {
		versions = append(versions, entry.view())
	}
	return versions, nil
}

// findEnvironment resolves an environment name to its registered entry.
// Version listings are keyed by environment UUID, not name.
func (c *Client) findEnvironment(ctx context.Context, name string) (*Environment, error) {
	environments, err := c.ListEnvironments(ctx)
	if err != nil {
		return nil, err
	}
	for _, env := range environments {
		if strings.EqualFold(env.Name, name) {
			return &env, nil
		}
	}
	return nil, errors.Errorf("environment %q not found in broker", name)
}

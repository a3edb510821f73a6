package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// DeployabilityVerdict is derived from the broker's matrix resource: a
// can/cannot decision, a human-readable reason, and the supporting matrix
// document verbatim (minus hypermedia link noise).
type DeployabilityVerdict struct {
	Deployable bool            `json:"deployable"`
	Reason     string          `json:"reason"`
	Matrix     json.RawMessage `json:"matrix"`
}

// CanIDeploy queries the deployability matrix for one pacticipant version
// against an environment, using the broker's array-style query convention
// and latestby=cvp (one row per consumer/provider pair).
func (c *Client) CanIDeploy(ctx context.Context, pacticipant, version, environment string) (*DeployabilityVerdict, error) {
	query := url.Values{}
	query.Set("q[][pacticipant]", pacticipant)
	query.Set("q[][version]", version)
	query.Set("environment", environment)
	query.Set("latestby", "cvp")

	body, err := c.get(ctx, "/matrix", query)
	if err != nil {
		return nil, err
	}

	verdict := &DeployabilityVerdict{
		Deployable: extractDeployable(body),
		Reason:     extractReason(body),
		Matrix:     stripLinks(body),
	}
	return verdict, nil
}

func extractDeployable(body []byte) bool {
	var doc interface{}
	if err := json.Unmarshal(body, &doc); err != nil {
		return false
	}
	value, err := jsonpath.Get("$.summary.deployable", doc)
	if err != nil {
		return false
	}
	deployable, ok := value.(bool)
	return ok && deployable
}

// extractReason prefers the summary reason and falls back to joining the
// notice texts, which is where older brokers put the explanation.
func extractReason(body []byte) string {
	var doc interface{}
	if err := json.Unmarshal(body, &doc); err != nil {
		return ""
	}
	if value, err := jsonpath.Get("$.summary.reason", doc); err == nil {
		if reason, ok := value.(string); ok && reason != "" {
			return reason
		}
	}

	notices := []string{}
	for _, text := range gjson.GetBytes(body, "notices.#.text").Array() {
		if text.String() != "" {
			notices = append(notices, text.String())
		}
	}
	return strings.Join(notices, "; ")
}

// stripLinks removes the top-level _links block and the _links block of
// every matrix row so the returned document carries only data.
func stripLinks(body []byte) json.RawMessage {
	out := body
	if stripped, err := sjson.DeleteBytes(out, "_links"); err == nil {
		out = stripped
	}
	rows := gjson.GetBytes(out, "matrix.#").Int()
	for i := int64(0); i < rows; i++ {
		path := fmt.Sprintf("matrix.%d._links", i)
		if stripped, err := sjson.DeleteBytes(out, path); err == nil {
			out = stripped
		}
	}
	return out
}

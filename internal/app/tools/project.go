package tools

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"

	"github.com/form3tech-oss/pact-broker-mcp/internal/app/broker"
)

// Reduced display shapes. Projections flatten participant references and
// drop hypermedia noise before the payload is rendered.

type pactView struct {
	Consumer       string            `json:"consumer"`
	Provider       string            `json:"provider"`
	CreatedAt      string            `json:"createdAt,omitempty"`
	ProviderStates []string          `json:"providerStates"`
	Interactions   []interactionView `json:"interactions"`
}

type interactionView struct {
	Description    string   `json:"description"`
	ProviderStates []string `json:"providerStates,omitempty"`
}

func newPactView(pact *broker.Pact) pactView {
	interactions := make([]interactionView, 0, len(pact.Interactions))
	for _, interaction := range pact.Interactions {
		interactions = append(interactions, interactionView{
			Description:    interaction.Description,
			ProviderStates: interaction.ProviderStates,
		})
	}
	return pactView{
		Consumer:       pact.Consumer.Name,
		Provider:       pact.Provider.Name,
		CreatedAt:      pact.CreatedAt,
		ProviderStates: pact.StateNames(),
		Interactions:   interactions,
	}
}

type providerStatesView struct {
	Provider       string   `json:"provider"`
	ProviderStates []string `json:"providerStates"`
}

type branchesView struct {
	Pacticipant string          `json:"pacticipant"`
	Branches    []broker.Branch `json:"branches"`
}

type environmentVersionsView struct {
	Environment string                   `json:"environment"`
	Versions    []broker.DeployedVersion `json:"versions"`
}

func toJSON(v interface{}) (string, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "render result")
	}
	return string(out), nil
}

// renderVerdict prefixes the verdict JSON with a one-line human-readable
// banner: glyph, decision, reason.
func renderVerdict(verdict *broker.DeployabilityVerdict) (string, error) {
	payload, err := toJSON(verdict)
	if err != nil {
		return "", err
	}
	banner := "❌ CANNOT DEPLOY"
	if verdict.Deployable {
		banner = "✅ CAN DEPLOY"
	}
	return fmt.Sprintf("%s: %s\n\n%s", banner, verdict.Reason, payload), nil
}

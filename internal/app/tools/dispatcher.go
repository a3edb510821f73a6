package tools

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	log "github.com/sirupsen/logrus"

	"github.com/form3tech-oss/pact-broker-mcp/internal/app/broker"
)

// Dispatcher is the single entry point the host transport invokes. It
// validates arguments against the operation's descriptor, calls the broker
// client, and wraps the projected result in a content envelope. Tool-level
// failures become error envelopes; the dispatcher never panics past this
// boundary and never retries.
type Dispatcher struct {
	cfg    broker.Config
	client *broker.Client
}

// NewDispatcher builds a dispatcher around an explicit configuration value
// constructed once at startup. The environment is never re-read per call.
func NewDispatcher(cfg broker.Config) *Dispatcher {
	return &Dispatcher{
		cfg:    cfg,
		client: broker.NewClient(cfg),
	}
}

// ListOperations returns every registered operation. It never fails.
func (d *Dispatcher) ListOperations() []Operation {
	return Operations()
}

// Invoke runs one named operation with the caller-supplied arguments and
// returns the response envelope. Invocations are stateless and independent.
func (d *Dispatcher) Invoke(ctx context.Context, name string, raw map[string]interface{}) *mcp.CallToolResult {
	logger := log.WithFields(log.Fields{
		"tool":          name,
		"invocation_id": uuid.NewString(),
	})

	op, ok := Lookup(name)
	if !ok {
		logger.Warn("unknown tool")
		return mcp.NewToolResultError(fmt.Sprintf("Unknown tool: %q", name))
	}

	args, err := op.Validate(raw)
	if err != nil {
		logger.WithError(err).Warn("invalid arguments")
		return mcp.NewToolResultError(err.Error())
	}

	if d.cfg.BrokerURL() == "" {
		logger.Error("no broker base URL configured")
		return mcp.NewToolResultError("PACT_BROKER_BASE_URL is not configured; a broker base URL is required for every tool call")
	}

	text, err := d.run(ctx, op.Name, args)
	if err != nil {
		logger.WithError(err).Error("tool call failed")
		return mcp.NewToolResultError(err.Error())
	}
	logger.Debug("tool call succeeded")
	return mcp.NewToolResultText(text)
}

func (d *Dispatcher) run(ctx context.Context, name string, args Arguments) (string, error) {
	switch name {
	case "list_pacticipants":
		pacticipants, err := d.client.ListPacticipants(ctx)
		if err != nil {
			return "", err
		}
		return toJSON(pacticipants)

	case "list_providers":
		providers, err := d.client.ListProviders(ctx)
		if err != nil {
			return "", err
		}
		return toJSON(providers)

	case "get_pacticipant":
		pacticipant, err := d.client.GetPacticipant(ctx, args["name"])
		if err != nil {
			return "", err
		}
		return toJSON(pacticipant)

	case "get_provider_states":
		provider := args["provider_name"]
		states, err := d.client.ProviderStates(ctx, provider)
		if err != nil {
			return "", err
		}
		if len(states) == 0 {
			return fmt.Sprintf("No pacts found for provider %q.", provider), nil
		}
		return toJSON(providerStatesView{Provider: provider, ProviderStates: states})

	case "get_provider_pacts":
		pacts, err := d.client.PactsForProvider(ctx, args["provider_name"])
		if err != nil {
			return "", err
		}
		return toJSON(pacts)

	case "get_consumer_pacts":
		pacts, err := d.client.PactsForConsumer(ctx, args["consumer_name"])
		if err != nil {
			return "", err
		}
		return toJSON(pacts)

	case "get_pact":
		pact, err := d.client.GetPact(ctx, args["consumer_name"], args["provider_name"])
		if err != nil {
			return "", err
		}
		return toJSON(newPactView(pact))

	case "get_pact_version":
		pact, err := d.client.GetPactVersion(ctx, args["consumer_name"], args["provider_name"], args["consumer_version"])
		if err != nil {
			return "", err
		}
		return toJSON(newPactView(pact))

	case "get_previous_distinct_pact":
		pact, err := d.client.GetPreviousDistinctPact(ctx, args["consumer_name"], args["provider_name"], args["consumer_version"])
		if err != nil {
			return "", err
		}
		return toJSON(newPactView(pact))

	case "get_latest_verification_results_for_pact_version":
		result, err := d.client.GetLatestVerificationResults(ctx, args["consumer_name"], args["provider_name"], args["pact_version"])
		if err != nil {
			return "", err
		}
		return toJSON(result)

	case "can_i_deploy":
		verdict, err := d.client.CanIDeploy(ctx, args["pacticipant"], args["version"], args["environment"])
		if err != nil {
			return "", err
		}
		return renderVerdict(verdict)

	case "list_environments":
		environments, err := d.client.ListEnvironments(ctx)
		if err != nil {
			return "", err
		}
		return toJSON(environments)

	case "get_pacticipant_branches":
		pacticipant := args["name"]
		branches, err := d.client.ListBranches(ctx, pacticipant)
		if err != nil {
			return "", err
		}
		return toJSON(branchesView{Pacticipant: pacticipant, Branches: branches})

	case "get_pacticipant_branch_latest_version":
		version, err := d.client.BranchLatestVersion(ctx, args["pacticipant"], args["branch"])
		if err != nil {
			return "", err
		}
		return toJSON(version)

	case "get_currently_deployed_versions":
		environment := args["environment"]
		versions, err := d.client.CurrentlyDeployedVersions(ctx, environment)
		if err != nil {
			return "", err
		}
		return toJSON(environmentVersionsView{Environment: environment, Versions: versions})

	case "get_currently_supported_versions":
		environment := args["environment"]
		versions, err := d.client.CurrentlySupportedVersions(ctx, environment)
		if err != nil {
			return "", err
		}
		return toJSON(environmentVersionsView{Environment: environment, Versions: versions})
	}

	// Lookup and run share one table, so this is unreachable.
	return "", fmt.Errorf("no handler for operation %q", name)
}

package tools

import (
	"fmt"
	"sort"
	"strings"
)

// Parameter describes one named argument of an operation. Every parameter
// is a string; the broker addresses everything by name or version string.
type Parameter struct {
	Name        string
	Description string
	Required    bool
}

// Operation is the hand-written descriptor for one tool: its name, a
// one-line description for discovery, and its argument shape. Descriptors
// are plain data so they can be rendered to any schema format without
// leaning on a validation library's internals.
type Operation struct {
	Name        string
	Description string
	Parameters  []Parameter
}

var operations = []Operation{
	{
		Name:        "list_pacticipants",
		Description: "List all pacticipants (applications) registered in the Pact Broker",
	},
	{
		Name:        "list_providers",
		Description: "List pacticipants that act as a provider in at least one pact",
	},
	{
		Name:        "get_pacticipant",
		Description: "Get details of a single pacticipant by name",
		Parameters: []Parameter{
			{Name: "name", Description: "Name of the pacticipant", Required: true},
		},
	},
	{
		Name:        "get_provider_states",
		Description: "List the distinct provider states declared across a provider's pacts",
		Parameters: []Parameter{
			{Name: "provider_name", Description: "Name of the provider", Required: true},
		},
	},
	{
		Name:        "get_provider_pacts",
		Description: "List the latest pacts in which the given pacticipant is the provider",
		Parameters: []Parameter{
			{Name: "provider_name", Description: "Name of the provider", Required: true},
		},
	},
	{
		Name:        "get_consumer_pacts",
		Description: "List the latest pacts in which the given pacticipant is the consumer",
		Parameters: []Parameter{
			{Name: "consumer_name", Description: "Name of the consumer", Required: true},
		},
	},
	{
		Name:        "get_pact",
		Description: "Get the latest pact between a consumer and a provider",
		Parameters: []Parameter{
			{Name: "consumer_name", Description: "Name of the consumer", Required: true},
			{Name: "provider_name", Description: "Name of the provider", Required: true},
		},
	},
	{
		Name:        "get_pact_version",
		Description: "Get the pact published by a specific consumer version",
		Parameters: []Parameter{
			{Name: "consumer_name", Description: "Name of the consumer", Required: true},
			{Name: "provider_name", Description: "Name of the provider", Required: true},
			{Name: "consumer_version", Description: "Consumer application version", Required: true},
		},
	},
	{
		Name:        "get_previous_distinct_pact",
		Description: "Get the previous distinct pact relative to a consumer version",
		Parameters: []Parameter{
			{Name: "consumer_name", Description: "Name of the consumer", Required: true},
			{Name: "provider_name", Description: "Name of the provider", Required: true},
			{Name: "consumer_version", Description: "Consumer application version", Required: true},
		},
	},
	{
		Name:        "get_latest_verification_results_for_pact_version",
		Description: "Get the latest verification results for a content-addressed pact version",
		Parameters: []Parameter{
			{Name: "consumer_name", Description: "Name of the consumer", Required: true},
			{Name: "provider_name", Description: "Name of the provider", Required: true},
			{Name: "pact_version", Description: "Pact version (content SHA)", Required: true},
		},
	},
	{
		Name:        "can_i_deploy",
		Description: "Check whether a pacticipant version can be safely deployed to an environment",
		Parameters: []Parameter{
			{Name: "pacticipant", Description: "Name of the pacticipant", Required: true},
			{Name: "version", Description: "Version to deploy", Required: true},
			{Name: "environment", Description: "Target environment name", Required: true},
		},
	},
	{
		Name:        "list_environments",
		Description: "List the deployment environments registered in the Pact Broker",
	},
	{
		Name:        "get_pacticipant_branches",
		Description: "List the branches of a pacticipant",
		Parameters: []Parameter{
			{Name: "name", Description: "Name of the pacticipant", Required: true},
		},
	},
	{
		Name:        "get_pacticipant_branch_latest_version",
		Description: "Get the latest version published on a pacticipant branch",
		Parameters: []Parameter{
			{Name: "pacticipant", Description: "Name of the pacticipant", Required: true},
			{Name: "branch", Description: "Branch name", Required: true},
		},
	},
	{
		Name:        "get_currently_deployed_versions",
		Description: "List the versions currently deployed to an environment",
		Parameters: []Parameter{
			{Name: "environment", Description: "Environment name", Required: true},
		},
	},
	{
		Name:        "get_currently_supported_versions",
		Description: "List the released versions currently supported in an environment",
		Parameters: []Parameter{
			{Name: "environment", Description: "Environment name", Required: true},
		},
	},
}

// Operations returns every registered operation, sorted by name. The list
// is total and stable across calls.
func Operations() []Operation {
	ops := make([]Operation, len(operations))
	copy(ops, operations)
	sort.Slice(ops, func(i, j int) bool { return ops[i].Name < ops[j].Name })
	return ops
}

func Lookup(name string) (Operation, bool) {
	for _, op := range operations {
		if op.Name == name {
			return op, true
		}
	}
	return Operation{}, false
}

// InputSchema renders the descriptor as a JSON-Schema object.
func (op Operation) InputSchema() map[string]interface{} {
	properties := map[string]interface{}{}
	required := []string{}
	for _, param := range op.Parameters {
		properties[param.Name] = map[string]interface{}{
			"type":        "string",
			"description": param.Description,
		}
		if param.Required {
			required = append(required, param.Name)
		}
	}
	return map[string]interface{}{
		"type":       "object",
		"properties": properties,
		"required":   required,
	}
}

// Arguments is a validated argument bundle.
type Arguments map[string]string

// ValidationError lists every violated field, one "field: reason" entry
// per violation.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "Invalid arguments: " + strings.Join(e.Violations, ", ")
}

// Validate checks the raw arguments against the descriptor. Missing
// required fields and non-string values are violations; unknown extra
// fields are ignored.
func (op Operation) Validate(raw map[string]interface{}) (Arguments, error) {
	violations := []string{}
	args := Arguments{}
	for _, param := range op.Parameters {
		value, present := raw[param.Name]
		if !present {
			if param.Required {
				violations = append(violations, fmt.Sprintf("%s: required field is missing", param.Name))
			}
			continue
		}
		s, ok := value.(string)
		if !ok {
			violations = append(violations, fmt.Sprintf("%s: must be a string", param.Name))
			continue
		}
		args[param.Name] = s
	}
	if len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}
	return args, nil
}

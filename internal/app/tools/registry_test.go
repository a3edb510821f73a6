package tools

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOperationsListedExactlyOnce(t *testing.T) {
	ops := Operations()

	names := make([]string, 0, len(ops))
	seen := map[string]int{}
	for _, op := range ops {
		names = append(names, op.Name)
		seen[op.Name]++
		assert.NotEmpty(t, op.Description, op.Name)
	}

	for name, count := range seen {
		assert.Equal(t, 1, count, name)
	}
	assert.True(t, sort.StringsAreSorted(names))

	expected := []string{
		"can_i_deploy",
		"get_consumer_pacts",
		"get_currently_deployed_versions",
		"get_currently_supported_versions",
		"get_latest_verification_results_for_pact_version",
		"get_pact",
		"get_pact_version",
		"get_pacticipant",
		"get_pacticipant_branch_latest_version",
		"get_pacticipant_branches",
		"get_previous_distinct_pact",
		"get_provider_pacts",
		"get_provider_states",
		"list_environments",
		"list_pacticipants",
		"list_providers",
	}
	assert.Equal(t, expected, names)
}

func TestInputSchemaMarksRequiredFields(t *testing.T) {
	for _, op := range Operations() {
		schema := op.InputSchema()
		assert.Equal(t, "object", schema["type"], op.Name)

		properties, ok := schema["properties"].(map[string]interface{})
		require.True(t, ok, op.Name)
		required, ok := schema["required"].([]string)
		require.True(t, ok, op.Name)

		wantRequired := []string{}
		for _, param := range op.Parameters {
			assert.Contains(t, properties, param.Name, op.Name)
			if param.Required {
				wantRequired = append(wantRequired, param.Name)
			}
		}
		assert.Equal(t, wantRequired, required, op.Name)
	}
}

func TestValidate(t *testing.T) {
	op, ok := Lookup("get_pact")
	require.True(t, ok)

	t.Run("valid arguments", func(t *testing.T) {
		args, err := op.Validate(map[string]interface{}{
			"consumer_name": "A",
			"provider_name": "B",
		})
		require.NoError(t, err)
		assert.Equal(t, "A", args["consumer_name"])
		assert.Equal(t, "B", args["provider_name"])
	})

	t.Run("unknown extra fields are ignored", func(t *testing.T) {
		_, err := op.Validate(map[string]interface{}{
			"consumer_name": "A",
			"provider_name": "B",
			"extra":         42,
		})
		require.NoError(t, err)
	})

	t.Run("missing required field", func(t *testing.T) {
		_, err := op.Validate(map[string]interface{}{"consumer_name": "A"})
		require.Error(t, err)
		assert.Equal(t, "Invalid arguments: provider_name: required field is missing", err.Error())
	})

	t.Run("mistyped field", func(t *testing.T) {
		_, err := op.Validate(map[string]interface{}{
			"consumer_name": 1,
			"provider_name": "B",
		})
		require.Error(t, err)
		assert.Equal(t, "Invalid arguments: consumer_name: must be a string", err.Error())
	})

	t.Run("every violation reported", func(t *testing.T) {
		_, err := op.Validate(map[string]interface{}{"consumer_name": 1})
		require.Error(t, err)
		assert.Equal(t, "Invalid arguments: consumer_name: must be a string, provider_name: required field is missing", err.Error())
	})
}

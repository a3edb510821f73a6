package broker

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInteractionNormalizesStateEncodings(t *testing.T) {
	tests := []struct {
		name        string
		interaction string
		want        []string
	}{
		{
			name:        "legacy single state",
			interaction: `{"description": "a request", "providerState": "user exists"}`,
			want:        []string{"user exists"},
		},
		{
			name:        "legacy snake_case state",
			interaction: `{"description": "a request", "provider_state": "user exists"}`,
			want:        []string{"user exists"},
		},
		{
			name: "modern state list",
			interaction: `{
				"description": "a request",
				"providerStates": [{"name": "user exists"}, {"name": "account is empty"}]
			}`,
			want: []string{"user exists", "account is empty"},
		},
		{
			name: "both encodings, duplicates collapsed",
			interaction: `{
				"description": "a request",
				"providerState": "user exists",
				"providerStates": [{"name": "user exists"}, {"name": "account is empty"}]
			}`,
			want: []string{"user exists", "account is empty"},
		},
		{
			name:        "no states",
			interaction: `{"description": "a request"}`,
			want:        nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var interaction Interaction
			require.NoError(t, json.Unmarshal([]byte(tt.interaction), &interaction))
			assert.Equal(t, "a request", interaction.Description)
			assert.Equal(t, tt.want, interaction.ProviderStates)
		})
	}
}

func TestPactStateNamesSortedAndDeduplicated(t *testing.T) {
	pactDocument := `{
		"consumer": {"name": "A"},
		"provider": {"name": "B"},
		"interactions": [
			{"description": "first", "providerState": "a"},
			{"description": "second", "providerStates": [{"name": "b"}, {"name": "a"}]}
		]
	}`

	var pact Pact
	require.NoError(t, json.Unmarshal([]byte(pactDocument), &pact))

	assert.Equal(t, []string{"a", "b"}, pact.StateNames())
}

func TestSelfLinkToleratesObjectAndListEncodings(t *testing.T) {
	var fromObject selfLink
	require.NoError(t, json.Unmarshal([]byte(`{"href": "http://broker/pact"}`), &fromObject))
	assert.Equal(t, "http://broker/pact", fromObject.HRef)

	var fromList selfLink
	require.NoError(t, json.Unmarshal([]byte(`[{"href": "http://broker/pact"}, {"href": "http://broker/other"}]`), &fromList))
	assert.Equal(t, "http://broker/pact", fromList.HRef)
}

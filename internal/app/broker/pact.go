package broker

import (
	"encoding/json"
	"sort"
)

// Pact is an agreement artifact between one consumer and one provider.
type Pact struct {
	Consumer     participantRef `json:"consumer"`
	Provider     participantRef `json:"provider"`
	Interactions []Interaction  `json:"interactions"`
	CreatedAt    string         `json:"createdAt,omitempty"`
}

// Interaction is one request/response expectation within a pact. Provider
// states arrive in two historical encodings: a single legacy state name
// (`providerState` or `provider_state`) and a modern list of state objects
// (`providerStates`). Both are normalized into ProviderStates at ingestion
// so nothing downstream has to know about the split.
type Interaction struct {
	Description    string   `json:"description"`
	ProviderStates []string `json:"providerStates,omitempty"`
}

func (i *Interaction) UnmarshalJSON(data []byte) error {
	var raw struct {
		Description      string  `json:"description"`
		ProviderState    *string `json:"providerState"`
		LegacyState      *string `json:"provider_state"`
		ProviderStateSet []struct {
			Name string `json:"name"`
		} `json:"providerStates"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	i.Description = raw.Description
	i.ProviderStates = nil
	seen := map[string]bool{}
	add := func(name string) {
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		i.ProviderStates = append(i.ProviderStates, name)
	}
	for _, s := range raw.ProviderStateSet {
		add(s.Name)
	}
	if raw.ProviderState != nil {
		add(*raw.ProviderState)
	}
	if raw.LegacyState != nil {
		add(*raw.LegacyState)
	}
	return nil
}

// StateNames returns the distinct provider-state names appearing in any
// interaction of the pact, lexicographically sorted.
func (p *Pact) StateNames() []string {
	seen := map[string]bool{}
	names := []string{}
	for _, interaction := range p.Interactions {
		for _, name := range interaction.ProviderStates {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names
}

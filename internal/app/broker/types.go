package broker

import "encoding/json"

// Pacticipant is a named party (consumer or provider) registered in the
// broker. All timestamps are relayed as the broker reports them.
type Pacticipant struct {
	Name          string `json:"name"`
	DisplayName   string `json:"displayName,omitempty"`
	RepositoryURL string `json:"repositoryUrl,omitempty"`
	MainBranch    string `json:"mainBranch,omitempty"`
	CreatedAt     string `json:"createdAt,omitempty"`
	UpdatedAt     string `json:"updatedAt,omitempty"`
}

// PactRef identifies one latest pact between a consumer and a provider.
type PactRef struct {
	Consumer  string `json:"consumer"`
	Provider  string `json:"provider"`
	URL       string `json:"pactUrl,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// Environment is a deployment target registered in the broker.
type Environment struct {
	UUID        string `json:"uuid"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName,omitempty"`
	Production  bool   `json:"production"`
	CreatedAt   string `json:"createdAt,omitempty"`
}

// Branch is a development line of a pacticipant.
type Branch struct {
	Name      string `json:"name"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// Version is a published pacticipant version.
type Version struct {
	Number    string `json:"number"`
	BuildURL  string `json:"buildUrl,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// VerificationResult is the outcome of a provider replaying a pact-version.
type VerificationResult struct {
	Success                    bool   `json:"success"`
	ProviderApplicationVersion string `json:"providerApplicationVersion,omitempty"`
	BuildURL                   string `json:"buildUrl,omitempty"`
	PublishedAt                string `json:"publishedAt,omitempty"`
}

// DeployedVersion is a version currently deployed to (or supported in) an
// environment.
type DeployedVersion struct {
	Pacticipant string `json:"pacticipant"`
	Version     string `json:"version"`
	Target      string `json:"target,omitempty"`
	CreatedAt   string `json:"createdAt,omitempty"`
}

type participantRef struct {
	Name string `json:"name"`
}

// selfLink tolerates both encodings the broker uses for _links.self: a
// single link object, or a list of link objects.
type selfLink struct {
	HRef string
}

func (l *selfLink) UnmarshalJSON(data []byte) error {
	var link struct {
		HRef string `json:"href"`
	}
	if err := json.Unmarshal(data, &link); err == nil {
		l.HRef = link.HRef
		return nil
	}
	var links []struct {
		HRef string `json:"href"`
	}
	if err := json.Unmarshal(data, &links); err != nil {
		return err
	}
	if len(links) > 0 {
		l.HRef = links[0].HRef
	}
	return nil
}

// Wire documents. The broker wraps every collection in a HAL _embedded
// envelope; singular resources are flat objects.

type pacticipantsDocument struct {
	Embedded struct {
		Pacticipants []Pacticipant `json:"pacticipants"`
	} `json:"_embedded"`
}

type latestPactsDocument struct {
	Embedded struct {
		Pacts []latestPact `json:"pacts"`
	} `json:"_embedded"`
}

type latestPact struct {
	CreatedAt string `json:"createdAt"`
	Embedded  struct {
		Consumer participantRef `json:"consumer"`
		Provider participantRef `json:"provider"`
	} `json:"_embedded"`
	Links struct {
		Self selfLink `json:"self"`
	} `json:"_links"`
}

func (p latestPact) ref() PactRef {
	return PactRef{
		Consumer:  p.Embedded.Consumer.Name,
		Provider:  p.Embedded.Provider.Name,
		URL:       p.Links.Self.HRef,
		CreatedAt: p.CreatedAt,
	}
}

type environmentsDocument struct {
	Embedded struct {
		Environments []Environment `json:"environments"`
	} `json:"_embedded"`
}

type branchesDocument struct {
	Embedded struct {
		Branches []Branch `json:"branches"`
	} `json:"_embedded"`
}

type providerStatesDocument struct {
	ProviderStates []struct {
		Name string `json:"name"`
	} `json:"providerStates"`
}

type deployedVersionsDocument struct {
	Embedded struct {
		DeployedVersions []deployedVersion `json:"deployedVersions"`
		ReleasedVersions []deployedVersion `json:"releasedVersions"`
	} `json:"_embedded"`
}

type deployedVersion struct {
	Target    string `json:"target,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
	Embedded  struct {
		Pacticipant participantRef `json:"pacticipant"`
		Version     struct {
			Number string `json:"number"`
		} `json:"version"`
	} `json:"_embedded"`
}

func (d deployedVersion) view() DeployedVersion {
	return DeployedVersion{
		Pacticipant: d.Embedded.Pacticipant.Name,
		Version:     d.Embedded.Version.Number,
		Target:      d.Target,
		CreatedAt:   d.CreatedAt,
	}
}

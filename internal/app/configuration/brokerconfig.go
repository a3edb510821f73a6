package configuration

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sethvargo/go-envconfig"

	"github.com/form3tech-oss/pact-broker-mcp/internal/app/broker"
)

// NewFromEnv loads the broker connection configuration from the process
// environment. The result is constructed once at startup and passed by
// value into every dispatch call; the environment is not re-read later.
func NewFromEnv() (broker.Config, error) {
	ctx := context.Background()

	var config broker.Config
	err := envconfig.Process(ctx, &config)
	if err != nil {
		return config, errors.Wrap(err, "process env config")
	}
	return config, nil
}

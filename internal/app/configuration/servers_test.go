package configuration

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/pact-foundation/pact-go/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServeMCPReadinessAndRouting(t *testing.T) {
	port, err := utils.GetFreePort()
	require.NoError(t, err)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("mcp"))
	})

	address := fmt.Sprintf("localhost:%d", port)
	e := ServeMCP(address, handler)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		require.NoError(t, e.Shutdown(ctx))
	}()

	baseURL := "http://" + address

	retryOpts := []retry.Option{
		retry.Attempts(10),
		retry.DelayType(retry.FixedDelay),
		retry.Delay(100 * time.Millisecond),
	}
	err = retry.Do(func() error {
		res, err := http.Get(baseURL + "/ready")
		if err != nil {
			return err
		}
		defer res.Body.Close()
		if res.StatusCode != http.StatusOK {
			return fmt.Errorf("ready returned status %d", res.StatusCode)
		}
		return nil
	}, retryOpts...)
	require.NoError(t, err)

	res, err := http.Get(baseURL + "/ready")
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))

	res, err = http.Get(baseURL + "/mcp")
	require.NoError(t, err)
	defer res.Body.Close()
	body, err = io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Equal(t, "mcp", string(body))
}

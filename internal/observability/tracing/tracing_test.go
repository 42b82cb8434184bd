package tracing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewProvider_DisabledInstallsNoop(t *testing.T) {
	provider, err := NewProvider(nil, Config{Enabled: false}, zap.NewNop())
	require.NoError(t, err)
	assert.NotNil(t, provider)
}

func TestNewProvider_UnsupportedProtocol(t *testing.T) {
	cfg := Config{
		Enabled:          true,
		ExporterEndpoint: "localhost:4317",
		ExporterProtocol: "udp",
	}
	_, err := NewProvider(nil, cfg, zap.NewNop())
	assert.Error(t, err)
}

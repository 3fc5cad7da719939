package telemetry_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gasfinder/gasfinder/internal/telemetry"
)

func TestInit_Disabled(t *testing.T) {
	provider, err := telemetry.Init(context.Background(), telemetry.Config{
		ServiceName: "gasfinder-web",
		Enabled:     false,
	})
	require.NoError(t, err)
	require.NotNil(t, provider)

	assert.NotNil(t, provider.Tracer)
	assert.NotNil(t, provider.Meter)
	assert.NoError(t, provider.Shutdown(context.Background()))
}

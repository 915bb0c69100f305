package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupDisabled(t *testing.T) {
	tp, err := Setup(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, tp)
	assert.NoError(t, Shutdown(context.Background(), tp))
	assert.NotNil(t, Tracer())
}

func TestSetupEnabled(t *testing.T) {
	tp, err := Setup(context.Background(), "localhost:4318")
	require.NoError(t, err)
	require.NotNil(t, tp)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = Shutdown(ctx, tp)
}

func TestExporterOptions(t *testing.T) {
	tests := []struct {
		endpoint string
		wantOpts int
		wantErr  bool
	}{
		{"localhost:4318", 1, false},
		{"https://collector:4318", 1, false},
		{"http://collector:4318", 2, false},
		{"http://collector:4318/", 2, false},
		{"http://collector:4318/custom/v1/traces", 3, false},
		{"grpc://collector:4317", 0, true},
		{"http://", 0, true},
	}
	for _, tt := range tests {
		opts, err := exporterOptions(tt.endpoint)
		if tt.wantErr {
			assert.Error(t, err, tt.endpoint)
			continue
		}
		require.NoError(t, err, tt.endpoint)
		assert.Len(t, opts, tt.wantOpts, tt.endpoint)
	}
}

func TestSetupWithURL(t *testing.T) {
	tp, err := Setup(context.Background(), "http://localhost:4318")
	require.NoError(t, err)
	require.NotNil(t, tp)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = Shutdown(ctx, tp)

	_, err = Setup(context.Background(), "ftp://localhost:4318")
	assert.ErrorContains(t, err, "unsupported scheme")
}

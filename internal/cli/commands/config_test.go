package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockroom-dev/stockroom/internal/cli/userconfig"
)

func TestConfigSetServerAndShow(t *testing.T) {
	cli := newTestCLI(t)
	t.Setenv(userconfig.EnvServer, "")

	require.NoError(t, runShowConfig(cli.opts))
	assert.Equal(t, "server_url: http://localhost:8080 (default)\n", cli.out.String())

	cli.out.Reset()
	require.NoError(t, runSetServer(cli.opts, "https://stock.example.com/"))
	assert.Contains(t, cli.out.String(), "https://stock.example.com")

	cfg, err := userconfig.LoadFrom(cli.opts.ConfigPath)
	require.NoError(t, err)
	assert.Equal(t, "https://stock.example.com", cfg.ServerURL)

	cli.out.Reset()
	require.NoError(t, runShowConfig(cli.opts))
	assert.Equal(t, "server_url: https://stock.example.com (config file)\n", cli.out.String())

	cli.out.Reset()
	t.Setenv(userconfig.EnvServer, "http://env:1")
	require.NoError(t, runShowConfig(cli.opts))
	assert.Equal(t, "server_url: http://env:1 ("+userconfig.EnvServer+")\n", cli.out.String())

	cli.out.Reset()
	cli.opts.Server = "http://flag:2"
	require.NoError(t, runShowConfig(cli.opts))
	assert.Equal(t, "server_url: http://flag:2 (--server flag)\n", cli.out.String())
}

func TestConfigSetServer_RejectsBadURL(t *testing.T) {
	cli := newTestCLI(t)

	require.Error(t, runSetServer(cli.opts, "stock.example.com"))

	cfg, err := userconfig.LoadFrom(cli.opts.ConfigPath)
	require.NoError(t, err)
	assert.Empty(t, cfg.ServerURL)
}

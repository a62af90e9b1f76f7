package util

import (
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapString(t *testing.T) {
	text := strings.Repeat("word ", 30)
	for _, line := range strings.Split(WrapString(text), "\n") {
		assert.LessOrEqual(t, len(line), Wrap)
		assert.NotEmpty(t, line)
	}
	assert.Equal(t, "short text", WrapString("  short   text "))
}

func TestGetClientConfig(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cmd := &cobra.Command{Use: "test"}
	SetupRPCClientFlags(cmd)
	require.NoError(t, cmd.PersistentFlags().Parse([]string{
		"--transport-endpoints", "a:1,b:2",
		"--transport-read-buffer", "4",
		"--shard", "42",
	}))
	require.NoError(t, viper.BindPFlags(cmd.PersistentFlags()))

	config := GetClientConfig()
	assert.Equal(t, []string{"a:1", "b:2"}, config.Transport.Endpoints)
	assert.Equal(t, 4*1024, config.Transport.ReadBufferSize)
	assert.Equal(t, -1, config.Transport.TCPLingerSec)
	assert.Equal(t, uint64(42), GetShardID())
}

func TestGetSerializerAndTransport(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	for _, name := range []string{"json", "gob", "binary"} {
		viper.Set("serializer", name)
		s, err := GetSerializer()
		require.NoError(t, err)
		assert.NotNil(t, s)
	}
	viper.Set("serializer", "xml")
	_, err := GetSerializer()
	assert.Error(t, err)

	for _, name := range []string{"http", "tcp", "unix"} {
		viper.Set("transport", name)
		_, err := GetTransport()
		require.NoError(t, err)
		_, err = GetServerTransport()
		require.NoError(t, err)
	}
	viper.Set("transport", "udp")
	_, err = GetTransport()
	assert.Error(t, err)
}

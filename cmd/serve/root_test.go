package serve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseShards(t *testing.T) {
	shards, err := parseShards("1, 2,300,,")
	require.NoError(t, err)
	assert.Equal(t, []uint64{1, 2, 300}, shards)
}

func TestParseShardsErrors(t *testing.T) {
	tests := map[string]string{
		"empty":     " , ",
		"not a id":  "1,abc",
		"negative":  "-1",
		"duplicate": "7,8,7",
	}
	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := parseShards(input)
			assert.Error(t, err)
		})
	}
}

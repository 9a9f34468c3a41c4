package common

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestContainsAny(t *testing.T) {
	require.True(t, ContainsAny("KICKING HORSE RIVER AT GOLDEN", "kicking"))
	require.True(t, ContainsAny("Kananaskis River", "bow", "kananaskis"))
	require.False(t, ContainsAny("Spillimacheen River", "bow", "elk"))
	require.False(t, ContainsAny("anything", ""))
	require.False(t, ContainsAny("anything"))
}

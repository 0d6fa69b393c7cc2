package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSingleQuery(t *testing.T) {
	q, err := NewSingleQuery("  100 Main St  ")
	require.NoError(t, err)
	assert.Equal(t, QueryKindSingle, q.Kind)
	assert.Equal(t, []string{"100 Main St"}, q.Addresses)
}

func TestNewSingleQuery_Empty(t *testing.T) {
	_, err := NewSingleQuery("   ")
	require.Error(t, err)
}

func TestNewAssemblageQuery(t *testing.T) {
	q, err := NewAssemblageQuery([]string{"100 Main St", " 102 Main St "})
	require.NoError(t, err)
	assert.Equal(t, QueryKindAssemblage, q.Kind)
	assert.Equal(t, []string{"100 Main St", "102 Main St"}, q.Addresses)
}

func TestNewAssemblageQuery_TooFewAddresses(t *testing.T) {
	_, err := NewAssemblageQuery([]string{"100 Main St"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 2")
}

func TestNewAssemblageQuery_EmptyMember(t *testing.T) {
	_, err := NewAssemblageQuery([]string{"100 Main St", "  "})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "position 1")
}

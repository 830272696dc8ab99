package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTally_CountsAndSortsDescending(t *testing.T) {
	got := Tally([]Nomination{
		{NomineeName: "A"},
		{NomineeName: "A"},
		{NomineeName: "B"},
	})

	assert.Equal(t, []NomineeCount{
		{NomineeName: "A", Count: 2},
		{NomineeName: "B", Count: 1},
	}, got)
}

func TestTally_TiesOrderedByName(t *testing.T) {
	got := Tally([]Nomination{
		{NomineeName: "Zoe"},
		{NomineeName: "Adam"},
		{NomineeName: "Zoe"},
		{NomineeName: "Adam"},
		{NomineeName: "Mia"},
	})

	require.Len(t, got, 3)
	assert.Equal(t, "Adam", got[0].NomineeName)
	assert.Equal(t, "Zoe", got[1].NomineeName)
	assert.Equal(t, "Mia", got[2].NomineeName)
}

func TestTally_Empty(t *testing.T) {
	assert.Empty(t, Tally(nil))
}

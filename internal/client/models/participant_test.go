package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseEmails(t *testing.T) {
	got := ParseEmails("a@x.io, B@x.io\nc@x.io;;a@x.io\n\n")
	assert.Equal(t, []string{"a@x.io", "b@x.io", "c@x.io"}, got)
}

func TestVoteLink(t *testing.T) {
	assert.Equal(t, "https://app.example/vote?token=a%2Bb", VoteLink("https://app.example/", "a+b"))
}

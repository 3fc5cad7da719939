package chat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gasfinder/gasfinder/internal/chat"
	"github.com/gasfinder/gasfinder/internal/stations"
)

func TestTranscriptFor(t *testing.T) {
	transcript := chat.TranscriptFor(stations.Station{
		Name:     "NNPC Ikeja",
		IsActive: true,
	})

	assert.Equal(t, "NNPC Ikeja", transcript.StationName)
	assert.True(t, transcript.Active)
	require.NotEmpty(t, transcript.Messages)

	first := transcript.Messages[0]
	assert.Equal(t, "John D", first.Author)
	assert.Equal(t, "JD", first.Initials)
	assert.False(t, first.Mine)

	last := transcript.Messages[len(transcript.Messages)-1]
	assert.True(t, last.Mine)
}

func TestTranscriptFor_InactiveStation(t *testing.T) {
	transcript := chat.TranscriptFor(stations.Station{Name: "Mobil", Status: "Closed"})
	assert.False(t, transcript.Active)
}

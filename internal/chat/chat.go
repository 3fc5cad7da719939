// Package chat produces the simulated transcript shown in the station chat
// panel. There is no transport and no persistence; the send box in the UI is
// visual only.
package chat

import (
	"strings"

	"github.com/gasfinder/gasfinder/internal/stations"
)

// Message is a single transcript entry.
type Message struct {
	Author   string
	Initials string
	SentAt   string
	Body     string

	// Mine marks the viewer's own message, rendered on the right.
	Mine bool
}

// Transcript is the canned conversation for one station.
type Transcript struct {
	StationName string
	Active      bool
	Messages    []Message
}

// TranscriptFor builds the sample conversation for the selected station.
func TranscriptFor(station stations.Station) Transcript {
	return Transcript{
		StationName: station.Name,
		Active:      station.IsActive,
		Messages: []Message{
			newMessage("John D", "10:23 AM", "Hi, I'm on my way is there still gas?", false),
			newMessage("Sam M", "11:23 AM", "Yes oooo", false),
			newMessage("Precious E", "11:30 AM", "I heard there's a queue, is that true?", false),
			newMessage("You", "11:31 AM", "Yeah there's a queue", true),
		},
	}
}

func newMessage(author, sentAt, body string, mine bool) Message {
	return Message{
		Author:   author,
		Initials: initials(author),
		SentAt:   sentAt,
		Body:     body,
		Mine:     mine,
	}
}

// initials derives the avatar text from an author name.
func initials(name string) string {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return "?"
	}

	var b strings.Builder
	for i, part := range parts {
		if i == 2 {
			break
		}
		b.WriteString(strings.ToUpper(part[:1]))
	}
	return b.String()
}

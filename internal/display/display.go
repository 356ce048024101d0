// Package display renders recommendation lists as Markdown.
package display

import (
	"fmt"
	"strings"

	"github.com/justestif/pulseplay/internal/catalog"
)

// emptyMessage is shown when a mood matches no tracks.
const emptyMessage = "_No tracks match this mood._"

// Heading returns the subheading shown above a recommendation list.
func Heading(moodName string, k int) string {
	return fmt.Sprintf("Top %d Recommendations for a %s mood", k, moodName)
}

// Line formats a single track as "**name** by *artists* (Genre: genre)".
func Line(t catalog.Track) string {
	return fmt.Sprintf("**%s** by *%s* (Genre: %s)", t.Name, t.Artists, t.Genre)
}

// Markdown renders tracks one per line.
func Markdown(tracks []catalog.Track) string {
	if len(tracks) == 0 {
		return emptyMessage + "\n"
	}

	var sb strings.Builder
	for _, t := range tracks {
		sb.WriteString(Line(t))
		sb.WriteString("\n")
	}
	return sb.String()
}

// Document renders a heading followed by the track list.
func Document(moodName string, k int, tracks []catalog.Track) string {
	var sb strings.Builder
	sb.WriteString("## ")
	sb.WriteString(Heading(moodName, k))
	sb.WriteString("\n\n")
	sb.WriteString(Markdown(tracks))
	return sb.String()
}

package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the sonisync banner.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	lines := []struct{ text, color string }{
		{"  ___  ___  _ __ (_)___ _   _ _ __   ___", "#818cf8"},
		{" / __|/ _ \\| '_ \\| / __| | | | '_ \\ / __|", "#a78bfa"},
		{" \\__ \\ (_) | | | | \\__ \\ |_| | | | | (__", "#e879f9"},
		{" |___/\\___/|_| |_|_|___/\\__, |_| |_|\\___|", "#f472b6"},
		{"                        |___/", "#fb7185"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}

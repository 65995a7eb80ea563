// Package markdown renders help text for the terminal.
package markdown

import (
	_ "embed"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
)

//go:embed tips.md
var tips string

// Tips returns the Pomodoro tips as raw markdown.
func Tips() string { return tips }

type renderer interface {
	Render(string) (string, error)
}

var (
	rendererMu sync.Mutex
	renderers  = map[int]renderer{}
)

// Render formats markdown for a terminal of the given width. Rendering
// failures fall back to the input text.
func Render(width int, input string) string {
	value := strings.TrimRight(strings.ReplaceAll(input, "\r\n", "\n"), "\n")
	if strings.TrimSpace(value) == "" {
		return ""
	}
	if width < 20 {
		width = 20
	}

	out, ok := safeRender(markdownRenderer(width), value)
	if !ok {
		return value
	}
	return strings.TrimRight(out, "\n")
}

func safeRender(r renderer, value string) (out string, ok bool) {
	if r == nil {
		return "", false
	}
	defer func() {
		if recover() != nil {
			out, ok = "", false
		}
	}()
	formatted, err := r.Render(value)
	if err != nil {
		return "", false
	}
	return formatted, true
}

func markdownRenderer(width int) renderer {
	rendererMu.Lock()
	defer rendererMu.Unlock()
	if cached, ok := renderers[width]; ok {
		return cached
	}
	style := styles.ASCIIStyleConfig
	style.Item.BlockPrefix = "- "
	created, err := glamour.NewTermRenderer(
		glamour.WithStyles(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil
	}
	renderers[width] = created
	return created
}

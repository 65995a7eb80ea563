package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type panicRenderer struct{}

func (panicRenderer) Render(string) (string, error) {
	panic("boom")
}

func TestRender_Tips(t *testing.T) {
	out := Render(80, Tips())
	assert.Contains(t, out, "Pomodoro Tips")
	assert.Contains(t, out, "Focus on one task")
	assert.Contains(t, out, "Hydrate and breathe")
}

func TestRender_Empty(t *testing.T) {
	assert.Empty(t, Render(80, "  \n\n"))
}

func TestRender_RecoversFromRendererPanic(t *testing.T) {
	const width = 33

	rendererMu.Lock()
	renderers[width] = panicRenderer{}
	rendererMu.Unlock()
	t.Cleanup(func() {
		rendererMu.Lock()
		delete(renderers, width)
		rendererMu.Unlock()
	})

	assert.Equal(t, "hello", Render(width, "hello\n"))
}

package server

import (
	"bytes"
	"strings"
	"testing"

	"github.com/room4-2/InsureConverse/dialogue"
	"github.com/room4-2/InsureConverse/rag"
	"github.com/stretchr/testify/assert"
)

type stubRetriever struct{}

func (stubRetriever) Retrieve(query string, topK int) ([]rag.DocChunk, error) {
	return nil, nil
}

func TestRunConsoleGreetsAndExits(t *testing.T) {
	var out bytes.Buffer
	in := strings.NewReader("hello there\ngoodbye\n")

	RunConsole(dialogue.NewManager(stubRetriever{}), in, &out)

	s := out.String()
	assert.Contains(t, s, dialogue.Greeting)
	assert.Contains(t, s, "ending the call")
}

func TestRunConsoleSkipsBlankLines(t *testing.T) {
	var out bytes.Buffer
	in := strings.NewReader("\n\ngoodbye\n")

	RunConsole(dialogue.NewManager(stubRetriever{}), in, &out)

	// Blank lines never reach the dialogue core; only the exit turn does
	assert.Equal(t, 1, strings.Count(out.String(), "ending the call"))
}

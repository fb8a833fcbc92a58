package server

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/room4-2/InsureConverse/dialogue"
)

// RunConsole drives a single dialogue session over plain text, one line
// per turn. It is the development front end: same dialogue core as the
// WebSocket server, no transport in between.
func RunConsole(dlg *dialogue.Manager, in io.Reader, out io.Writer) {
	state := dialogue.NewSessionState()
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024)

	fmt.Fprintf(out, "agent> %s\n", dialogue.Greeting)

	for {
		fmt.Fprint(out, "you> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		res, err := dlg.HandleTurn(line, state)
		if err != nil {
			log.Printf("❌ Dialogue error: %v", err)
			fmt.Fprintf(out, "agent> Sorry, something went wrong on my end. Could you repeat that?\n")
			continue
		}

		fmt.Fprintf(out, "agent> %s\n", res.ResponseText)
		if res.EndCall {
			break
		}
	}
}

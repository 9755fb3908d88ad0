package linear

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.trai.ch/smake/internal/core/domain"
	"go.trai.ch/zerr"
)

// EndOfInput is the line that ends interactive input.
const EndOfInput = "."

// Prompter implements ports.Prompter on a plain reader.
// Interactive prompters read lines until a lone "." or EOF; others read to EOF.
type Prompter struct {
	in          io.Reader
	out         io.Writer
	interactive bool
}

// NewPrompter creates a Prompter reading in and writing hints to out.
func NewPrompter(in io.Reader, out io.Writer, interactive bool) *Prompter {
	return &Prompter{in: in, out: out, interactive: interactive}
}

type promptResult struct {
	text string
	err  error
}

// Prompt reads the instructions. Cancelling ctx returns domain.ErrPromptCancelled.
func (p *Prompter) Prompt(ctx context.Context, title string) (string, error) {
	if p.interactive {
		_, _ = fmt.Fprintf(p.out, "%s (end with a line containing only %q, or Ctrl-D):\n", title, EndOfInput)
	}

	// Reads cannot be interrupted, so a cancelled prompt leaves the reader goroutine behind.
	done := make(chan promptResult, 1)
	go func() {
		text, err := p.read()
		done <- promptResult{text: text, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", zerr.Wrap(domain.ErrPromptCancelled, ctx.Err().Error())
	case res := <-done:
		return res.text, res.err
	}
}

func (p *Prompter) read() (string, error) {
	if !p.interactive {
		data, err := io.ReadAll(p.in)
		if err != nil {
			return "", zerr.Wrap(domain.ErrInputReadFailed, err.Error())
		}
		return string(data), nil
	}

	// Lines of any length are accepted, so pasted text is never cut off.
	var b strings.Builder
	r := bufio.NewReader(p.in)
	for {
		line, err := r.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", zerr.Wrap(domain.ErrInputReadFailed, err.Error())
		}
		if line == "" && err != nil {
			break
		}

		line = strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")
		if line == EndOfInput {
			break
		}
		b.WriteString(line)
		b.WriteByte('\n')

		if err != nil {
			break
		}
	}

	return b.String(), nil
}

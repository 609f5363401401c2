// Package console provides the interactive side of the client: blocking
// prompts on the input stream and user-visible alerts.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
)

// ErrPromptAborted is returned when the input ends or the context is done
// before an answer is given.
var ErrPromptAborted = errors.New("prompt aborted")

// Prompter asks the user for a single line of input.
type Prompter interface {
	Prompt(ctx context.Context, message string) (string, error)
}

// Alerter surfaces a failure to the user.
type Alerter interface {
	Alert(err error)
}

type lineResult struct {
	line string
	err  error
}

// Console implements Prompter and Alerter on top of plain streams.
// Input is read by one background goroutine, so a cancelled prompt does
// not lose the line that arrives after it.
type Console struct {
	mu    sync.Mutex
	in    *bufio.Reader
	out   io.Writer
	err   io.Writer
	once  sync.Once
	lines chan lineResult
}

// New creates a Console reading answers from in, writing prompts to out and
// alerts to errOut.
func New(in io.Reader, out, errOut io.Writer) *Console {
	return &Console{
		in:    bufio.NewReader(in),
		out:   out,
		err:   errOut,
		lines: make(chan lineResult),
	}
}

// Prompt writes message and blocks until a line is read or ctx is done.
// The answer is returned without its line terminator and is otherwise not
// validated.
func (c *Console) Prompt(ctx context.Context, message string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprint(c.out, message+" ")
	return c.next(ctx)
}

// ReadLine reads the next line of input without writing a prompt.
func (c *Console) ReadLine(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.next(ctx)
}

func (c *Console) next(ctx context.Context) (string, error) {
	c.once.Do(func() { go c.readLoop() })
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%w: %w", ErrPromptAborted, ctx.Err())
	case res, ok := <-c.lines:
		if !ok {
			return "", ErrPromptAborted
		}
		return res.line, res.err
	}
}

// readLoop feeds lines to next until the input ends.
func (c *Console) readLoop() {
	defer close(c.lines)
	for {
		line, err := c.in.ReadString('\n')
		switch {
		case err == nil:
			c.lines <- lineResult{line: strings.TrimRight(line, "\r\n")}
		case errors.Is(err, io.EOF):
			if line != "" {
				c.lines <- lineResult{line: strings.TrimRight(line, "\r\n")}
			}
			return
		default:
			c.lines <- lineResult{err: fmt.Errorf("failed to read input: %w", err)}
			return
		}
	}
}

// Alert writes the error to the alert stream.
func (c *Console) Alert(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(c.err, "Error: %v\n", err)
}

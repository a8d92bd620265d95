package prompt

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
)

// Response is the user's answer to a notification
type Response struct {
	Option int
	Fields map[string]string
}

// Terminal presents notifications as text on an output stream and reads the user's
// answers line-by-line from an input stream. A single goroutine owns the input stream,
// so a Terminal remains usable after a Present call is canceled.
type Terminal struct {
	templates Templates
	in        *bufio.Reader
	out       io.Writer

	startReader sync.Once
	lines       chan string
	readErr     error
}

func NewTerminal(templates Templates, in io.Reader, out io.Writer) *Terminal {
	return &Terminal{
		templates: templates,
		in:        bufio.NewReader(in),
		out:       out,
		lines:     make(chan string),
	}
}

// Present shows the notification and blocks until the user has answered it or ctx is
// done. Input fields are only collected when the first option is chosen.
func (t *Terminal) Present(ctx context.Context, templateID string, substitutions map[string]string) (*Response, error) {
	tmpl, message, err := t.templates.Render(templateID, substitutions)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(t.out, "\n%s\n\n", message)

	option := OptionOK
	if len(tmpl.Options) > 1 {
		option, err = t.readOption(ctx, tmpl.Options)
		if err != nil {
			return nil, err
		}
	} else if len(tmpl.Options) == 1 {
		fmt.Fprintf(t.out, "[%s]\n", tmpl.Options[0])
	}

	fields := make(map[string]string)
	if option == OptionOK {
		for _, field := range tmpl.Fields {
			fmt.Fprintf(t.out, "%s: ", field.Label)
			value, err := t.readLine(ctx)
			if err != nil {
				return nil, err
			}
			fields[field.Name] = value
		}
	}
	return &Response{Option: option, Fields: fields}, nil
}

func (t *Terminal) readOption(ctx context.Context, options []string) (int, error) {
	labels := make([]string, 0, len(options))
	for i, label := range options {
		labels = append(labels, fmt.Sprintf("[%d] %s", i+1, label))
	}
	for {
		fmt.Fprintf(t.out, "%s (default %d): ", strings.Join(labels, "  "), OptionOK+1)
		line, err := t.readLine(ctx)
		if err != nil {
			return 0, err
		}
		if option, ok := parseOption(line, options); ok {
			return option, nil
		}
		fmt.Fprintf(t.out, "Please choose one of the options above.\n")
	}
}

// parseOption accepts a 1-based option number or an option label; an empty answer
// selects the first option
func parseOption(line string, options []string) (int, bool) {
	if line == "" {
		return OptionOK, true
	}
	if n, err := strconv.Atoi(line); err == nil {
		if n >= 1 && n <= len(options) {
			return n - 1, true
		}
		return 0, false
	}
	for i, label := range options {
		if strings.EqualFold(line, label) {
			return i, true
		}
	}
	return 0, false
}

// readLines feeds lines from the input stream to t.lines until the stream ends, then
// records the error and closes the channel
func (t *Terminal) readLines() {
	for {
		line, err := t.in.ReadString('\n')
		if err == io.EOF && line != "" {
			err = nil
		}
		if err != nil {
			t.readErr = err
			close(t.lines)
			return
		}
		t.lines <- strings.TrimSpace(line)
	}
}

// readLine waits for a line of input, giving up if ctx is done first. A line that
// arrives after a canceled read is kept for the next one.
func (t *Terminal) readLine(ctx context.Context) (string, error) {
	t.startReader.Do(func() {
		go t.readLines()
	})
	select {
	case line, ok := <-t.lines:
		if !ok {
			return "", t.readErr
		}
		return line, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

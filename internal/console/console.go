// Package console is the terminal front end of noted. It implements the
// notebook UI and Prompt interfaces on a line-oriented reader and writer
// and runs user commands against the controller.
//
// All input goes through one dispatcher. A line answers the oldest open
// prompt question if there is one, otherwise it is run as a command.
// Commands run one at a time; lines typed while a command runs are queued.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/alexjbarnes/noted/internal/index"
	"github.com/alexjbarnes/noted/internal/notebook"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// Console reads commands from in and writes to out.
type Console struct {
	in     io.Reader
	out    io.Writer
	logger *slog.Logger

	asks chan *question
	done chan struct{}
	once sync.Once

	mu       sync.Mutex // guards out and the fields below
	editor   string
	selected string
	listed   int
}

// question is a prompt waiting for the next input line. answer is
// closed without a value when input ends.
type question struct {
	text   string
	answer chan string
}

// Verify *Console satisfies the controller collaborators at compile time.
var (
	_ notebook.UI     = (*Console)(nil)
	_ notebook.Prompt = (*Console)(nil)
)

// New creates a console. Call Run to start reading input.
func New(in io.Reader, out io.Writer, logger *slog.Logger) *Console {
	return &Console{
		in:     in,
		out:    out,
		logger: logger,
		asks:   make(chan *question),
		done:   make(chan struct{}),
	}
}

func (c *Console) printf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, format, args...)
}

// --- notebook.UI ---

// RefreshNoteList records the size of the visible list. The list itself
// is printed on demand by the ls command.
func (c *Console) RefreshNoteList(notes []*index.Note) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listed = len(notes)
}

// SelectNote prints the new current note when it changes.
func (c *Console) SelectNote(fileName string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if fileName == c.selected {
		return
	}

	c.selected = fileName
	fmt.Fprintf(c.out, "current note: %s\n", fileName)
}

// SetEditorText replaces the buffer shown by the show command.
func (c *Console) SetEditorText(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.editor = text
}

// ShowTransientMessage prints a status message.
func (c *Console) ShowTransientMessage(text string, _ time.Duration) {
	c.printf("! %s\n", text)
}

// Editor returns the current editor buffer.
func (c *Console) Editor() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.editor
}

// --- notebook.Prompt ---

// ResolveConflict prints the diff between the in-memory and disk text
// and asks which side wins. End of input cancels.
func (c *Console) ResolveConflict(conflict notebook.Conflict) notebook.Resolution {
	dmp := diffmatchpatch.New()

	c.printf("\n%s was modified outside of noted.\n--- diff (removed: yours, added: on disk) ---\n%s\n---\n",
		conflict.FileName, dmp.DiffPrettyText(conflict.Diffs))

	for {
		line, ok := c.ask("[o]verwrite with yours, [r]eload from disk, [i]gnore, [c]ancel? ")
		if !ok {
			return notebook.ResolutionCancel
		}

		if r, ok := parseResolution(line); ok {
			return r
		}
	}
}

// ConfirmRestore asks whether a deleted note is written back.
func (c *Console) ConfirmRestore(fileName string) bool {
	return c.confirm(fmt.Sprintf("%s was removed outside of noted. Restore it? [y/N] ", fileName))
}

// ConfirmRemove asks before deleting a note.
func (c *Console) ConfirmRemove(fileName string) bool {
	return c.confirm(fmt.Sprintf("Remove %s? [y/N] ", fileName))
}

func (c *Console) confirm(text string) bool {
	line, ok := c.ask(text)
	if !ok {
		return false
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

func parseResolution(line string) (notebook.Resolution, bool) {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "o", "overwrite":
		return notebook.ResolutionOverwrite, true
	case "r", "reload":
		return notebook.ResolutionReload, true
	case "i", "ignore":
		return notebook.ResolutionIgnore, true
	case "c", "cancel":
		return notebook.ResolutionCancel, true
	default:
		return notebook.ResolutionCancel, false
	}
}

// ask hands a question to the dispatcher and waits for the answer line.
// Returns false once input has ended.
func (c *Console) ask(text string) (string, bool) {
	q := &question{text: text, answer: make(chan string, 1)}

	select {
	case c.asks <- q:
	case <-c.done:
		return "", false
	}

	line, ok := <-q.answer

	return line, ok
}

// --- dispatcher ---

// Run reads input until it ends, the quit command is given or the
// context is cancelled. Commands run on the controller loop through
// Controller.Do.
func (c *Console) Run(ctx context.Context, ctrl *notebook.Controller) error {
	defer c.once.Do(func() { close(c.done) })

	lines := make(chan string)
	go c.readLines(lines)

	var (
		queue   []string
		open    []*question
		running chan bool
		eof     bool
	)

	c.printf("noted: type help for commands\n")

	for {
		// Answer open questions first, then start the next command.
		for len(queue) > 0 {
			if len(open) > 0 {
				open[0].answer <- queue[0]
				open, queue = open[1:], queue[1:]

				continue
			}

			if running != nil {
				break
			}

			line := queue[0]
			queue = queue[1:]

			if strings.TrimSpace(line) == "" {
				continue
			}

			running = make(chan bool, 1)
			go func(done chan<- bool) {
				done <- c.execute(ctx, ctrl, line)
			}(running)
		}

		if eof && running == nil && len(queue) == 0 {
			return nil
		}

		select {
		case <-ctx.Done():
			for _, q := range open {
				close(q.answer)
			}

			return ctx.Err()

		case q := <-c.asks:
			if eof && len(queue) == 0 {
				close(q.answer)
				continue
			}

			c.printf("%s", q.text)
			open = append(open, q)

		case line, ok := <-lines:
			if !ok {
				eof = true
				lines = nil

				for _, q := range open {
					close(q.answer)
				}

				open = nil

				continue
			}

			queue = append(queue, line)

		case quit := <-running:
			running = nil

			if quit {
				for _, q := range open {
					close(q.answer)
				}

				return nil
			}
		}
	}
}

func (c *Console) readLines(lines chan<- string) {
	defer close(lines)

	scanner := bufio.NewScanner(c.in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	for scanner.Scan() {
		select {
		case lines <- scanner.Text():
		case <-c.done:
			return
		}
	}

	if err := scanner.Err(); err != nil {
		c.logger.Warn("reading console input", slog.String("error", err.Error()))
	}
}

package console

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/alexjbarnes/noted/internal/index"
	"github.com/alexjbarnes/noted/internal/notebook"
)

const helpText = `commands:
  ls                   list visible notes (* current, + unsaved)
  open <name|number>   make a note current
  new <name>           create a note
  rm                   remove the current note
  show                 print the current note
  edit <text>          replace the current note text (\n for newlines)
  append <text>        append a line to the current note
  save                 store unsaved notes now
  next | prev          step through the visible notes
  back | fwd           walk the note history
  filter [text]        filter by name or content, no text clears
  tag [tag]            filter by front matter tag, no tag clears
  tags                 list tags
  bm set|go <0-9>      set or jump to a bookmark
  encrypt <password>   encrypt the current note
  unlock <password>    show an encrypted note for editing
  decrypt <password>   remove the encryption of the current note
  media <url>          download media and link it in the current note
  folder <id>          switch to a stored note folder
  quit                 store notes and exit
`

// execute runs one command line. Returns true when the console should
// stop.
func (c *Console) execute(ctx context.Context, ctrl *notebook.Controller, line string) bool {
	name, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)

	var err error

	switch name {
	case "help", "?":
		c.printf("%s", helpText)

	case "quit", "exit", "q":
		return true

	case "ls":
		err = c.list(ctx, ctrl)

	case "open":
		err = c.do(ctx, ctrl, func() error { return openNote(ctrl, arg) })

	case "new":
		err = c.do(ctx, ctrl, func() error {
			_, err := ctrl.CreateNote(arg)
			return err
		})

	case "rm":
		err = c.do(ctx, ctrl, func() error {
			removed, err := ctrl.RemoveCurrentNote()
			if err == nil && !removed {
				c.printf("kept\n")
			}
			return err
		})

	case "show":
		c.printf("%s\n", c.Editor())

	case "edit":
		err = c.do(ctx, ctrl, func() error { return ctrl.EditText(unescape(arg)) })

	case "append":
		err = c.do(ctx, ctrl, func() error {
			text, err := ctrl.EditorText()
			if err != nil {
				return err
			}
			return ctrl.EditText(appendLine(text, unescape(arg)))
		})

	case "save":
		err = c.do(ctx, ctrl, func() error {
			c.printf("stored %d note(s)\n", ctrl.StoreDirtyNotes())
			return nil
		})

	case "next":
		err = c.do(ctx, ctrl, ctrl.NextNote)

	case "prev":
		err = c.do(ctx, ctrl, ctrl.PreviousNote)

	case "back":
		err = c.do(ctx, ctrl, ctrl.Back)

	case "fwd", "forward":
		err = c.do(ctx, ctrl, ctrl.Forward)

	case "filter":
		err = c.do(ctx, ctrl, func() error {
			ctrl.SetFilter(arg, "")
			return nil
		})

	case "tag":
		err = c.do(ctx, ctrl, func() error {
			ctrl.SetFilter("", strings.TrimPrefix(arg, "#"))
			return nil
		})

	case "tags":
		err = c.do(ctx, ctrl, func() error {
			tags, err := ctrl.Tags()
			if err == nil {
				c.printf("%s\n", strings.Join(tags, " "))
			}
			return err
		})

	case "bm":
		err = c.do(ctx, ctrl, func() error { return bookmark(ctrl, arg) })

	case "encrypt":
		err = c.do(ctx, ctrl, func() error { return ctrl.EncryptCurrentNote(arg) })

	case "unlock":
		err = c.do(ctx, ctrl, func() error { return ctrl.UnlockCurrentNote(arg) })

	case "decrypt":
		err = c.do(ctx, ctrl, func() error { return ctrl.DecryptCurrentNote(arg) })

	case "media":
		err = c.do(ctx, ctrl, func() error {
			link, err := ctrl.DownloadMedia(ctx, arg)
			if err != nil {
				return err
			}

			text, err := ctrl.EditorText()
			if err != nil {
				return err
			}

			return ctrl.EditText(appendLine(text, link))
		})

	case "folder":
		err = c.do(ctx, ctrl, func() error {
			id, err := strconv.Atoi(arg)
			if err != nil {
				return fmt.Errorf("folder id %q: %w", arg, err)
			}
			return ctrl.ChangeNoteFolder(id)
		})

	default:
		c.printf("unknown command %q, type help\n", name)
	}

	if err != nil {
		c.printf("error: %v\n", err)
	}

	return false
}

// do runs fn on the controller loop.
func (c *Console) do(ctx context.Context, ctrl *notebook.Controller, fn func() error) error {
	var err error

	if derr := ctrl.Do(ctx, func() { err = fn() }); derr != nil {
		return derr
	}

	return err
}

func (c *Console) list(ctx context.Context, ctrl *notebook.Controller) error {
	var (
		notes   []*index.Note
		current string
	)

	if err := ctrl.Do(ctx, func() {
		notes = ctrl.VisibleNotes()
		current = ctrl.CurrentFileName()
	}); err != nil {
		return err
	}

	if len(notes) == 0 {
		c.printf("no notes\n")
		return nil
	}

	var b strings.Builder

	for i, n := range notes {
		marker := " "
		if n.FileName == current {
			marker = "*"
		}

		dirty := " "
		if n.Dirty {
			dirty = "+"
		}

		fmt.Fprintf(&b, "%s%s %3d  %-40s %s", marker, dirty, i+1, n.FileName, n.Modified.Format("2006-01-02 15:04"))

		if len(n.Tags) > 0 {
			fmt.Fprintf(&b, "  #%s", strings.Join(n.Tags, " #"))
		}

		b.WriteByte('\n')
	}

	c.printf("%s", b.String())

	return nil
}

// openNote resolves arg as a 1-based position in the visible list or a
// file name, with or without extension.
func openNote(ctrl *notebook.Controller, arg string) error {
	if pos, err := strconv.Atoi(arg); err == nil {
		notes := ctrl.VisibleNotes()
		if pos < 1 || pos > len(notes) {
			return fmt.Errorf("no note at position %d", pos)
		}

		return ctrl.SetCurrentNote(notes[pos-1].FileName)
	}

	if !notebook.IsNoteFile(arg) {
		if _, err := ctrl.Note(arg + ".md"); err == nil {
			arg += ".md"
		} else {
			arg += ".txt"
		}
	}

	return ctrl.SetCurrentNote(arg)
}

func bookmark(ctrl *notebook.Controller, arg string) error {
	action, slotArg, _ := strings.Cut(arg, " ")

	slot, err := strconv.Atoi(strings.TrimSpace(slotArg))
	if err != nil {
		return fmt.Errorf("bookmark slot %q: %w", slotArg, err)
	}

	switch action {
	case "set":
		return ctrl.SetBookmark(slot, 0)
	case "go":
		_, err := ctrl.GotoBookmark(slot)
		return err
	default:
		return fmt.Errorf("unknown bookmark action %q, use set or go", action)
	}
}

func unescape(s string) string {
	return strings.ReplaceAll(s, `\n`, "\n")
}

func appendLine(text, line string) string {
	if text != "" && !strings.HasSuffix(text, "\n") {
		text += "\n"
	}

	return text + line + "\n"
}

package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"text/template"

	"github.com/pixil98/go-arena/internal/display"
	"github.com/pixil98/go-arena/internal/session"
	"github.com/pixil98/go-arena/internal/storage"
)

const (
	MaxNameLength = 20
	nameTries     = 3
)

// PresetSource looks up stored settings presets.
type PresetSource interface {
	Get(storage.Identifier) (*storage.Preset, bool)
	Ids() []storage.Identifier
}

// Console is an operator shell over the session bound to the connection's
// context.
type Console struct {
	sess     *session.Session
	presets  PresetSource
	status   *template.Template
	commands map[string]command
}

func NewConsole(sess *session.Session, presets PresetSource) *Console {
	c := &Console{
		sess:    sess,
		presets: presets,
		status:  template.Must(template.New("status").Funcs(templateFuncs()).Parse(statusTemplate)),
	}
	c.commands = c.buildCommands()
	return c
}

// AcceptConnection runs a console session on conn until the client quits or
// the connection ends.
func (c *Console) AcceptConnection(ctx context.Context, conn io.ReadWriter) {
	ctx = session.WithSession(ctx, c.sess)
	if err := c.Run(ctx, conn); err != nil {
		slog.WarnContext(ctx, "console session", "error", err)
	}
}

// Run serves rw using the session found in ctx.
func (c *Console) Run(ctx context.Context, rw io.ReadWriter) error {
	sess := session.FromContext(ctx)
	br := bufio.NewReader(rw)

	if _, err := io.WriteString(rw, "Welcome to the arena.\n"); err != nil {
		return err
	}

	name, err := Prompt(br, rw, "What is your name? ", WithValidator(validateName), WithMaxTries(nameTries))
	if err != nil {
		return ignoreEOF(err)
	}
	name = strings.TrimSpace(name)

	if err := sess.Dispatch(ctx, session.CreateOrRenamePlayer{Name: name}); err != nil {
		return err
	}
	slog.InfoContext(ctx, "console attached", "name", name)
	fmt.Fprintf(rw, "Hello, %s. Type 'help' for a list of commands.\n", name)

	for {
		line, err := Prompt(br, rw, "> ")
		if err != nil {
			return ignoreEOF(err)
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		cmd, ok := c.commands[strings.ToLower(fields[0])]
		if !ok {
			fmt.Fprintf(rw, "Unknown command %q.\n", fields[0])
			continue
		}

		out, err := cmd.run(ctx, sess, fields[1:])
		switch {
		case errors.Is(err, errQuit):
			_, _ = io.WriteString(rw, "Goodbye.\n")
			return nil
		case errors.Is(err, session.ErrSessionClosed), errors.Is(err, context.Canceled):
			return nil
		case errors.As(err, new(*usageError)):
			fmt.Fprintf(rw, "%s\n", display.Capitalize(err.Error()))
			continue
		case err != nil:
			return err
		}

		if out != "" {
			_, _ = io.WriteString(rw, display.Wrap(out)+"\n")
		}
	}
}

func validateName(s string) (bool, string) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return false, "Your name cannot be empty.\n"
	case len([]rune(s)) > MaxNameLength:
		return false, fmt.Sprintf("Your name can be at most %d characters.\n", MaxNameLength)
	}
	return true, ""
}

func ignoreEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

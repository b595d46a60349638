package share

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

var (
	lookPath   = exec.LookPath
	runCommand = func(cmd *exec.Cmd) error { return cmd.Run() }
)

// Command runs an external program with the image path as its last argument
// and the text on stdin. The text and MIME type are also exported as
// CAPTIONSHARE_TEXT and CAPTIONSHARE_MIME.
type Command struct {
	Args []string
}

// NewCommand splits a configured command line on whitespace.
func NewCommand(line string) Command {
	return Command{Args: strings.Fields(line)}
}

func (c Command) Name() string { return "command" }

func (c Command) Description() string {
	if len(c.Args) == 0 {
		return "Run share command"
	}
	return "Run " + strings.Join(c.Args, " ")
}

func (c Command) Available() bool {
	if len(c.Args) == 0 {
		return false
	}
	_, err := lookPath(c.Args[0])
	return err == nil
}

func (c Command) Send(ctx context.Context, req Request) error {
	if len(c.Args) == 0 {
		return fmt.Errorf("no share command configured")
	}
	args := append([]string(nil), c.Args[1:]...)
	if !req.Image.IsZero() {
		args = append(args, req.Image.Path())
	}
	cmd := exec.CommandContext(ctx, c.Args[0], args...)
	cmd.Stdin = strings.NewReader(req.Text)
	cmd.Env = append(os.Environ(), "CAPTIONSHARE_TEXT="+req.Text, "CAPTIONSHARE_MIME="+req.MIMEType)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := runCommand(cmd); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%s: %w: %s", c.Args[0], err, msg)
		}
		return fmt.Errorf("%s: %w", c.Args[0], err)
	}
	return nil
}

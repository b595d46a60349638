package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/example/captionshare/internal/config"
)

type configCmd struct {
	*root
	stdout io.Writer
	stderr io.Writer
	loader *config.Loader
}

func parseConfigCmd(args []string, r *root) (*configCmd, error) {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	c := &configCmd{
		root:   r.subcommand("config"),
		stdout: os.Stdout,
		stderr: os.Stderr,
		loader: config.NewLoader(version, configPathOverride),
	}
	c.root.fs = fs
	fs.Usage = usageFunc(c)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *configCmd) Run() error {
	args := c.fs.Args()
	if len(args) < 1 {
		return &UsageError{of: c}
	}

	switch args[0] {
	case "print":
		return c.runPrint()
	case "save":
		return c.runSave()
	case "path":
		return c.runPath()
	default:
		return fmt.Errorf("unknown config command: %s", args[0])
	}
}

func (c *configCmd) current() *config.Config {
	if c.config == nil {
		return config.New()
	}
	return c.config
}

func (c *configCmd) runPrint() error {
	_, err := fmt.Fprint(c.stdout, c.current().String())
	return err
}

// savePath is the file the loader read from, or the default location when
// no config file exists yet.
func (c *configCmd) savePath() string {
	if path := c.loader.GetConfigPath(); path != "" {
		return path
	}
	return c.loader.DefaultPath()
}

func (c *configCmd) runSave() error {
	path := c.savePath()
	if err := config.Save(c.current(), path); err != nil {
		return err
	}
	fmt.Fprintf(c.stderr, "Configuration saved to %s\n", path)
	return nil
}

func (c *configCmd) runPath() error {
	_, err := fmt.Fprintln(c.stdout, c.savePath())
	return err
}

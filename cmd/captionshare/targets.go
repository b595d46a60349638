package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/example/captionshare/internal/share"
)

type targetsCmd struct {
	*root
	stdout io.Writer
}

func parseTargetsCmd(args []string, r *root) (*targetsCmd, error) {
	fs := flag.NewFlagSet("targets", flag.ExitOnError)
	c := &targetsCmd{root: r.subcommand("targets"), stdout: os.Stdout}
	c.root.fs = fs
	fs.Usage = usageFunc(c)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, &UsageError{of: c}
	}
	return c, nil
}

func (t *targetsCmd) Run() error {
	targets := t.gateway().Targets()
	if len(targets) == 0 {
		return share.ErrNoTargets
	}
	tw := tabwriter.NewWriter(t.stdout, 0, 4, 2, ' ', 0)
	for _, target := range targets {
		fmt.Fprintf(tw, "%s\t%s\n", target.Name(), target.Description())
	}
	return tw.Flush()
}

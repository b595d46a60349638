package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
)

type pickCmd struct {
	*root
	stdout io.Writer
}

func parsePickCmd(args []string, r *root) (*pickCmd, error) {
	fs := flag.NewFlagSet("pick", flag.ExitOnError)
	c := &pickCmd{root: r.subcommand("pick"), stdout: os.Stdout}
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

func (p *pickCmd) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ref, ok, err := defaultPicker().Pick(ctx)
	if err != nil {
		return fmt.Errorf("pick photo: %w", err)
	}
	if !ok {
		return nil
	}
	p.notifyPick(ref.Path())
	_, err = fmt.Fprintln(p.stdout, ref.URI())
	return err
}

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/example/captionshare/internal/caption"
	"github.com/example/captionshare/internal/share"
)

type shareCmd struct {
	*root
	file   string
	text   string
	lat    string
	lon    string
	target string
	stderr io.Writer
}

func parseShareCmd(args []string, r *root) (*shareCmd, error) {
	fs := flag.NewFlagSet("share", flag.ExitOnError)
	c := &shareCmd{root: r.subcommand("share"), stderr: os.Stderr}
	c.root.fs = fs
	fs.Usage = usageFunc(c)
	defTarget := ""
	if r.config != nil {
		defTarget = r.config.ShareTarget
	}
	fs.StringVar(&c.file, "file", "", "photo to attach")
	fs.StringVar(&c.text, "text", "", "caption text")
	fs.StringVar(&c.lat, "lat", "", "latitude in degrees")
	fs.StringVar(&c.lon, "lon", "", "longitude in degrees")
	fs.StringVar(&c.target, "target", defTarget, "share target (email, clipboard, command)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, &UsageError{of: c}
	}
	if strings.TrimSpace(c.file) == "" && strings.TrimSpace(c.text) == "" {
		return nil, &UsageError{of: c}
	}
	return c, nil
}

func (s *shareCmd) Run() error {
	coords, err := parseCoordinates(s.lat, s.lon)
	if err != nil {
		return err
	}
	ref, err := referenceFor(s.file)
	if err != nil {
		return err
	}
	g := s.gateway()
	t, err := g.Lookup(s.target)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	req := share.NewRequest(ref, caption.OverlayText(s.text, coords))
	if err := g.Share(ctx, t.Name(), req); err != nil {
		return err
	}
	fmt.Fprintf(s.stderr, "Shared via %s\n", t.Name())
	return nil
}

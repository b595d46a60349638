package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/example/captionshare/internal/appstate"
	"github.com/example/captionshare/internal/caption"
	"github.com/example/captionshare/internal/config"
	"github.com/example/captionshare/internal/media"
	"github.com/example/captionshare/internal/picker"
	"github.com/example/captionshare/internal/preview"
)

// defaultPicker is replaced in tests.
var defaultPicker = picker.Default

type openCmd struct {
	*root
	file    string
	caption string
	lat     string
	lon     string
}

func parseOpenCmd(args []string, r *root) (*openCmd, error) {
	fs := flag.NewFlagSet("open", flag.ExitOnError)
	c := &openCmd{root: r.subcommand("open")}
	c.root.fs = fs
	fs.Usage = usageFunc(c)
	fs.StringVar(&c.file, "file", "", "photo to preselect")
	fs.StringVar(&c.caption, "caption", "", "initial caption")
	fs.StringVar(&c.lat, "lat", "", "latitude in degrees")
	fs.StringVar(&c.lon, "lon", "", "longitude in degrees")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, &UsageError{of: c}
	}
	return c, nil
}

// store seeds a caption store from the command line.
func (o *openCmd) store() (*caption.Store, error) {
	coords, err := parseCoordinates(o.lat, o.lon)
	if err != nil {
		return nil, err
	}
	ref, err := referenceFor(o.file)
	if err != nil {
		return nil, err
	}
	cfg := o.config
	if cfg == nil {
		cfg = config.New()
	}
	opts := []caption.Option{
		caption.WithImage(ref),
		caption.WithCoordinates(coords),
		caption.WithKeyboardSource(cfg.KeyboardSource()),
	}
	if o.caption != "" {
		opts = append(opts, caption.WithCaption(o.caption))
	}
	return caption.NewStore(opts...), nil
}

func (o *openCmd) Run() error {
	store, err := o.store()
	if err != nil {
		return err
	}
	cfg := o.config
	if cfg == nil {
		cfg = config.New()
	}
	ref := store.Snapshot().Image
	st := appstate.New(
		appstate.WithStore(store),
		appstate.WithPicker(defaultPicker()),
		appstate.WithGateway(o.gateway()),
		appstate.WithTheme(o.activeTheme),
		appstate.WithScale(cfg.ScaleFactor()),
		appstate.WithShareTarget(cfg.ShareTarget),
		appstate.WithPreviewLayout(func(width int) preview.Layout { return cfg.PreviewLayout(width) }),
		appstate.WithTitle(windowTitle(titleOptions{File: ref.Name()})),
		appstate.WithOnPicked(func(r media.Reference) { o.notifyPick(r.Path()) }),
	)
	st.Run()
	return nil
}

// referenceFor turns an optional -file value into a reference, checking
// that the file exists.
func referenceFor(path string) (media.Reference, error) {
	if path == "" {
		return media.Reference{}, nil
	}
	if _, err := os.Stat(path); err != nil {
		return media.Reference{}, fmt.Errorf("photo %s: %w", path, err)
	}
	return media.FromPath(path), nil
}

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/example/captionshare/internal/caption"
)

var errPartialCoordinates = errors.New("both -lat and -lon are required")

// parseCoordinates reads optional -lat/-lon values. Both empty means no
// coordinates.
func parseCoordinates(lat, lon string) (*caption.Coordinates, error) {
	lat, lon = strings.TrimSpace(lat), strings.TrimSpace(lon)
	if lat == "" && lon == "" {
		return nil, nil
	}
	if lat == "" || lon == "" {
		return nil, errPartialCoordinates
	}
	la, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid latitude %q: %w", lat, err)
	}
	lo, err := strconv.ParseFloat(lon, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid longitude %q: %w", lon, err)
	}
	c := &caption.Coordinates{Latitude: la, Longitude: lo}
	if !c.Valid() {
		return nil, fmt.Errorf("coordinates out of range: %s", c)
	}
	return c, nil
}

type captionCmd struct {
	*root
	text   string
	lat    string
	lon    string
	stdout io.Writer
}

func parseCaptionCmd(args []string, r *root) (*captionCmd, error) {
	fs := flag.NewFlagSet("caption", flag.ExitOnError)
	c := &captionCmd{root: r.subcommand("caption"), stdout: os.Stdout}
	c.root.fs = fs
	fs.Usage = usageFunc(c)
	fs.StringVar(&c.text, "text", "", "caption text")
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

func (c *captionCmd) Run() error {
	coords, err := parseCoordinates(c.lat, c.lon)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.stdout, caption.OverlayText(c.text, coords))
	return err
}

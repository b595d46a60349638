package main

import (
	"fmt"
	"strings"

	"github.com/example/captionshare/internal/appstate"
)

type titleOptions struct {
	File   string
	Extras []string
}

func windowTitle(opts titleOptions) string {
	parts := []string{appstate.ProgramTitle}

	file := strings.TrimSpace(opts.File)
	if file != "" {
		parts = append(parts, file)
	}

	extras := make([]string, 0, len(opts.Extras)+1)
	if v := strings.TrimSpace(version); v != "" && v != "dev" {
		extras = append(extras, fmt.Sprintf("v%s", v))
	}
	extras = append(extras, opts.Extras...)
	parts = append(parts, extras...)

	return strings.Join(parts, " - ")
}

package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/example/captionshare/internal/config"
	"github.com/example/captionshare/internal/notify"
	"github.com/example/captionshare/internal/share"
	"github.com/example/captionshare/internal/theme"
)

var (
	version            = "dev"
	commit             = ""
	date               = ""
	configPathOverride = ""
)

// shareTargets builds the targets offered by the gateway. Tests replace it.
var shareTargets = func(cfg *config.Config) []share.Target {
	return share.DefaultTargets(cfg.ShareCommand)
}

type runnable interface{ Run() error }

type root struct {
	fs          *flag.FlagSet
	program     string
	notifier    *notify.Notifier
	config      *config.Config
	pickAlerts  bool
	shareAlerts bool
	copyAlerts  bool
	themeName   string
	activeTheme *theme.Theme
}

func (r *root) Program() string {
	return r.program
}

func (r *root) subcommand(name string) *root {
	program := strings.TrimSpace(strings.Join([]string{r.program, name}, " "))
	return &root{
		program:     program,
		notifier:    r.notifier,
		config:      r.config,
		pickAlerts:  r.pickAlerts,
		shareAlerts: r.shareAlerts,
		copyAlerts:  r.copyAlerts,
		themeName:   r.themeName,
		activeTheme: r.activeTheme,
	}
}

func (r *root) FlagSet() *flag.FlagSet {
	return r.fs
}

func newRoot() *root {
	prefs := notify.LoadPreferences()
	loader := config.NewLoader(version, configPathOverride)
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to load config: %v\n", err)
		cfg = config.New()
	}

	r := &root{
		fs:       flag.NewFlagSet("captionshare", flag.ExitOnError),
		program:  "captionshare",
		notifier: notify.New(prefs),
		config:   cfg,
	}
	r.fs.BoolVar(&r.pickAlerts, "notify-pick", cfg.Notify.Pick, "show a desktop notification after selecting a photo")
	r.fs.BoolVar(&r.shareAlerts, "notify-share", cfg.Notify.Share, "show a desktop notification after sharing")
	r.fs.BoolVar(&r.copyAlerts, "notify-copy", cfg.Notify.Copy, "show a desktop notification after copying to the clipboard")

	// Precedence: CLI > Env > Config > Default
	r.fs.StringVar(&r.themeName, "theme", "", "color theme to use (default, dark, high_contrast)")
	r.fs.Usage = usageFunc(r)
	return r
}

// resolveTheme picks the theme named by the flag, the environment or the
// config, in that order, falling back to the default theme.
func (r *root) resolveTheme() *theme.Theme {
	themeName := r.themeName
	if themeName == "" {
		themeName = os.Getenv("CAPTIONSHARE_THEME")
	}
	if themeName == "" && r.config != nil {
		themeName = r.config.Theme
	}
	if r.config != nil {
		if t, ok := r.config.Themes[themeName]; ok {
			return t
		}
	}
	t, err := theme.NewLoader().Load(themeName)
	if err != nil {
		if themeName != "" && themeName != "default" {
			fmt.Fprintf(os.Stderr, "warning: failed to load theme '%s': %v. using default.\n", themeName, err)
		}
		return theme.Default()
	}
	return t
}

func (r *root) Run(args []string) error {
	if err := r.fs.Parse(args); err != nil {
		return err
	}
	if r.fs.NArg() < 1 {
		return &UsageError{of: r}
	}
	if r.notifier != nil {
		r.notifier.Enable(notify.EventPick, r.pickAlerts)
		r.notifier.Enable(notify.EventShare, r.shareAlerts)
		r.notifier.Enable(notify.EventCopy, r.copyAlerts)
	}
	r.activeTheme = r.resolveTheme()

	cmdName := r.fs.Arg(0)
	subArgs := r.fs.Args()[1:]

	var (
		cmd runnable
		err error
	)
	switch cmdName {
	case "open":
		cmd, err = parseOpenCmd(subArgs, r)
	case "pick":
		cmd, err = parsePickCmd(subArgs, r)
	case "caption":
		cmd, err = parseCaptionCmd(subArgs, r)
	case "share":
		cmd, err = parseShareCmd(subArgs, r)
	case "targets":
		cmd, err = parseTargetsCmd(subArgs, r)
	case "config":
		cmd, err = parseConfigCmd(subArgs, r)
	case "version":
		cmd = &versionCmd{root: r.subcommand("version")}
	default:
		err = &UsageError{of: r}
	}
	if err != nil {
		return err
	}
	return cmd.Run()
}

func main() {
	r := newRoot()
	if err := r.Run(os.Args[1:]); err != nil {
		var uerr *UsageError
		if errors.As(err, &uerr) {
			fmt.Fprintln(os.Stderr, uerr.Error())
		} else {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
}

// gateway returns a share gateway whose successful shares raise the
// matching desktop notification.
func (r *root) gateway() *share.Gateway {
	cfg := r.config
	if cfg == nil {
		cfg = config.New()
	}
	g := share.New(shareTargets(cfg)...)
	g.OnShared = func(target string, req share.Request) {
		if target == (share.Clipboard{}).Name() {
			r.notifyCopy("caption")
			return
		}
		r.notifyShare(target, req.Image.Path())
	}
	return g
}

func (r *root) notifyPick(path string) {
	if r == nil || r.notifier == nil {
		return
	}
	r.notifier.Pick(path)
}

func (r *root) notifyShare(target, imagePath string) {
	if r == nil || r.notifier == nil {
		return
	}
	r.notifier.Share(target, imagePath)
}

func (r *root) notifyCopy(detail string) {
	if r == nil || r.notifier == nil {
		return
	}
	r.notifier.Copy(detail)
}

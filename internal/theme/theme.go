package theme

import (
	"embed"
	"image/color"
)

// EmbeddedThemes holds the themes shipped with the binary.
//
//go:embed defaults/*.theme
var EmbeddedThemes embed.FS

// Theme defines the color palette for the application UI.
type Theme struct {
	Name string

	// General
	Background color.RGBA // Window background
	Foreground color.RGBA // Labels and hints

	// Buttons
	ButtonBackground      color.RGBA
	ButtonBackgroundHover color.RGBA
	ButtonBackgroundPress color.RGBA
	ButtonText            color.RGBA
	ButtonTextHover       color.RGBA
	ButtonTextPress       color.RGBA
	ButtonBorder          color.RGBA

	// Caption field
	FieldBackground  color.RGBA
	FieldBorder      color.RGBA
	FieldBorderFocus color.RGBA
	FieldText        color.RGBA
	FieldPlaceholder color.RGBA
	Caret            color.RGBA

	// Preview viewport, drawn behind the photo
	PreviewBackground color.RGBA

	// Status bar
	StatusBackground color.RGBA
	StatusText       color.RGBA
	StatusError      color.RGBA

	// Share chooser overlay
	ChooserBackground color.RGBA
	ChooserHighlight  color.RGBA
	ChooserText       color.RGBA
}

// Default returns the hardcoded default light theme (fallback).
func Default() *Theme {
	return &Theme{
		Name:                  "Default",
		Background:            color.RGBA{236, 236, 236, 255},
		Foreground:            color.RGBA{32, 32, 32, 255},
		ButtonBackground:      color.RGBA{200, 200, 200, 255},
		ButtonBackgroundHover: color.RGBA{180, 180, 180, 255},
		ButtonBackgroundPress: color.RGBA{150, 150, 150, 255},
		ButtonText:            color.RGBA{0, 0, 0, 255},
		ButtonTextHover:       color.RGBA{0, 0, 0, 255},
		ButtonTextPress:       color.RGBA{0, 0, 0, 255},
		ButtonBorder:          color.RGBA{0, 0, 0, 255},
		FieldBackground:       color.RGBA{255, 255, 255, 255},
		FieldBorder:           color.RGBA{160, 160, 160, 255},
		FieldBorderFocus:      color.RGBA{40, 110, 220, 255},
		FieldText:             color.RGBA{0, 0, 0, 255},
		FieldPlaceholder:      color.RGBA{140, 140, 140, 255},
		Caret:                 color.RGBA{0, 0, 0, 255},
		PreviewBackground:     color.RGBA{64, 64, 64, 255},
		StatusBackground:      color.RGBA{220, 220, 220, 255},
		StatusText:            color.RGBA{0, 0, 0, 255},
		StatusError:           color.RGBA{180, 0, 0, 255},
		ChooserBackground:     color.RGBA{250, 250, 250, 255},
		ChooserHighlight:      color.RGBA{200, 220, 250, 255},
		ChooserText:           color.RGBA{0, 0, 0, 255},
	}
}

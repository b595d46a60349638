package assets

import (
	"embed"
	"fmt"
	"image"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/example/captionshare/internal/media"
)

// Embedded icon assets for CaptionShare.
//
//go:embed icons/*.svg
var embeddedIcons embed.FS

type iconKey struct {
	name string
	size int
}

var (
	iconMu    sync.Mutex
	iconCache = map[iconKey]*image.RGBA{}
)

// IconSVG returns a copy of the SVG source of the named icon.
func IconSVG(name string) ([]byte, error) {
	data, err := embeddedIcons.ReadFile(path.Join("icons", name+".svg"))
	if err != nil {
		return nil, fmt.Errorf("icon %s not embedded", name)
	}
	return data, nil
}

// Icon rasterises the named icon into a size×size image. Results are cached
// and shared, so callers must not modify them.
func Icon(name string, size int) (*image.RGBA, error) {
	if size <= 0 {
		return nil, fmt.Errorf("icon %s: invalid size %d", name, size)
	}
	key := iconKey{name: name, size: size}
	iconMu.Lock()
	defer iconMu.Unlock()
	if img, ok := iconCache[key]; ok {
		return img, nil
	}
	data, err := IconSVG(name)
	if err != nil {
		return nil, err
	}
	img, err := media.RasterizeSVG(data, size, size)
	if err != nil {
		return nil, fmt.Errorf("icon %s: %w", name, err)
	}
	iconCache[key] = img
	return img, nil
}

// IconNames lists the embedded icons.
func IconNames() []string {
	entries, err := fs.ReadDir(embeddedIcons, "icons")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".svg"))
	}
	sort.Strings(names)
	return names
}

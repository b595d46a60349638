package platform

// DefaultAppName identifies the application to notification centres when
// Options.AppName is empty.
const DefaultAppName = "CaptionShare"

// Options configures how a notification is displayed on the host platform.
type Options struct {
	// AppName is reported as the sending application.
	AppName string
	// IconPath, when non-empty, points to an image file the notification center
	// should display with the notification if supported by the platform.
	IconPath string
}

func (o Options) appName() string {
	if o.AppName == "" {
		return DefaultAppName
	}
	return o.AppName
}

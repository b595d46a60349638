//go:build windows

package platform

import (
	"os/exec"
	"strings"
)

func psQuote(s string) string {
	escaped := strings.ReplaceAll(s, "'", "''")
	return "'" + escaped + "'"
}

// toastScript builds the PowerShell snippet that shows a toast. An icon
// switches to the image template.
func toastScript(title, body string, opts Options) string {
	icon := strings.TrimSpace(opts.IconPath)
	tmpl := "ToastText02"
	if icon != "" {
		tmpl = "ToastImageAndText02"
	}
	var sb strings.Builder
	sb.WriteString(`[Windows.UI.Notifications.ToastNotificationManager, Windows.UI.Notifications, ContentType=Windows Runtime] > $null; `)
	sb.WriteString(`$template = [Windows.UI.Notifications.ToastNotificationManager]::GetTemplateContent([Windows.UI.Notifications.ToastTemplateType]::` + tmpl + `); `)
	sb.WriteString(`$texts = $template.GetElementsByTagName("text"); `)
	sb.WriteString(`$texts.Item(0).AppendChild($template.CreateTextNode(` + psQuote(title) + `)) > $null; `)
	sb.WriteString(`$texts.Item(1).AppendChild($template.CreateTextNode(` + psQuote(body) + `)) > $null; `)
	if icon != "" {
		sb.WriteString(`$template.GetElementsByTagName("image").Item(0).SetAttribute("src", ` + psQuote(icon) + `); `)
	}
	sb.WriteString(`$toast = [Windows.UI.Notifications.ToastNotification]::new($template); `)
	sb.WriteString(`[Windows.UI.Notifications.ToastNotificationManager]::CreateToastNotifier(` + psQuote(opts.appName()) + `).Show($toast);`)
	return sb.String()
}

// Notify displays a toast notification using the Windows notification center.
func Notify(title, body string, opts Options) error {
	cmd := exec.Command("powershell.exe", "-NoProfile", "-Command", toastScript(title, body, opts))
	return cmd.Run()
}

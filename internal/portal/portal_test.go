package portal

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/godbus/dbus/v5"
)

func TestParseResponse(t *testing.T) {
	sig := &dbus.Signal{
		Name: "org.freedesktop.portal.Request.Response",
		Body: []interface{}{uint32(0), map[string]dbus.Variant{"uris": dbus.MakeVariant([]string{"file:///tmp/a.png"})}},
	}
	resp, err := ParseResponse(sig)
	if err != nil {
		t.Fatalf("ParseResponse: %v", err)
	}
	if resp.Code != CodeSuccess || resp.Err() != nil {
		t.Fatalf("unexpected response %+v", resp)
	}
	uris, ok := resp.Results["uris"].Value().([]string)
	if !ok || len(uris) != 1 {
		t.Fatalf("uris = %v", resp.Results["uris"])
	}
}

func TestParseResponseMalformed(t *testing.T) {
	tests := map[string]*dbus.Signal{
		"nil":        nil,
		"short":      {Body: []interface{}{uint32(0)}},
		"bad code":   {Body: []interface{}{"0", map[string]dbus.Variant{}}},
		"bad result": {Body: []interface{}{uint32(0), "x"}},
	}
	for name, sig := range tests {
		if _, err := ParseResponse(sig); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestResponseErr(t *testing.T) {
	if !errors.Is(Response{Code: CodeCancelled}.Err(), ErrCancelled) {
		t.Fatal("code 1 should map to ErrCancelled")
	}
	if !errors.Is(Response{Code: CodeFailed}.Err(), ErrFailed) {
		t.Fatal("code 2 should map to ErrFailed")
	}
	if !errors.Is(Response{Code: 7}.Err(), ErrFailed) {
		t.Fatal("unknown codes should map to ErrFailed")
	}
}

func TestRequestPath(t *testing.T) {
	got := RequestPath(":1.42", "captionshare_abc")
	if want := dbus.ObjectPath("/org/freedesktop/portal/desktop/request/1_42/captionshare_abc"); got != want {
		t.Fatalf("RequestPath = %q, want %q", got, want)
	}
	if !got.IsValid() {
		t.Fatalf("path %q is not a valid object path", got)
	}
}

func TestHandleToken(t *testing.T) {
	tok := newHandleToken()
	if !strings.HasPrefix(tok, "captionshare_") {
		t.Fatalf("token %q missing prefix", tok)
	}
	if strings.Contains(tok, "-") {
		t.Fatalf("token %q must be a valid object path element", tok)
	}
	if tok == newHandleToken() {
		t.Fatal("tokens should be unique")
	}
}

func TestAvailable(t *testing.T) {
	t.Setenv("DBUS_SESSION_BUS_ADDRESS", "")
	dir := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", dir)
	if Available() {
		t.Fatal("expected unavailable without a bus socket")
	}
	if err := os.WriteFile(filepath.Join(dir, "bus"), nil, 0o600); err != nil {
		t.Fatal(err)
	}
	if !Available() {
		t.Fatal("expected available with a bus socket")
	}
	t.Setenv("XDG_RUNTIME_DIR", "")
	t.Setenv("DBUS_SESSION_BUS_ADDRESS", "unix:path=/run/user/1000/bus")
	if !Available() {
		t.Fatal("expected available with a bus address")
	}
	t.Setenv("DBUS_SESSION_BUS_ADDRESS", "")
	if _, err := Connect(); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("Connect error = %v", err)
	}
}

package picker

import (
	"context"
	"errors"
	"testing"

	"github.com/godbus/dbus/v5"

	"github.com/example/captionshare/internal/media"
	"github.com/example/captionshare/internal/portal"
)

func TestStatic(t *testing.T) {
	ref := media.FromPath("/tmp/beach.jpg")
	got, ok, err := Static{Ref: ref}.Pick(context.Background())
	if err != nil || !ok || got != ref {
		t.Fatalf("Pick = %v, %v, %v", got, ok, err)
	}

	got, ok, err = Static{}.Pick(context.Background())
	if err != nil || ok || !got.IsZero() {
		t.Fatalf("zero Static should cancel, got %v, %v, %v", got, ok, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := (Static{Ref: ref}).Pick(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error, got %v", err)
	}
}

func TestFunc(t *testing.T) {
	called := false
	var p Picker = Func(func(ctx context.Context) (media.Reference, bool, error) {
		called = true
		return media.Reference{}, false, nil
	})
	if _, ok, err := p.Pick(context.Background()); ok || err != nil {
		t.Fatalf("unexpected result %v %v", ok, err)
	}
	if !called {
		t.Fatal("function not called")
	}
}

func TestOpenFileOptions(t *testing.T) {
	opts := openFileOptions()
	if v, _ := opts["modal"].Value().(bool); !v {
		t.Fatal("modal should be true")
	}
	if v, ok := opts["multiple"].Value().(bool); !ok || v {
		t.Fatal("multiple should be false")
	}
	filters, ok := opts["filters"].Value().([]fileFilter)
	if !ok || len(filters) != 1 {
		t.Fatalf("filters = %#v", opts["filters"].Value())
	}
	if filters[0].Name != "Images" || len(filters[0].Rules) != 1 || filters[0].Rules[0] != (filterRule{Kind: 1, Pattern: "image/*"}) {
		t.Fatalf("unexpected filter %+v", filters[0])
	}
	if sig := opts["filters"].Signature().String(); sig != "a(sa(us))" {
		t.Fatalf("filters signature = %s", sig)
	}
	if _, ok := opts["handle_token"]; ok {
		t.Fatal("handle_token is added by the portal call")
	}
}

func TestReferenceFromResponse(t *testing.T) {
	uris := func(u ...string) map[string]dbus.Variant {
		return map[string]dbus.Variant{"uris": dbus.MakeVariant(u)}
	}
	tests := []struct {
		name    string
		resp    portal.Response
		wantOK  bool
		wantErr bool
		want    string
	}{
		{name: "success", resp: portal.Response{Code: 0, Results: uris("file:///home/u/beach.jpg")}, wantOK: true, want: "/home/u/beach.jpg"},
		{name: "first of many", resp: portal.Response{Code: 0, Results: uris("file:///a.png", "file:///b.png")}, wantOK: true, want: "/a.png"},
		{name: "cancelled", resp: portal.Response{Code: 1}},
		{name: "failed", resp: portal.Response{Code: 2}, wantErr: true},
		{name: "missing uris", resp: portal.Response{Code: 0, Results: map[string]dbus.Variant{}}, wantErr: true},
		{name: "empty uris", resp: portal.Response{Code: 0, Results: uris()}, wantErr: true},
		{name: "foreign scheme", resp: portal.Response{Code: 0, Results: uris("content://x/1")}, wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ref, ok, err := referenceFromResponse(tc.resp)
			if (err != nil) != tc.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tc.wantErr)
			}
			if ok != tc.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tc.wantOK)
			}
			if ref.Path() != tc.want {
				t.Fatalf("path = %q, want %q", ref.Path(), tc.want)
			}
			if !ok && !ref.IsZero() {
				t.Fatal("non-ok result must carry a zero reference")
			}
		})
	}
}

func TestDefault(t *testing.T) {
	if Default() == nil {
		t.Fatal("Default returned nil")
	}
}

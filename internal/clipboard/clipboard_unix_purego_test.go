//go:build (linux || freebsd || openbsd || netbsd || dragonfly) && !cgo

package clipboard

import (
	"bytes"
	"testing"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

var testAtoms = atomSet{clipboard: 100, targets: 101, utf8: 102, textPlain: 103, property: 104, incr: 105}

func TestTargetsFor(t *testing.T) {
	tests := []struct {
		name string
		o    offer
		want []xproto.Atom
	}{
		{name: "empty", want: []xproto.Atom{101}},
		{name: "text", o: offer{text: []byte("x")}, want: []xproto.Atom{101, 102, xproto.AtomString, 103}},
		{name: "text and image", o: offer{text: []byte("x"), image: []byte{1}, imageType: 200}, want: []xproto.Atom{101, 102, xproto.AtomString, 103, 200}},
		{name: "image without type", o: offer{image: []byte{1}}, want: []xproto.Atom{101}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := targetsFor(testAtoms, tc.o)
			if len(got) != len(tc.want) {
				t.Fatalf("targets = %v, want %v", got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("targets = %v, want %v", got, tc.want)
				}
			}
		})
	}
}

func TestPayloadFor(t *testing.T) {
	o := offer{text: []byte("Beach day"), image: []byte{0x89, 'P', 'N', 'G'}, imageType: 200}

	typ, format, data, ok := payloadFor(testAtoms, o, xproto.AtomString)
	if !ok || typ != testAtoms.utf8 || format != 8 || string(data) != "Beach day" {
		t.Fatalf("text payload = %v %v %q %v", typ, format, data, ok)
	}

	typ, format, data, ok = payloadFor(testAtoms, o, 200)
	if !ok || typ != 200 || format != 8 || !bytes.Equal(data, o.image) {
		t.Fatalf("image payload = %v %v %v %v", typ, format, data, ok)
	}

	typ, format, data, ok = payloadFor(testAtoms, o, testAtoms.targets)
	if !ok || typ != xproto.AtomAtom || format != 32 || len(data) != 5*4 {
		t.Fatalf("targets payload = %v %v %d %v", typ, format, len(data), ok)
	}
	if got := xgb.Get32(data[16:]); got != 200 {
		t.Fatalf("last target = %d", got)
	}

	if _, _, _, ok := payloadFor(testAtoms, offer{}, testAtoms.utf8); ok {
		t.Fatal("empty offer should not serve text")
	}
	if _, _, _, ok := payloadFor(testAtoms, o, 999); ok {
		t.Fatal("unknown target should not be served")
	}
}

func TestChunkLimit(t *testing.T) {
	tests := []struct {
		max  uint16
		want int
	}{
		{max: 65535, want: 65535*4 - 24},
		{max: 4096, want: 4096*4 - 24},
		{max: 7, want: 4},
		{max: 0, want: 4},
	}
	for _, tc := range tests {
		if got := chunkLimit(tc.max); got != tc.want {
			t.Errorf("chunkLimit(%d) = %d, want %d", tc.max, got, tc.want)
		}
		if got := chunkLimit(tc.max); got%4 != 0 {
			t.Errorf("chunkLimit(%d) = %d is not word aligned", tc.max, got)
		}
	}
}

func TestReplyForSmallPayloadIsDirect(t *testing.T) {
	payload := []byte("Beach day")
	r := replyFor(testAtoms, testAtoms.utf8, 8, payload, 16)
	if r.incr != nil || r.typ != testAtoms.utf8 || r.format != 8 || !bytes.Equal(r.data, payload) {
		t.Fatalf("reply = %+v", r)
	}
	if got := propertyLength(r.format, r.data); got != uint32(len(payload)) {
		t.Fatalf("length = %d", got)
	}
}

func TestReplyForLargePayloadIsIncremental(t *testing.T) {
	// A photo well past what a single request can carry.
	photo := bytes.Repeat([]byte{0xff, 0xd8}, 1_500_000)
	limit := chunkLimit(65535)
	r := replyFor(testAtoms, 200, 8, photo, limit)
	if r.incr == nil {
		t.Fatal("expected an incremental transfer")
	}
	if r.typ != testAtoms.incr || r.format != 32 || propertyLength(r.format, r.data) != 1 {
		t.Fatalf("announcement = %+v", r)
	}
	if got := xgb.Get32(r.data); got != uint32(len(photo)) {
		t.Fatalf("announced size = %d", got)
	}
	if changePropertyHeader+len(r.data) > 65535*4 {
		t.Fatal("announcement does not fit a request")
	}

	var got []byte
	chunks := 0
	for {
		chunk, ok := r.incr.next(limit)
		if !ok {
			break
		}
		if len(chunk) > limit {
			t.Fatalf("chunk of %d bytes exceeds %d", len(chunk), limit)
		}
		chunks++
		got = append(got, chunk...)
	}
	if !bytes.Equal(got, photo) {
		t.Fatalf("reassembled %d bytes, want %d", len(got), len(photo))
	}
	want := (len(photo)+limit-1)/limit + 1
	if chunks != want {
		t.Fatalf("chunks = %d, want %d including the terminating empty chunk", chunks, want)
	}
	if r.incr.typ != 200 {
		t.Fatalf("chunk type = %d", r.incr.typ)
	}
}

func TestReplyForTargetsIsNeverIncremental(t *testing.T) {
	list := atomsToBytes([]xproto.Atom{1, 2, 3})
	if r := replyFor(testAtoms, xproto.AtomAtom, 32, list, 4); r.incr != nil || r.format != 32 {
		t.Fatalf("reply = %+v", r)
	}
}

func TestIncrTransferEndsWithEmptyChunk(t *testing.T) {
	tr := &incrTransfer{typ: 200, data: []byte("abcdefghij")}
	var seen []string
	for {
		chunk, ok := tr.next(4)
		if !ok {
			break
		}
		seen = append(seen, string(chunk))
	}
	want := []string{"abcd", "efgh", "ij", ""}
	if len(seen) != len(want) {
		t.Fatalf("chunks = %q", seen)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("chunks = %q, want %q", seen, want)
		}
	}
	if !tr.done {
		t.Fatal("transfer should be done")
	}
}

func TestConcreteType(t *testing.T) {
	for in, want := range map[string]bool{"image/png": true, "image/*": false, "": false} {
		if got := concreteType(in); got != want {
			t.Errorf("concreteType(%q) = %v", in, got)
		}
	}
}

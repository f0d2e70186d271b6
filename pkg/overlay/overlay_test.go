package overlay

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-uciform/pkg/form"
)

const wanOverlay = `
forms:
  wan:
    sections:
      set_wan:
        title: "Internetové připojení"
        description: "Nastavení WAN portu."
    fields:
      proto:
        label: "Protokol"
      ipaddr:
        hint: "Adresa přidělená poskytovatelem."
`

func TestLoadFSAndApply(t *testing.T) {
	t.Parallel()

	store, err := LoadFS(fstest.MapFS{
		"wan.yaml": &fstest.MapFile{Data: []byte(wanOverlay)},
	})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if store.Empty() {
		t.Fatal("store should not be empty")
	}

	frm := form.New("wan", nil)
	section := frm.AddSection("set_wan", "WAN", "Here you specify your WAN port settings.")
	section.AddField(&form.Field{Name: "proto", Kind: form.KindDropdown, Label: "Protocol"})
	section.AddField(&form.Field{Name: "ipaddr", Kind: form.KindText, Label: "IP address", Hint: "original"})
	section.AddField(&form.Field{Name: "netmask", Kind: form.KindText, Label: "Network mask"})

	store.Apply(frm)

	if section.Title != "Internetové připojení" {
		t.Errorf("title = %q", section.Title)
	}
	if frm.Field("proto").Label != "Protokol" {
		t.Errorf("proto label = %q", frm.Field("proto").Label)
	}
	if frm.Field("ipaddr").Hint != "Adresa přidělená poskytovatelem." {
		t.Errorf("ipaddr hint = %q", frm.Field("ipaddr").Hint)
	}
	// ipaddr label untouched: the overlay sets only its hint.
	if frm.Field("ipaddr").Label != "IP address" {
		t.Errorf("ipaddr label = %q", frm.Field("ipaddr").Label)
	}
	if frm.Field("netmask").Label != "Network mask" {
		t.Errorf("netmask label = %q", frm.Field("netmask").Label)
	}
}

func TestLoadFSJSON(t *testing.T) {
	t.Parallel()

	store, err := LoadFS(fstest.MapFS{
		"dns.json": &fstest.MapFile{Data: []byte(`{"forms":{"dns":{"fields":{"forward_upstream":{"label":"Forwarding"}}}}}`)},
	})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	overlay, ok := store.Form("dns")
	if !ok {
		t.Fatal("dns overlay missing")
	}
	if overlay.Fields["forward_upstream"].Label != "Forwarding" {
		t.Fatalf("overlay = %+v", overlay)
	}
}

func TestLoadFSRejectsDuplicates(t *testing.T) {
	t.Parallel()

	_, err := LoadFS(fstest.MapFS{
		"a.yaml": &fstest.MapFile{Data: []byte("forms:\n  wan: {}\n")},
		"b.yaml": &fstest.MapFile{Data: []byte("forms:\n  wan: {}\n")},
	})
	if err == nil || !strings.Contains(err.Error(), "duplicate form") {
		t.Fatalf("err = %v, want duplicate form error", err)
	}
}

func TestLoadFSNilAndGarbage(t *testing.T) {
	t.Parallel()

	store, err := LoadFS(nil)
	if err != nil || !store.Empty() {
		t.Fatalf("nil fs: store=%v err=%v", store, err)
	}

	if _, err := LoadFS(fstest.MapFS{
		"broken.yaml": &fstest.MapFile{Data: []byte("{:::")},
	}); err == nil {
		t.Fatal("garbage document should fail")
	}

	// Non-overlay files are skipped.
	store, err = LoadFS(fstest.MapFS{
		"README.md": &fstest.MapFile{Data: []byte("# notes")},
	})
	if err != nil || !store.Empty() {
		t.Fatalf("unexpected: store=%v err=%v", store, err)
	}
}

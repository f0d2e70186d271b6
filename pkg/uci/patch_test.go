package uci

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPatchConfigAndSectionAreIdempotent(t *testing.T) {
	t.Parallel()

	patch := NewPatch()
	wan := patch.Config("network").Section("wan", "interface")
	wan.Set("proto", "dhcp")
	patch.Config("network").Section("wan", "interface").Set("ipaddr", "192.0.2.1")

	if len(patch.Configs) != 1 {
		t.Fatalf("configs = %d, want 1", len(patch.Configs))
	}
	if len(patch.Configs[0].Sections) != 1 {
		t.Fatalf("sections = %d, want 1", len(patch.Configs[0].Sections))
	}

	want := []Op{
		{Kind: OpSet, Name: "proto", Value: "dhcp"},
		{Kind: OpSet, Name: "ipaddr", Value: "192.0.2.1"},
	}
	if diff := cmp.Diff(want, wan.Ops); diff != "" {
		t.Fatalf("ops mismatch (-want +got):\n%s", diff)
	}
}

func TestPatchSectionsDistinguishAnonymous(t *testing.T) {
	t.Parallel()

	patch := NewPatch()
	ucollect := patch.Config("ucollect")
	ucollect.AnonymousSection("cfg01", "interface").Set("ifname", "eth2")
	ucollect.Section("cfg01", "interface").Set("ifname", "pppoe-wan")

	if len(ucollect.Sections) != 2 {
		t.Fatalf("sections = %d, want 2 (anonymous and named must not merge)", len(ucollect.Sections))
	}
}

func TestPatchOps(t *testing.T) {
	t.Parallel()

	patch := NewPatch()
	section := patch.Config("user_notify").Section("smtp", "smtp")
	section.SetBool("enable", true).
		SetInt("port", 465).
		Remove("sender_name").
		ReplaceList("to", "a@example.com", "b@example.com").
		RemoveList("unused")

	want := []Op{
		{Kind: OpSet, Name: "enable", Value: "1"},
		{Kind: OpSet, Name: "port", Value: "465"},
		{Kind: OpRemove, Name: "sender_name"},
		{Kind: OpReplaceList, Name: "to", Values: []string{"a@example.com", "b@example.com"}},
		{Kind: OpRemoveList, Name: "unused"},
	}
	if diff := cmp.Diff(want, section.Ops); diff != "" {
		t.Fatalf("ops mismatch (-want +got):\n%s", diff)
	}
}

func TestPatchEmpty(t *testing.T) {
	t.Parallel()

	patch := NewPatch()
	if !patch.Empty() {
		t.Fatal("fresh patch should be empty")
	}

	// A section without ops still counts as empty.
	patch.Config("network").Section("wan", "interface")
	if !patch.Empty() {
		t.Fatal("patch with op-less section should be empty")
	}

	patch.Config("network").Section("wan", "interface").Set("proto", "dhcp")
	if patch.Empty() {
		t.Fatal("patch with ops should not be empty")
	}

	var nilPatch *Patch
	if !nilPatch.Empty() {
		t.Fatal("nil patch should be empty")
	}
}

func TestPatchMerge(t *testing.T) {
	t.Parallel()

	first := NewPatch()
	first.Config("network").Section("wan", "interface").Set("proto", "static")

	second := NewPatch()
	second.Config("network").Section("wan", "interface").Set("ipaddr", "192.0.2.1")
	second.Config("smrtd").Section("global", "global").SetBool("enabled", false)

	first.Merge(second)

	wan := first.Config("network").Section("wan", "interface")
	want := []Op{
		{Kind: OpSet, Name: "proto", Value: "static"},
		{Kind: OpSet, Name: "ipaddr", Value: "192.0.2.1"},
	}
	if diff := cmp.Diff(want, wan.Ops); diff != "" {
		t.Fatalf("merged ops mismatch (-want +got):\n%s", diff)
	}
	if len(first.Configs) != 2 {
		t.Fatalf("configs = %d, want 2", len(first.Configs))
	}

	first.Merge(nil) // no-op
}

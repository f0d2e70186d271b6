package uci

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func networkSnapshot() *Tree {
	return NewTree(
		Root("uci",
			Root("network",
				Section("wan", "interface",
					Option("proto", "static"),
					Option("ipaddr", "192.0.2.1"),
					Option("dns", "192.0.2.53 192.0.2.54"),
				),
			),
			Root("wireless",
				Anonymous("cfg043579", "wifi-iface",
					Option("ssid", "turris"),
					Option("disabled", "0"),
				),
				Anonymous("cfg053579", "wifi-iface",
					Option("ssid", "guest"),
				),
				Section("radio0", "wifi-device",
					Option("channel", "6"),
				),
			),
			Root("user_notify",
				Section("smtp", "smtp",
					List("to", "admin@example.com", "ops@example.com"),
				),
			),
		),
		Root("time", Option("local", "2014-01-30T12:00:00")),
	)
}

func TestTreeFind(t *testing.T) {
	t.Parallel()

	tree := networkSnapshot()

	node := tree.Find("uci.network.wan.proto")
	if node == nil {
		t.Fatal("expected uci.network.wan.proto to resolve")
	}
	if node.Value != "static" {
		t.Fatalf("proto = %q, want %q", node.Value, "static")
	}

	if got := tree.Find("time.local"); got == nil || got.Value != "2014-01-30T12:00:00" {
		t.Fatalf("time.local = %+v", got)
	}
}

func TestTreeFindAnonymousSection(t *testing.T) {
	t.Parallel()

	tree := networkSnapshot()

	first := tree.Find("uci.wireless.@wifi-iface[0]")
	if first == nil || first.Name != "cfg043579" {
		t.Fatalf("@wifi-iface[0] = %+v, want cfg043579", first)
	}

	second := tree.Find("uci.wireless.@wifi-iface[1].ssid")
	if second == nil || second.Value != "guest" {
		t.Fatalf("@wifi-iface[1].ssid = %+v, want guest", second)
	}

	// radio0 is a named section and must not be counted as anonymous.
	if got := tree.Find("uci.wireless.@wifi-device[0]"); got != nil {
		t.Fatalf("@wifi-device[0] = %+v, want nil", got)
	}
}

func TestTreeFindAbsentPath(t *testing.T) {
	t.Parallel()

	tree := networkSnapshot()

	cases := []string{
		"",
		"uci.network.lan",
		"uci.network.wan.macaddr",
		"uci.smrtd",
		"uci.wireless.@wifi-iface[7]",
		"stats.wireless-cards",
	}
	for _, path := range cases {
		if got := tree.Find(path); got != nil {
			t.Errorf("Find(%q) = %+v, want nil", path, got)
		}
	}
}

func TestNodeValues(t *testing.T) {
	t.Parallel()

	tree := networkSnapshot()

	got := tree.Find("uci.user_notify.smtp.to").Values()
	want := []string{"admin@example.com", "ops@example.com"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("list values mismatch (-want +got):\n%s", diff)
	}

	if values := tree.Find("uci.network.wan.proto").Values(); values != nil {
		t.Fatalf("scalar option Values() = %v, want nil", values)
	}
}

func TestParseBool(t *testing.T) {
	t.Parallel()

	truthy := []string{"1", "on", "true", "yes", "enabled", " 1 ", "TRUE"}
	for _, value := range truthy {
		if !ParseBool(value) {
			t.Errorf("ParseBool(%q) = false, want true", value)
		}
	}

	falsy := []string{"", "0", "off", "false", "no", "disabled", "banana"}
	for _, value := range falsy {
		if ParseBool(value) {
			t.Errorf("ParseBool(%q) = true, want false", value)
		}
	}
}

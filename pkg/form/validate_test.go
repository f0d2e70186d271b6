package form

import (
	"testing"

	"github.com/goliatone/go-uciform/pkg/validators"
)

func staticWanForm(data *Data) *Form {
	frm := New("wan", data)
	section := frm.AddSection("set_wan", "WAN", "")
	section.AddField(&Field{
		Name:    "proto",
		Kind:    KindDropdown,
		Default: "dhcp",
	})
	section.AddField(&Field{
		Name:       "ipaddr",
		Kind:       KindText,
		Required:   true,
		Validators: []validators.Validator{validators.IPv4()},
	}).Requires("proto", "static")
	section.AddField(&Field{
		Name:       "netmask",
		Kind:       KindText,
		Required:   true,
		Validators: []validators.Validator{validators.IPv4Netmask()},
	}).Requires("proto", "static")
	return frm
}

func TestValidateHiddenFieldsAreExempt(t *testing.T) {
	t.Parallel()

	// An invalid static IP must not matter while proto is dhcp.
	frm := staticWanForm(FromValues(map[string][]string{
		"proto":  {"dhcp"},
		"ipaddr": {"not-an-ip"},
	}))

	if !frm.Validate() {
		t.Fatalf("form invalid: %v", frm.Errors())
	}
}

func TestValidateRequiredVisibleField(t *testing.T) {
	t.Parallel()

	frm := staticWanForm(FromValues(map[string][]string{
		"proto":   {"static"},
		"ipaddr":  {""},
		"netmask": {"255.255.255.0"},
	}))

	if frm.Validate() {
		t.Fatal("form should be invalid")
	}
	if got := frm.Errors()["ipaddr"]; got != requiredMessage {
		t.Fatalf("ipaddr error = %q, want required", got)
	}
	if _, ok := frm.Errors()["netmask"]; ok {
		t.Fatal("netmask should not carry an error")
	}
}

func TestValidateStopsAtFirstFailurePerField(t *testing.T) {
	t.Parallel()

	frm := New("wan", FromValues(map[string][]string{
		"smrt_vlan": {"99999"},
	}))
	section := frm.AddSection("set_wan", "WAN", "")
	section.AddField(&Field{
		Name: "smrt_vlan",
		Kind: KindText,
		Validators: []validators.Validator{
			validators.PositiveInteger(),
			validators.InRange(1, 4095),
		},
	})

	if frm.Validate() {
		t.Fatal("form should be invalid")
	}
	if got := frm.Errors()["smrt_vlan"]; got != "Not in a valid range 1 - 4095." {
		t.Fatalf("error = %q", got)
	}
}

func TestValidateSkipsValidatorsOnEmptyOptionalValue(t *testing.T) {
	t.Parallel()

	frm := New("wan", FromValues(map[string][]string{
		"proto": {"static"},
		"dns1":  {""},
	}))
	section := frm.AddSection("set_wan", "WAN", "")
	section.AddField(&Field{Name: "proto", Kind: KindDropdown, Default: "dhcp"})
	section.AddField(&Field{
		Name:       "dns1",
		Kind:       KindText,
		Validators: []validators.Validator{validators.AnyIP()},
	}).Requires("proto", "static")

	if !frm.Validate() {
		t.Fatalf("empty optional dns1 must pass, got %v", frm.Errors())
	}
}

func TestValidateCrossFieldGroupsRunOnEmptyValues(t *testing.T) {
	t.Parallel()

	pairMessage := "Both VPI and VCI must be filled or both must be empty."
	pair := validators.RequiredWithOtherFields([]string{"smrt_vpi", "smrt_vci"}, pairMessage)

	build := func(vpi, vci string) *Form {
		frm := New("wan", FromValues(map[string][]string{
			"smrt_vpi": {vpi},
			"smrt_vci": {vci},
		}))
		section := frm.AddSection("set_wan", "WAN", "")
		section.AddField(&Field{Name: "smrt_vpi", Kind: KindText, Validators: []validators.Validator{pair}})
		section.AddField(&Field{Name: "smrt_vci", Kind: KindText, Validators: []validators.Validator{pair}})
		return frm
	}

	if frm := build("8", "48"); !frm.Validate() {
		t.Fatalf("both filled: %v", frm.Errors())
	}
	if frm := build("", ""); !frm.Validate() {
		t.Fatalf("both empty: %v", frm.Errors())
	}

	frm := build("8", "")
	if frm.Validate() {
		t.Fatal("half-filled pair should fail")
	}
	// The group validator is attached to both fields, so both report it.
	if frm.Errors()["smrt_vpi"] != pairMessage || frm.Errors()["smrt_vci"] != pairMessage {
		t.Fatalf("errors = %v, want pair message on both fields", frm.Errors())
	}
}

func TestValidateEqualTo(t *testing.T) {
	t.Parallel()

	build := func(password, confirmation string) *Form {
		frm := New("password", FromValues(map[string][]string{
			"password":            {password},
			"password_validation": {confirmation},
		}))
		section := frm.AddSection("set_password", "Password", "")
		section.AddField(&Field{
			Name:       "password",
			Kind:       KindPassword,
			Required:   true,
			Validators: []validators.Validator{validators.LenRange(6, 128)},
		})
		section.AddField(&Field{
			Name:       "password_validation",
			Kind:       KindPassword,
			Required:   true,
			Validators: []validators.Validator{validators.EqualTo("password", "Passwords are not equal.")},
		})
		return frm
	}

	if frm := build("abcdef", "abcdef"); !frm.Validate() {
		t.Fatalf("matching passwords: %v", frm.Errors())
	}

	frm := build("abcdef", "abcdeg")
	if frm.Validate() {
		t.Fatal("mismatched passwords should fail")
	}
	if got := frm.Errors()["password_validation"]; got != "Passwords are not equal." {
		t.Fatalf("error = %q", got)
	}
}

func TestValidateChainedRequirements(t *testing.T) {
	t.Parallel()

	build := func(values map[string][]string) *Form {
		frm := New("wan", FromValues(values))
		section := frm.AddSection("set_wan", "WAN", "")
		section.AddField(&Field{Name: "proto", Kind: KindDropdown, Default: "dhcp"})
		section.AddField(&Field{Name: "static_ipv6", Kind: KindCheckbox}).
			Requires("proto", "static")
		section.AddField(&Field{
			Name:       "ip6addr",
			Kind:       KindText,
			Required:   true,
			Validators: []validators.Validator{validators.IPv6Prefix()},
		}).
			Requires("proto", "static").
			Requires("static_ipv6", true)
		return frm
	}

	// ip6addr hidden: static_ipv6 unchecked.
	frm := build(map[string][]string{"proto": {"static"}})
	if !frm.Validate() {
		t.Fatalf("hidden ip6addr must not block: %v", frm.Errors())
	}

	// ip6addr visible and empty: required error.
	frm = build(map[string][]string{"proto": {"static"}, "static_ipv6": {"1"}})
	if frm.Validate() {
		t.Fatal("visible empty ip6addr should fail")
	}
	if got := frm.Errors()["ip6addr"]; got != requiredMessage {
		t.Fatalf("ip6addr error = %q", got)
	}
}

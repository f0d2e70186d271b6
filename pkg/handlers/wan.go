package handlers

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/goliatone/go-uciform/pkg/backend"
	"github.com/goliatone/go-uciform/pkg/form"
	"github.com/goliatone/go-uciform/pkg/uci"
	"github.com/goliatone/go-uciform/pkg/validators"
)

// WAN protocol modes stored in uci.network.wan.proto.
const (
	wanDHCP   = "dhcp"
	wanStatic = "static"
	wanPPPoE  = "pppoe"
)

// smrtVLANPattern pulls the VLAN id out of an "eth2.<vlan>" ifname.
var smrtVLANPattern = regexp.MustCompile(`^eth2\.(\d+)`)

// Wan configures the upstream interface: protocol mode, static addressing
// (IPv4 and IPv6), PPPoE credentials, MAC override, and on devices that carry
// an SMRT modem, the VDSL bridge parameters.
type Wan struct {
	client backend.Client
}

// NewWan constructs the WAN handler.
func NewWan(client backend.Client) *Wan {
	return &Wan{client: client}
}

func (h *Wan) Name() string  { return "wan" }
func (h *Wan) Title() string { return "WAN" }

func (h *Wan) Form(ctx context.Context, data *form.Data) (*form.Form, error) {
	tree, err := h.client.GetConfig(ctx, backend.ConfigFilter("network", "smrtd", "ucollect"))
	if err != nil {
		return nil, fmt.Errorf("handlers: wan snapshot: %w", err)
	}

	frm := form.New(h.Name(), data, form.WithTree(tree))
	main := frm.AddSection("wan", h.Title(),
		"Here you specify your WAN port settings. Usually, you can leave these "+
			"options untouched unless instructed otherwise by your internet "+
			"service provider.")

	main.AddField(&form.Field{
		Name:       "proto",
		Kind:       form.KindDropdown,
		Label:      "IPv4 protocol",
		SourcePath: "uci.network.wan.proto",
		Default:    wanDHCP,
		Choices: []form.Choice{
			{Value: wanDHCP, Label: "DHCP (automatic configuration)"},
			{Value: wanStatic, Label: "Static IP address (manual configuration)"},
			{Value: wanPPPoE, Label: "PPPoE (for DSL bridges, Modem Turris, etc.)"},
		},
	})

	// Static addressing. Scenario values left in the config from another
	// mode are still read, but only validated when the mode is active.
	main.AddField(&form.Field{
		Name:       "ipaddr",
		Kind:       form.KindText,
		Label:      "IP address",
		Required:   true,
		SourcePath: "uci.network.wan.ipaddr",
		Validators: []validators.Validator{validators.IPv4()},
	}).Requires("proto", wanStatic)
	main.AddField(&form.Field{
		Name:       "netmask",
		Kind:       form.KindText,
		Label:      "Network mask",
		Required:   true,
		SourcePath: "uci.network.wan.netmask",
		Validators: []validators.Validator{validators.IPv4Netmask()},
	}).Requires("proto", wanStatic)
	main.AddField(&form.Field{
		Name:       "gateway",
		Kind:       form.KindText,
		Label:      "Gateway",
		Required:   true,
		SourcePath: "uci.network.wan.gateway",
		Validators: []validators.Validator{validators.IPv4()},
	}).Requires("proto", wanStatic)

	// The dns option stores both servers space separated in one value.
	main.AddField(&form.Field{
		Name:       "dns1",
		Kind:       form.KindText,
		Label:      "DNS server 1",
		Hint:       "DNS server address is not required as the built-in DNS resolver is capable of working without it.",
		SourcePath: "uci.network.wan.dns",
		Extract:    dnsAt(0),
		Validators: []validators.Validator{validators.AnyIP()},
	}).Requires("proto", wanStatic)
	main.AddField(&form.Field{
		Name:       "dns2",
		Kind:       form.KindText,
		Label:      "DNS server 2",
		Hint:       "DNS server address is not required as the built-in DNS resolver is capable of working without it.",
		SourcePath: "uci.network.wan.dns",
		Extract:    dnsAt(1),
		Validators: []validators.Validator{validators.AnyIP()},
	}).Requires("proto", wanStatic)

	main.AddField(&form.Field{
		Name:       "static_ipv6",
		Kind:       form.KindCheckbox,
		Label:      "Use IPv6",
		SourcePath: "uci.network.wan.ip6addr",
		Extract:    presentAsBool,
	}).Requires("proto", wanStatic)
	main.AddField(&form.Field{
		Name:       "ip6addr",
		Kind:       form.KindText,
		Label:      "IPv6 address",
		Hint:       "IPv6 address and prefix length for WAN interface, e.g. 2001:db8:be13:37da::1/64",
		Required:   true,
		SourcePath: "uci.network.wan.ip6addr",
		Validators: []validators.Validator{validators.IPv6Prefix()},
	}).Requires("proto", wanStatic).Requires("static_ipv6", true)
	main.AddField(&form.Field{
		Name:       "ip6gw",
		Kind:       form.KindText,
		Label:      "IPv6 gateway",
		SourcePath: "uci.network.wan.ip6gw",
		Validators: []validators.Validator{validators.IPv6()},
	}).Requires("proto", wanStatic).Requires("static_ipv6", true)
	main.AddField(&form.Field{
		Name:       "ip6prefix",
		Kind:       form.KindText,
		Label:      "IPv6 prefix",
		Hint:       "Address range for local network, e.g. 2001:db8:be13:37da::/64",
		SourcePath: "uci.network.wan.ip6prefix",
		Validators: []validators.Validator{validators.IPv6Prefix()},
	}).Requires("proto", wanStatic).Requires("static_ipv6", true)

	// PPPoE credentials.
	main.AddField(&form.Field{
		Name:       "username",
		Kind:       form.KindText,
		Label:      "PAP/CHAP username",
		SourcePath: "uci.network.wan.username",
	}).Requires("proto", wanPPPoE)
	main.AddField(&form.Field{
		Name:       "password",
		Kind:       form.KindPassword,
		Label:      "PAP/CHAP password",
		SourcePath: "uci.network.wan.password",
	}).Requires("proto", wanPPPoE)
	main.AddField(&form.Field{
		Name:       "ppp_ipv6",
		Kind:       form.KindCheckbox,
		Label:      "Enable IPv6",
		SourcePath: "uci.network.wan.ipv6",
	}).Requires("proto", wanPPPoE)

	if hasSMRT := tree.Find("uci.smrtd") != nil; hasSMRT {
		main.AddField(&form.Field{
			Name:    "has_smrtd",
			Kind:    form.KindHidden,
			Default: "1",
		})
		main.AddField(&form.Field{
			Name:       "use_smrt",
			Kind:       form.KindCheckbox,
			Label:      "Use Modem Turris",
			Hint:       "Modem Turris (aka SMRT) is an external VDSL modem designed for Turris routers.",
			SourcePath: "uci.smrtd.global.enabled",
		}).Requires("proto", wanPPPoE)
		main.AddField(&form.Field{
			Name:       "smrt_vlan",
			Kind:       form.KindNumber,
			Label:      "xDSL VLAN",
			Hint:       "VLAN number for your internet connection. Usually provided by your internet service provider.",
			SourcePath: "uci",
			Extract:    smrtVLAN,
			Validators: []validators.Validator{
				validators.PositiveInteger(),
				validators.InRange(1, 4095),
			},
		}).Requires("use_smrt", true)

		vpiVCIPair := validators.RequiredWithOtherFields(
			[]string{"smrt_vpi", "smrt_vci"},
			"Both VPI and VCI must be filled or both must be empty.")
		main.AddField(&form.Field{
			Name:       "smrt_vpi",
			Kind:       form.KindNumber,
			Label:      "VPI",
			Hint:       "Virtual Path Identifier. Usually provided by your internet service provider, often 8.",
			SourcePath: "uci.smrtd.eth2.connections",
			Extract:    connectionsField(1),
			Validators: []validators.Validator{
				vpiVCIPair,
				validators.PositiveInteger(),
				validators.InRange(0, 255),
			},
		}).Requires("use_smrt", true)
		main.AddField(&form.Field{
			Name:       "smrt_vci",
			Kind:       form.KindNumber,
			Label:      "VCI",
			Hint:       "Virtual Circuit Identifier. Usually provided by your internet service provider, often 48.",
			SourcePath: "uci.smrtd.eth2.connections",
			Extract:    connectionsField(2),
			Validators: []validators.Validator{
				vpiVCIPair,
				validators.PositiveInteger(),
				validators.InRange(32, 65535),
			},
		}).Requires("use_smrt", true)
	}

	main.AddField(&form.Field{
		Name:       "custom_mac",
		Kind:       form.KindCheckbox,
		Label:      "Custom MAC address",
		SourcePath: "uci.network.wan.macaddr",
		Extract:    presentAsBool,
	})
	main.AddField(&form.Field{
		Name:       "macaddr",
		Kind:       form.KindText,
		Label:      "MAC address",
		Hint:       "Colon is used as a separator, for example 00:11:22:33:44:55",
		Required:   true,
		SourcePath: "uci.network.wan.macaddr",
		Validators: []validators.Validator{validators.MacAddress()},
	}).Requires("custom_mac", true)

	frm.AddCallback(func(_ context.Context, values form.Values) (form.Result, error) {
		return h.save(tree, values), nil
	})
	return frm, nil
}

func (h *Wan) save(tree *uci.Tree, values form.Values) form.Result {
	patch := uci.NewPatch()
	wan := patch.Config("network").Section("wan", "interface")

	proto := values.String("proto")
	wan.Set("proto", proto)

	if values.Bool("custom_mac") {
		wan.Set("macaddr", values.String("macaddr"))
	} else {
		wan.Remove("macaddr")
	}

	// Traffic collection probes a PPPoE tunnel on its own interface name.
	ucollectIfname := "eth2"

	switch proto {
	case wanPPPoE:
		wan.Set("username", values.String("username"))
		wan.Set("password", values.String("password"))
		wan.SetBool("ipv6", values.Bool("ppp_ipv6"))
		ucollectIfname = "pppoe-wan"
	case wanStatic:
		wan.Set("ipaddr", values.String("ipaddr"))
		wan.Set("netmask", values.String("netmask"))
		wan.Set("gateway", values.String("gateway"))
		// Set even when empty so stale servers are cleared.
		dns := strings.TrimSpace(values.String("dns1") + " " + values.String("dns2"))
		wan.Set("dns", dns)
		if values.Bool("static_ipv6") {
			wan.Set("ip6addr", values.String("ip6addr"))
			wan.Set("ip6gw", values.String("ip6gw"))
			wan.Set("ip6prefix", values.String("ip6prefix"))
		} else {
			wan.Remove("ip6addr")
			wan.Remove("ip6gw")
			wan.Remove("ip6prefix")
		}
	}

	if values.String("has_smrtd") == "1" {
		useSMRT := values.Bool("use_smrt")
		vlan := values.String("smrt_vlan")
		if useSMRT && vlan == "" {
			// SMRT without an explicit VLAN uses the xDSL default.
			vlan = "848"
		}

		smrt := patch.Config("smrtd")
		eth2 := smrt.Section("eth2", "interface")
		eth2.Set("name", "eth2")

		vpi, vci := values.String("smrt_vpi"), values.String("smrt_vci")
		if vpi != "" && vci != "" {
			eth2.ReplaceList("connections", vlan+" "+vpi+" "+vci)
		} else if useSMRT {
			eth2.RemoveList("connections")
		}
		smrt.Section("global", "global").SetBool("enabled", useSMRT)

		// The WAN ifname must track the modem bridge, on toggling SMRT
		// off included. Devices without the modem keep their own ifname.
		ifname := "eth2"
		if useSMRT {
			ifname = "eth2." + vlan
		}
		wan.Set("ifname", ifname)
	}

	// Keep the ucollect probe pointed at the active upstream interface.
	sectionName := ""
	if probe := tree.Find("uci.ucollect.@interface[0]"); probe != nil {
		sectionName = probe.Name
	}
	patch.Config("ucollect").
		AnonymousSection(sectionName, "interface").
		Set("ifname", ucollectIfname)

	return form.EditConfig(patch)
}

// presentAsBool maps a non-empty stored option to a checked checkbox.
func presentAsBool(n *uci.Node) any {
	return n.Value != ""
}

// dnsAt returns the i-th server of a space separated dns option, or nil when
// the option holds fewer entries.
func dnsAt(i int) func(*uci.Node) any {
	return func(n *uci.Node) any {
		parts := strings.Fields(n.Value)
		if i >= len(parts) {
			return nil
		}
		return parts[i]
	}
}

// smrtVLAN recovers the configured VLAN id, preferring the network ifname
// over the modem's connection list.
func smrtVLAN(root *uci.Node) any {
	if ifname := root.Child("network"); ifname != nil {
		if wan := ifname.Child("wan"); wan != nil {
			if opt := wan.Child("ifname"); opt != nil {
				if m := smrtVLANPattern.FindStringSubmatch(opt.Value); m != nil {
					return m[1]
				}
			}
		}
	}
	if smrtd := root.Child("smrtd"); smrtd != nil {
		if eth2 := smrtd.Child("eth2"); eth2 != nil {
			if conns := eth2.Child("connections"); conns != nil {
				if field := connectionField(conns, 0); field != "" {
					return field
				}
			}
		}
	}
	return nil
}

// connectionsField extracts one space separated field of the first SMRT
// connection entry.
func connectionsField(i int) func(*uci.Node) any {
	return func(n *uci.Node) any {
		if field := connectionField(n, i); field != "" {
			return field
		}
		return nil
	}
}

func connectionField(n *uci.Node, i int) string {
	entries := n.Values()
	if len(entries) == 0 && n.Value != "" {
		entries = []string{n.Value}
	}
	if len(entries) == 0 {
		return ""
	}
	parts := strings.Fields(entries[0])
	if i >= len(parts) {
		return ""
	}
	return parts[i]
}

package handlers

import (
	"context"
	"fmt"

	"github.com/goliatone/go-uciform/pkg/backend"
	"github.com/goliatone/go-uciform/pkg/form"
	"github.com/goliatone/go-uciform/pkg/uci"
	"github.com/goliatone/go-uciform/pkg/validators"
)

// Lan configures the local network address and the DHCP server.
type Lan struct {
	client backend.Client
}

// NewLan constructs the LAN handler.
func NewLan(client backend.Client) *Lan {
	return &Lan{client: client}
}

func (h *Lan) Name() string  { return "lan" }
func (h *Lan) Title() string { return "LAN" }

func (h *Lan) Form(ctx context.Context, data *form.Data) (*form.Form, error) {
	tree, err := h.client.GetConfig(ctx, backend.ConfigFilter("dhcp", "network"))
	if err != nil {
		return nil, fmt.Errorf("handlers: lan snapshot: %w", err)
	}

	frm := form.New(h.Name(), data, form.WithTree(tree))
	main := frm.AddSection("lan", h.Title(),
		"This section contains settings for the local network (LAN). The provided "+
			"defaults are suitable for most networks. <br><strong>Note:</strong> If "+
			"you change the router IP address, all computers in LAN, probably "+
			"including the one you are using now, will need to obtain a new IP "+
			"address which does not happen immediately.")

	main.AddField(&form.Field{
		Name:       "lan_ipaddr",
		Kind:       form.KindText,
		Label:      "Router IP address",
		Hint:       "Router's IP address in the inner network.",
		SourcePath: "uci.network.lan.ipaddr",
		Validators: []validators.Validator{validators.IPv4()},
	})
	main.AddField(&form.Field{
		Name:       "dhcp_enabled",
		Kind:       form.KindCheckbox,
		Label:      "Enable DHCP",
		Hint: "Enable this option to automatically assign IP addresses to " +
			"the devices connected to the router.",
		Default:    true,
		SourcePath: "uci.dhcp.lan.ignore",
		Extract: func(n *uci.Node) any {
			return !uci.ParseBool(n.Value)
		},
	})
	main.AddField(&form.Field{
		Name:       "dhcp_min",
		Kind:       form.KindNumber,
		Label:      "DHCP start",
		SourcePath: "uci.dhcp.lan.start",
	}).Requires("dhcp_enabled", true)
	main.AddField(&form.Field{
		Name:       "dhcp_max",
		Kind:       form.KindNumber,
		Label:      "Max DHCP leases",
		SourcePath: "uci.dhcp.lan.limit",
	}).Requires("dhcp_enabled", true)

	frm.AddCallback(func(_ context.Context, values form.Values) (form.Result, error) {
		patch := uci.NewPatch()
		ip := values.String("lan_ipaddr")

		dhcp := patch.Config("dhcp").Section("lan", "dhcp")
		// Announce the router itself as the DNS server.
		dhcp.ReplaceList("dhcp_option", "6,"+ip)

		patch.Config("network").Section("lan", "interface").Set("ipaddr", ip)

		if values.Bool("dhcp_enabled") {
			dhcp.Set("ignore", "0")
			dhcp.Set("start", values.String("dhcp_min"))
			dhcp.Set("limit", values.String("dhcp_max"))
		} else {
			dhcp.Set("ignore", "1")
		}
		return form.EditConfig(patch), nil
	})
	return frm, nil
}

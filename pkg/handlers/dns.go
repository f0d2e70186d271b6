package handlers

import (
	"context"
	"fmt"

	"github.com/goliatone/go-uciform/pkg/backend"
	"github.com/goliatone/go-uciform/pkg/form"
	"github.com/goliatone/go-uciform/pkg/uci"
)

// Dns configures the local resolver's forwarding behaviour.
type Dns struct {
	client backend.Client
}

// NewDns constructs the DNS handler.
func NewDns(client backend.Client) *Dns {
	return &Dns{client: client}
}

func (h *Dns) Name() string  { return "dns" }
func (h *Dns) Title() string { return "DNS" }

func (h *Dns) Form(ctx context.Context, data *form.Data) (*form.Form, error) {
	tree, err := h.client.GetConfig(ctx, backend.ConfigFilter("unbound"))
	if err != nil {
		return nil, fmt.Errorf("handlers: dns snapshot: %w", err)
	}

	frm := form.New(h.Name(), data, form.WithTree(tree))
	main := frm.AddSection("dns", h.Title(),
		"Router Turris uses its own DNS resolver with DNSSEC support. It is "+
			"capable of working independently or it can forward your DNS queries "+
			"to your internet service provider's DNS servers.")

	main.AddField(&form.Field{
		Name:  "forward_upstream",
		Kind:  form.KindCheckbox,
		Label: "Use forwarding",
		Hint: "Forwarding to the ISP's servers may be a bit faster, but it " +
			"may also break DNSSEC validation if those servers are not standards " +
			"compliant.",
		Default:    true,
		SourcePath: "uci.unbound.server.forward_upstream",
	})

	frm.AddCallback(func(_ context.Context, values form.Values) (form.Result, error) {
		patch := uci.NewPatch()
		patch.Config("unbound").Section("server", "unbound").
			SetBool("forward_upstream", values.Bool("forward_upstream"))
		return form.EditConfig(patch), nil
	})
	return frm, nil
}

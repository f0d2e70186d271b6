package handlers

import (
	"context"
	"fmt"

	"github.com/goliatone/go-uciform/pkg/backend"
	"github.com/goliatone/go-uciform/pkg/form"
	"github.com/goliatone/go-uciform/pkg/uci"
)

// fakeServices are the honeypot emulations the collector can run. The config
// stores the disabled ones, the form shows the enabled ones.
var fakeServices = []form.Choice{
	{Value: "23tcp", Label: "Telnet (23/TCP)"},
}

// Ucollect configures the data collection honeypot services.
type Ucollect struct {
	client backend.Client
}

// NewUcollect constructs the ucollect handler.
func NewUcollect(client backend.Client) *Ucollect {
	return &Ucollect{client: client}
}

func (h *Ucollect) Name() string  { return "ucollect" }
func (h *Ucollect) Title() string { return "Data collection" }

func (h *Ucollect) Form(ctx context.Context, data *form.Data) (*form.Form, error) {
	tree, err := h.client.GetConfig(ctx, backend.ConfigFilter("ucollect"))
	if err != nil {
		return nil, fmt.Errorf("handlers: ucollect snapshot: %w", err)
	}

	allServices := make([]string, len(fakeServices))
	for i, choice := range fakeServices {
		allServices[i] = choice.Value
	}

	frm := form.New(h.Name(), data, form.WithTree(tree))
	main := frm.AddSection("fakes", "Emulated services",
		"One of uCollect's features is the emulation of some commonly abused "+
			"services. If this function is enabled, uCollect is listening for "+
			"incoming connection attempts to these services. Enabling of the "+
			"emulated services has no effect if another service is already "+
			"listening on its default port.")

	main.AddField(&form.Field{
		Name:       "services",
		Kind:       form.KindMultiCheckbox,
		Label:      "Emulated services",
		Choices:    fakeServices,
		Default:    allServices,
		SourcePath: "uci.ucollect.fakes.disable",
		Extract:    enabledServices(allServices),
	})
	main.AddField(&form.Field{
		Name:       "log_credentials",
		Kind:       form.KindCheckbox,
		Label:      "Collect credentials",
		Hint: "If this option is enabled, user names and passwords are " +
			"collected and sent to server in addition to the IP address of the " +
			"client.",
		SourcePath: "uci.ucollect.fakes.log_credentials",
	})

	frm.AddCallback(func(_ context.Context, values form.Values) (form.Result, error) {
		patch := uci.NewPatch()
		fakes := patch.Config("ucollect").Section("fakes", "fakes")

		enabled := make(map[string]bool)
		for _, service := range values.Strings("services") {
			enabled[service] = true
		}
		var disabled []string
		for _, service := range allServices {
			if !enabled[service] {
				disabled = append(disabled, service)
			}
		}

		if len(disabled) > 0 {
			fakes.ReplaceList("disable", disabled...)
		} else if tree.Find("uci.ucollect.fakes") != nil {
			// Only scrub the option if the section already exists, so a
			// fresh config is not created just to hold an empty list.
			fakes.RemoveList("disable")
		}
		fakes.SetBool("log_credentials", values.Bool("log_credentials"))
		return form.EditConfig(patch), nil
	})
	return frm, nil
}

// enabledServices inverts the stored disable list into the set of services
// still running.
func enabledServices(all []string) func(*uci.Node) any {
	return func(n *uci.Node) any {
		disabled := make(map[string]bool)
		for _, service := range n.Values() {
			disabled[service] = true
		}
		var enabled []string
		for _, service := range all {
			if !disabled[service] {
				enabled = append(enabled, service)
			}
		}
		return enabled
	}
}

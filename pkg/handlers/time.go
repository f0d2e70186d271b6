package handlers

import (
	"context"
	"fmt"

	"github.com/goliatone/go-uciform/pkg/backend"
	"github.com/goliatone/go-uciform/pkg/form"
	"github.com/goliatone/go-uciform/pkg/uci"
)

// Time sets the router clock. The field pre-fills with the device's current
// local time; the submitted value is handed straight to the backend, which
// also syncs it to the hardware clock.
type Time struct {
	client backend.Client
}

// NewTime constructs the time handler.
func NewTime(client backend.Client) *Time {
	return &Time{client: client}
}

func (h *Time) Name() string  { return "time" }
func (h *Time) Title() string { return "Time" }

func (h *Time) Form(ctx context.Context, data *form.Data) (*form.Form, error) {
	tree, err := h.client.GetConfig(ctx, backend.ModuleFilter("time"))
	if err != nil {
		return nil, fmt.Errorf("handlers: time snapshot: %w", err)
	}

	frm := form.New(h.Name(), data, form.WithTree(tree))
	main := frm.AddSection("time", h.Title(),
		"We could not synchronize the time with a timeserver, probably due to a "+
			"loss of connection. It is necessary to set the time manually before "+
			"the router can act as a reliable certificate authority.")

	main.AddField(&form.Field{
		Name:       "time",
		Kind:       form.KindText,
		Label:      "Time",
		Hint:       "Time in YYYY-MM-DD HH:MM:SS format.",
		SourcePath: "time",
		Extract: func(n *uci.Node) any {
			if local := n.Child("local"); local != nil {
				return local.Value
			}
			return nil
		},
	})

	frm.AddCallback(func(ctx context.Context, values form.Values) (form.Result, error) {
		if err := h.client.SetTime(ctx, values.String("time")); err != nil {
			return form.Result{}, fmt.Errorf("set time: %w", err)
		}
		return form.NoAction(), nil
	})
	return frm, nil
}

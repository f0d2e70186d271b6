package handlers

import (
	"context"
	"fmt"

	"github.com/goliatone/go-uciform/pkg/backend"
	"github.com/goliatone/go-uciform/pkg/form"
	"github.com/goliatone/go-uciform/pkg/uci"
)

// Updater selects which optional package lists the automatic updater
// installs. The available lists and their descriptions come from the
// updater's definitions, so the form adapts to whatever the release offers.
// Saving also kicks off an immediate updater run.
type Updater struct {
	client backend.Client
}

// NewUpdater constructs the updater handler.
func NewUpdater(client backend.Client) *Updater {
	return &Updater{client: client}
}

func (h *Updater) Name() string  { return "updater" }
func (h *Updater) Title() string { return "Updater" }

func (h *Updater) Form(ctx context.Context, data *form.Data) (*form.Form, error) {
	tree, err := h.client.GetConfig(ctx, backend.Filter{
		Configs: []string{"updater"},
		Modules: []string{"updater"},
	})
	if err != nil {
		return nil, fmt.Errorf("handlers: updater snapshot: %w", err)
	}

	frm := form.New(h.Name(), data, form.WithTree(tree))
	main := frm.AddSection("select_packages", "Package lists",
		"Apart from the basic functionality, you can enable additional "+
			"software packages here. The selection is applied by the automatic "+
			"updater, which also keeps the installed packages up to date.")

	var names []string
	if lists := tree.Find("updater.pkg-list"); lists != nil {
		for _, list := range lists.Children {
			names = append(names, list.Name)
			label, hint := list.Name, ""
			if title := list.Child("title"); title != nil && title.Value != "" {
				label = title.Value
			}
			if description := list.Child("description"); description != nil {
				hint = description.Value
			}
			main.AddField(&form.Field{
				Name:       "install_" + list.Name,
				Kind:       form.KindCheckbox,
				Label:      label,
				Hint:       hint,
				SourcePath: "uci.updater.pkglists.lists",
				Extract:    listMember(list.Name),
			})
		}
	}

	frm.AddCallback(func(_ context.Context, values form.Values) (form.Result, error) {
		patch := uci.NewPatch()
		section := patch.Config("updater").Section("pkglists", "pkglists")

		var selected []string
		for _, name := range names {
			if values.Bool("install_" + name) {
				selected = append(selected, name)
			}
		}
		if len(selected) == 0 {
			section.RemoveList("lists")
		} else {
			section.ReplaceList("lists", selected...)
		}
		return form.EditConfig(patch), nil
	})
	frm.AddCallback(func(ctx context.Context, _ form.Values) (form.Result, error) {
		if err := h.client.CheckUpdates(ctx); err != nil {
			return form.Result{}, fmt.Errorf("run updater: %w", err)
		}
		return form.NoAction(), nil
	})
	return frm, nil
}

// listMember checks a package list name against the enabled lists option.
func listMember(name string) func(*uci.Node) any {
	return func(n *uci.Node) any {
		for _, enabled := range n.Values() {
			if enabled == name {
				return true
			}
		}
		return false
	}
}

package handlers

import (
	"context"
	"fmt"

	"github.com/goliatone/go-uciform/pkg/backend"
	"github.com/goliatone/go-uciform/pkg/form"
)

// Maintenance restores a configuration backup. The backend unpacks and
// applies the archive; the handler just reports the router's address after
// the restore, which may differ from the one the browser is connected to.
type Maintenance struct {
	client backend.Client
}

// NewMaintenance constructs the maintenance handler.
func NewMaintenance(client backend.Client) *Maintenance {
	return &Maintenance{client: client}
}

func (h *Maintenance) Name() string  { return "maintenance" }
func (h *Maintenance) Title() string { return "Maintenance" }

func (h *Maintenance) Form(_ context.Context, data *form.Data) (*form.Form, error) {
	frm := form.New(h.Name(), data)
	main := frm.AddSection("restore_backup", "Configuration restore",
		"To restore the configuration from a backup file, upload it below. "+
			"The router will be restarted in the process and its IP address "+
			"might change. If that happens you will need to adjust your "+
			"browser's address bar accordingly.")

	main.AddField(&form.Field{
		Name:     "backup_file",
		Kind:     form.KindFile,
		Label:    "Backup file",
		Required: true,
	})

	frm.AddCallback(func(ctx context.Context, values form.Values) (form.Result, error) {
		newIP, err := h.client.LoadConfigBackup(ctx, values.File("backup_file"))
		if err != nil {
			return form.Result{}, fmt.Errorf("restore backup: %w", err)
		}
		return form.SaveResult(map[string]any{"new_ip": newIP}), nil
	})
	return frm, nil
}

package handlers

import (
	"context"
	"fmt"

	"github.com/goliatone/go-uciform/pkg/backend"
	"github.com/goliatone/go-uciform/pkg/form"
	"github.com/goliatone/go-uciform/pkg/secrets"
	"github.com/goliatone/go-uciform/pkg/uci"
	"github.com/goliatone/go-uciform/pkg/validators"
)

// Password sets the administration interface password. In change mode the
// current password is verified against the stored hash before anything is
// written.
type Password struct {
	client backend.Client
	change bool
}

// PasswordOption customises the handler.
type PasswordOption func(*Password)

// WithChange switches the handler into change mode: the form asks for the
// current password and the save callback verifies it first.
func WithChange() PasswordOption {
	return func(h *Password) {
		h.change = true
	}
}

// NewPassword constructs the password handler.
func NewPassword(client backend.Client, options ...PasswordOption) *Password {
	h := &Password{client: client}
	for _, opt := range options {
		opt(h)
	}
	return h
}

func (h *Password) Name() string  { return "password" }
func (h *Password) Title() string { return "Password" }

// Form declares the password form. No snapshot is needed: the stored hash is
// fetched lazily inside the save callback, where a change-mode check runs.
func (h *Password) Form(_ context.Context, data *form.Data) (*form.Form, error) {
	frm := form.New(h.Name(), data)
	main := frm.AddSection("set_password", h.Title(),
		"Set your password for this administration interface. "+
			"The password must be at least 6 characters long.")

	passwordLabel, repeatLabel := "Password", "Password (repeat)"
	if h.change {
		main.AddField(&form.Field{
			Name:  "old_password",
			Kind:  form.KindPassword,
			Label: "Current password",
		})
		passwordLabel, repeatLabel = "New password", "New password (repeat)"
	}

	main.AddField(&form.Field{
		Name:       "password",
		Kind:       form.KindPassword,
		Label:      passwordLabel,
		Required:   true,
		Validators: []validators.Validator{validators.LenRange(6, 128)},
	})
	main.AddField(&form.Field{
		Name:       "password_validation",
		Kind:       form.KindPassword,
		Label:      repeatLabel,
		Required:   true,
		Validators: []validators.Validator{validators.EqualTo("password", "Passwords are not equal.")},
	})
	main.AddField(&form.Field{
		Name:  "set_system_pw",
		Kind:  form.KindCheckbox,
		Label: "Use the same password for advanced configuration",
		Hint: "Same password would be used for accessing this administration " +
			"interface, for the root user in the LuCI web interface and for SSH login. " +
			"Use a strong password!",
	})

	frm.AddCallback(h.save)
	return frm, nil
}

func (h *Password) save(ctx context.Context, values form.Values) (form.Result, error) {
	if h.change {
		tree, err := h.client.GetConfig(ctx, backend.ConfigFilter("foris"))
		if err != nil {
			return form.Result{}, fmt.Errorf("fetch stored password: %w", err)
		}
		// An empty stored hash admits any old password, so a fresh device
		// can still set one.
		if stored := tree.Find("uci.foris.auth.password"); stored != nil && stored.Value != "" {
			ok, err := secrets.VerifyPassword(stored.Value, values.String("old_password"))
			if err != nil {
				return form.Result{}, fmt.Errorf("verify stored password: %w", err)
			}
			if !ok {
				return form.SaveResult(map[string]any{"wrong_old_password": true}), nil
			}
		}
	}

	hash, err := secrets.HashPassword(values.String("password"))
	if err != nil {
		return form.Result{}, err
	}

	patch := uci.NewPatch()
	patch.Config("foris").Section("auth", "config").Set("password", hash)

	if values.Bool("set_system_pw") {
		if err := h.client.SetPassword(ctx, "root", values.String("password")); err != nil {
			return form.Result{}, fmt.Errorf("set system password: %w", err)
		}
	}

	return form.EditConfig(patch), nil
}

// SystemPassword sets the root account password for advanced (LuCI/SSH)
// administration. It writes no configuration, only the opaque backend call.
type SystemPassword struct {
	client backend.Client
}

// NewSystemPassword constructs the system password handler.
func NewSystemPassword(client backend.Client) *SystemPassword {
	return &SystemPassword{client: client}
}

func (h *SystemPassword) Name() string  { return "system_password" }
func (h *SystemPassword) Title() string { return "Advanced administration" }

func (h *SystemPassword) Form(_ context.Context, data *form.Data) (*form.Form, error) {
	frm := form.New(h.Name(), data)
	main := frm.AddSection("set_password", h.Title(),
		"In order to access the advanced configuration possibilities which are "+
			"not present here, you must set the root user's password. The advanced "+
			"configuration options can be managed either through the LuCI web "+
			"interface or over SSH.")

	main.AddField(&form.Field{
		Name:       "password",
		Kind:       form.KindPassword,
		Required:   true,
		Validators: []validators.Validator{validators.LenRange(6, 128)},
	})
	main.AddField(&form.Field{
		Name:       "password_validation",
		Kind:       form.KindPassword,
		Label:      "Password (repeat)",
		Required:   true,
		Validators: []validators.Validator{validators.EqualTo("password", "Passwords are not equal.")},
	})

	frm.AddCallback(func(ctx context.Context, values form.Values) (form.Result, error) {
		if err := h.client.SetPassword(ctx, "root", values.String("password")); err != nil {
			return form.Result{}, fmt.Errorf("set system password: %w", err)
		}
		return form.NoAction(), nil
	})
	return frm, nil
}

package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-uciform/pkg/backend"
	"github.com/goliatone/go-uciform/pkg/form"
	"github.com/goliatone/go-uciform/pkg/uci"
	"github.com/goliatone/go-uciform/pkg/validators"
)

// Notifications configures email delivery of the router's notification
// messages, either through the vendor's SMTP relay or a custom server, plus
// the scheduled reboot window announced by those messages.
type Notifications struct {
	client backend.Client
}

// NewNotifications constructs the notifications handler.
func NewNotifications(client backend.Client) *Notifications {
	return &Notifications{client: client}
}

func (h *Notifications) Name() string  { return "notifications" }
func (h *Notifications) Title() string { return "Notifications" }

func (h *Notifications) Form(ctx context.Context, data *form.Data) (*form.Form, error) {
	tree, err := h.client.GetConfig(ctx, backend.ConfigFilter("user_notify"))
	if err != nil {
		return nil, fmt.Errorf("handlers: notifications snapshot: %w", err)
	}

	frm := form.New(h.Name(), data, form.WithTree(tree))
	main := frm.AddSection("notifications", "Notifications settings", "")

	main.AddField(&form.Field{
		Name:       "enable_smtp",
		Kind:       form.KindCheckbox,
		Label:      "Enable notifications",
		Default:    false,
		SourcePath: "uci.user_notify.smtp.enable",
	})
	main.AddField(&form.Field{
		Name:       "use_turris_smtp",
		Kind:       form.KindRadio,
		Label:      "SMTP provider",
		Default:    "0",
		SourcePath: "uci.user_notify.smtp.use_turris_smtp",
		Hint: "If you set SMTP provider to \"Turris\", the servers provided to " +
			"members of the Turris project would be used. These servers do not " +
			"require any additional settings. If you want to set your own SMTP " +
			"server, please select \"Custom\" and enter required settings.",
		Choices: []form.Choice{
			{Value: "1", Label: "Turris"},
			{Value: "0", Label: "Custom"},
		},
	}).Requires("enable_smtp", true)
	main.AddField(&form.Field{
		Name:       "to",
		Kind:       form.KindText,
		Label:      "Recipient's email",
		Hint:       "Email address of recipient. Separate multiple addresses by spaces.",
		Required:   true,
		SourcePath: "uci.user_notify.smtp.to",
		Extract: func(n *uci.Node) any {
			return strings.Join(n.Values(), " ")
		},
	}).Requires("enable_smtp", true)
	main.AddField(&form.Field{
		Name:       "sender_name",
		Kind:       form.KindText,
		Label:      "Sender's name",
		Hint:       "Name of the sender, e.g. the name of your router.",
		Required:   true,
		SourcePath: "uci.user_notify.smtp.sender_name",
		Validators: []validators.Validator{
			validators.RegExp("Sender's name can contain only alphanumeric characters, dots and dashes.",
				`^[0-9a-zA-Z_\.-]+$`),
		},
	}).Requires("enable_smtp", true).Requires("use_turris_smtp", "1")
	main.AddField(&form.Field{
		Name:       "severity",
		Kind:       form.KindDropdown,
		Label:      "Importance",
		Default:    "1",
		SourcePath: "uci.user_notify.notifications.severity",
		Choices: []form.Choice{
			{Value: "1", Label: "Reboot is required"},
			{Value: "2", Label: "Reboot or attention is required"},
			{Value: "3", Label: "Reboot or attention is required or update was installed"},
		},
	}).Requires("enable_smtp", true)
	main.AddField(&form.Field{
		Name:       "news",
		Kind:       form.KindCheckbox,
		Label:      "Send news",
		Hint:       "Send emails about new features.",
		SourcePath: "uci.user_notify.notifications.news",
	}).Requires("enable_smtp", true)

	smtp := frm.AddSection("smtp", "SMTP settings", "")
	smtp.AddField(&form.Field{
		Name:       "from",
		Kind:       form.KindEmail,
		Label:      "Sender address (From)",
		Hint:       "This is the address notifications are send from.",
		Required:   true,
		SourcePath: "uci.user_notify.smtp.from",
		Validators: []validators.Validator{validators.Email()},
	}).Requires("enable_smtp", true).Requires("use_turris_smtp", "0")
	smtp.AddField(&form.Field{
		Name:       "server",
		Kind:       form.KindText,
		Label:      "Server address",
		Required:   true,
		SourcePath: "uci.user_notify.smtp.server",
	}).Requires("enable_smtp", true).Requires("use_turris_smtp", "0")
	smtp.AddField(&form.Field{
		Name:       "port",
		Kind:       form.KindNumber,
		Label:      "Server port",
		Required:   true,
		SourcePath: "uci.user_notify.smtp.port",
		Validators: []validators.Validator{validators.PositiveInteger()},
	}).Requires("enable_smtp", true).Requires("use_turris_smtp", "0")
	smtp.AddField(&form.Field{
		Name:       "security",
		Kind:       form.KindDropdown,
		Label:      "Security",
		Default:    "none",
		SourcePath: "uci.user_notify.smtp.security",
		Choices: []form.Choice{
			{Value: "none", Label: "None"},
			{Value: "ssl", Label: "SSL/TLS"},
			{Value: "starttls", Label: "STARTTLS"},
		},
	}).Requires("enable_smtp", true).Requires("use_turris_smtp", "0")
	smtp.AddField(&form.Field{
		Name:       "username",
		Kind:       form.KindText,
		Label:      "Username",
		SourcePath: "uci.user_notify.smtp.username",
	}).Requires("enable_smtp", true).Requires("use_turris_smtp", "0")
	smtp.AddField(&form.Field{
		Name:       "password",
		Kind:       form.KindPassword,
		Label:      "Password",
		SourcePath: "uci.user_notify.smtp.password",
	}).Requires("enable_smtp", true).Requires("use_turris_smtp", "0")

	reboot := frm.AddSection("reboot", "Reboot is required notification", "")
	reboot.AddField(&form.Field{
		Name:       "delay",
		Kind:       form.KindNumber,
		Label:      "Delay (days)",
		Hint:       "Number of days that must pass between receiving the notification and an automatic restart.",
		Required:   true,
		Default:    "3",
		SourcePath: "uci.user_notify.reboot.delay",
		Validators: []validators.Validator{
			validators.PositiveInteger(),
			validators.InRange(0, 10),
		},
	})
	reboot.AddField(&form.Field{
		Name:       "reboot_time",
		Kind:       form.KindTime,
		Label:      "Reboot time",
		Hint:       "Time of day of automatic reboot in HH:MM format.",
		Required:   true,
		Default:    "03:30",
		SourcePath: "uci.user_notify.reboot.time",
		Validators: []validators.Validator{validators.Time()},
	})

	frm.AddCallback(func(_ context.Context, values form.Values) (form.Result, error) {
		return h.save(values), nil
	})
	return frm, nil
}

func (h *Notifications) save(values form.Values) form.Result {
	patch := uci.NewPatch()
	config := patch.Config("user_notify")

	smtp := config.Section("smtp", "smtp")
	smtp.SetBool("enable", values.Bool("enable_smtp"))

	reboot := config.Section("reboot", "reboot")
	reboot.Set("time", values.String("reboot_time"))
	reboot.Set("delay", values.String("delay"))

	if values.Bool("enable_smtp") {
		useTurris := values.String("use_turris_smtp")
		smtp.Set("use_turris_smtp", useTurris)
		if useTurris == "0" {
			smtp.Set("server", values.String("server"))
			smtp.Set("port", values.String("port"))
			smtp.Set("username", values.String("username"))
			smtp.Set("password", values.String("password"))
			smtp.Set("security", values.String("security"))
			smtp.Set("from", values.String("from"))
		} else {
			smtp.Set("sender_name", values.String("sender_name"))
		}

		recipients := strings.Fields(values.String("to"))
		smtp.ReplaceList("to", recipients...)

		notifications := config.Section("notifications", "notifications")
		notifications.Set("severity", values.String("severity"))
		notifications.SetBool("news", values.Bool("news"))
	}

	return form.EditConfig(patch)
}

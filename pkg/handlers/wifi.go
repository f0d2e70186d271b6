package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-uciform/pkg/backend"
	"github.com/goliatone/go-uciform/pkg/form"
	"github.com/goliatone/go-uciform/pkg/uci"
	"github.com/goliatone/go-uciform/pkg/validators"
)

// Wifi configures the wireless access point. The channel choices come from
// the device's capability report, so the form only ever offers channels the
// card can actually tune to. Devices without a wireless card get
// ErrNotAvailable instead of a form.
type Wifi struct {
	client backend.Client
}

// NewWifi constructs the Wi-Fi handler.
func NewWifi(client backend.Client) *Wifi {
	return &Wifi{client: client}
}

func (h *Wifi) Name() string  { return "wifi" }
func (h *Wifi) Title() string { return "Wi-Fi" }

func (h *Wifi) Form(ctx context.Context, data *form.Data) (*form.Form, error) {
	tree, err := h.client.GetConfig(ctx, backend.Filter{
		Configs: []string{"wireless"},
		Modules: []string{"stats"},
	})
	if err != nil {
		return nil, fmt.Errorf("handlers: wifi snapshot: %w", err)
	}

	cards := tree.Find("stats.wireless-cards")
	if cards == nil || len(cards.Children) == 0 {
		return nil, ErrNotAvailable
	}
	channels2g4, channels5g := cardChannels(cards.Children[0])
	dual := len(channels2g4) > 1 && len(channels5g) > 1

	frm := form.New(h.Name(), data, form.WithTree(tree))
	main := frm.AddSection("wifi", h.Title(),
		"If you want to use your router as a Wi-Fi access point, enable Wi-Fi "+
			"here and fill in an SSID (the name of the access point) and a "+
			"corresponding password. You can then set up your mobile devices, "+
			"using the QR code available next to the form.")

	main.AddField(&form.Field{
		Name:       "iface_section",
		Kind:       form.KindHidden,
		SourcePath: "uci.wireless.@wifi-iface[0]",
		Extract: func(n *uci.Node) any {
			return n.Name
		},
	})
	main.AddField(&form.Field{
		Name:       "wifi_enabled",
		Kind:       form.KindCheckbox,
		Label:      "Enable Wi-Fi",
		Default:    true,
		SourcePath: "uci.wireless.@wifi-iface[0].disabled",
		Extract: func(n *uci.Node) any {
			return !uci.ParseBool(n.Value)
		},
	})
	main.AddField(&form.Field{
		Name:       "ssid",
		Kind:       form.KindText,
		Label:      "SSID",
		Required:   true,
		SourcePath: "uci.wireless.@wifi-iface[0].ssid",
		Validators: []validators.Validator{validators.ByteLenRange(1, 32)},
	}).Requires("wifi_enabled", true)
	main.AddField(&form.Field{
		Name:       "ssid_hidden",
		Kind:       form.KindCheckbox,
		Label:      "Hide SSID",
		Hint:       "If set, network is not visible when scanning for available networks.",
		SourcePath: "uci.wireless.@wifi-iface[0].hidden",
	}).Requires("wifi_enabled", true)

	if dual {
		main.AddField(&form.Field{
			Name:       "hwmode",
			Kind:       form.KindRadio,
			Label:      "Wi-Fi mode",
			Default:    "11ng",
			SourcePath: "uci.wireless.radio0.hwmode",
			Extract: func(n *uci.Node) any {
				// The stored mode may carry an n suffix the choice
				// values drop.
				return strings.ReplaceAll(n.Value, "n", "")
			},
			Hint: "The 2.4 GHz band is more widely supported by clients, but " +
				"tends to have more interference. The 5 GHz band is a newer " +
				"standard and may not be supported by all your devices. It " +
				"usually has less interference, but the signal does not carry " +
				"so well indoors.",
			Choices: []form.Choice{
				{Value: "11g", Label: "2.4 GHz (g)"},
				{Value: "11a", Label: "5 GHz (a)"},
			},
		}).Requires("wifi_enabled", true)
	}
	main.AddField(&form.Field{
		Name:       "htmode",
		Kind:       form.KindDropdown,
		Label:      "802.11n mode",
		Default:    "HT20",
		SourcePath: "uci.wireless.radio0.htmode",
		Hint: "Change this to adjust 802.11n mode of operation. 802.11n with " +
			"40 MHz wide channels can yield higher throughput but can cause more " +
			"interference in the network. If you don't know what to choose, use " +
			"the default option with 20 MHz wide channel.",
		Choices: []form.Choice{
			{Value: "NOHT", Label: "Disabled"},
			{Value: "HT20", Label: "802.11n - 20 MHz wide channel"},
			{Value: "HT40", Label: "802.11n - 40 MHz wide channel"},
		},
	}).Requires("wifi_enabled", true)

	if len(channels2g4) > 1 {
		field := main.AddField(&form.Field{
			Name:       "channel2g4",
			Kind:       form.KindDropdown,
			Label:      "Network channel",
			Default:    "auto",
			SourcePath: "uci.wireless.radio0.channel",
			Choices:    channels2g4,
		}).Requires("wifi_enabled", true)
		if dual {
			field.Requires("hwmode", "11g")
		}
	}
	if len(channels5g) > 1 {
		field := main.AddField(&form.Field{
			Name:       "channel5g",
			Kind:       form.KindDropdown,
			Label:      "Network channel",
			Default:    channels5g[0].Value,
			SourcePath: "uci.wireless.radio0.channel",
			Choices:    channels5g,
		}).Requires("wifi_enabled", true)
		if dual {
			field.Requires("hwmode", "11a")
		}
	}

	main.AddField(&form.Field{
		Name:       "key",
		Kind:       form.KindPassword,
		Label:      "Network password",
		Hint: "WPA2 pre-shared key, that is required to connect to the " +
			"network. Minimum length is 8 characters.",
		Required:   true,
		SourcePath: "uci.wireless.@wifi-iface[0].key",
		Validators: []validators.Validator{validators.ByteLenRange(8, 63)},
	}).Requires("wifi_enabled", true)

	frm.AddCallback(func(_ context.Context, values form.Values) (form.Result, error) {
		return h.save(dual, values), nil
	})
	return frm, nil
}

func (h *Wifi) save(dual bool, values form.Values) form.Result {
	patch := uci.NewPatch()
	wireless := patch.Config("wireless")
	iface := wireless.Section(values.String("iface_section"), "wifi-iface")
	device := wireless.Section("radio0", "wifi-device")

	enabled := values.Bool("wifi_enabled")
	iface.SetBool("disabled", !enabled)
	device.SetBool("disabled", !enabled)
	if !enabled {
		return form.EditConfig(patch)
	}

	iface.Set("ssid", values.String("ssid"))
	iface.SetBool("hidden", values.Bool("ssid_hidden"))
	iface.Set("encryption", "psk2+tkip+aes")
	iface.Set("key", values.String("key"))

	hwmode := values.String("hwmode")
	var channel string
	if dual && hwmode == "11a" {
		channel = values.String("channel5g")
	} else if channel = values.String("channel2g4"); channel == "" {
		channel = values.String("channel5g")
	}
	if channel == "" {
		channel = "auto"
	}

	if hwmode != "" {
		device.Set("hwmode", hwmode)
	}
	device.Set("htmode", values.String("htmode"))
	device.Set("channel", channel)

	return form.EditConfig(patch)
}

// cardChannels splits a card's usable channels into 2.4 GHz and 5 GHz
// dropdown choices, with automatic selection offered for the 2.4 GHz band.
func cardChannels(card *uci.Node) (channels2g4, channels5g []form.Choice) {
	channels2g4 = []form.Choice{{Value: "auto", Label: "auto"}}
	channels := card.Child("channels")
	if channels == nil {
		return channels2g4, nil
	}
	for _, ch := range channels.Children {
		if disabled := ch.Child("disabled"); disabled != nil && uci.ParseBool(disabled.Value) {
			continue
		}
		number, frequency := ch.Child("number"), ch.Child("frequency")
		if number == nil || frequency == nil {
			continue
		}
		choice := form.Choice{
			Value: number.Value,
			Label: fmt.Sprintf("%s (%s MHz)", number.Value, frequency.Value),
		}
		if mhz, err := strconv.Atoi(frequency.Value); err == nil && mhz < 2500 {
			channels2g4 = append(channels2g4, choice)
		} else {
			channels5g = append(channels5g, choice)
		}
	}
	return channels2g4, channels5g
}

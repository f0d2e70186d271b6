// Package backend declares the collaborator interface to the external
// configuration management service. The form core only reads configuration
// snapshots and hands back patches; transport, atomicity, and the system
// side effects behind the opaque calls are the service's concern.
package backend

import (
	"context"
	"io"

	"github.com/goliatone/go-uciform/pkg/uci"
)

// Filter narrows which parts of the configuration state a GetConfig call
// fetches. It is a performance hint only: paths covered by the filter must
// read the same as they would from an unfiltered snapshot. Configs name UCI
// configs under the "uci" root; Modules name auxiliary roots such as
// "stats", "updater", or "time".
type Filter struct {
	Configs []string
	Modules []string
}

// ConfigFilter builds a filter covering the named UCI configs.
func ConfigFilter(configs ...string) Filter {
	return Filter{Configs: configs}
}

// ModuleFilter builds a filter covering the named auxiliary module roots.
func ModuleFilter(modules ...string) Filter {
	return Filter{Modules: modules}
}

// With merges another filter into a copy of f.
func (f Filter) With(other Filter) Filter {
	return Filter{
		Configs: append(append([]string(nil), f.Configs...), other.Configs...),
		Modules: append(append([]string(nil), f.Modules...), other.Modules...),
	}
}

// Client is the configuration backend the handlers talk to.
//
// Apply must be atomic: either every operation in the patch lands or none
// does. The remaining calls are opaque side-effecting operations invoked
// from specific handler callbacks; their failures surface as errors and are
// never retried here.
type Client interface {
	// GetConfig fetches a read-only snapshot of current configuration
	// narrowed by the filter.
	GetConfig(ctx context.Context, filter Filter) (*uci.Tree, error)

	// Apply submits a patch as one atomic transaction.
	Apply(ctx context.Context, patch *uci.Patch) error

	// SetPassword sets a system account password.
	SetPassword(ctx context.Context, user, plaintext string) error

	// CheckUpdates asks the updater service to look for updates.
	CheckUpdates(ctx context.Context) error

	// LoadConfigBackup restores configuration from a backup archive and
	// returns the router's new IP address, or "" when it did not change.
	LoadConfigBackup(ctx context.Context, backup io.Reader) (string, error)

	// SetTime sets the system clock.
	SetTime(ctx context.Context, value string) error
}

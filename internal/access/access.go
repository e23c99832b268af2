// Package access decides whether a caller may message a target service.
//
// The rule set is a capability allow-list over the directed graph declared
// in harbor.json and frozen into the session registry at launch. It lets
// automation agents self-limit blast radius; it is not a security boundary
// against code with direct tmux access.
package access

import (
	"fmt"
	"os"
	"strings"

	"github.com/harborctl/harbor/internal/model"
	"github.com/harborctl/harbor/internal/registry"
)

// EnvService is the ambient variable naming the service whose pane the
// current process runs in. The launcher sets it when creating each pane;
// outside any pane it is unset.
const EnvService = "HARBOR_SERVICE"

// CallerIdentity returns the current pane's service identity, or "" when
// the process runs outside any harbor pane.
func CallerIdentity() string {
	return os.Getenv(EnvService)
}

// DeniedError reports a capability-list denial. The fix is configuration
// time (add the target to the caller's canAccess and relaunch), not a
// runtime retry.
type DeniedError struct {
	Caller string
	Target string
}

func (e *DeniedError) Error() string {
	return fmt.Sprintf("%s does not have access to %s; add %q to the canAccess list of %s in harbor.json and restart the session",
		e.Caller, e.Target, e.Target, e.Caller)
}

// Check applies the access rules in order:
//
//  1. No session running → denied.
//  2. Unknown target → denied, listing the valid names.
//  3. Caller outside any pane → allowed (outside the sandbox, full trust:
//     the boundary enforced is pane-to-pane, not user-to-system).
//  4. Caller not itself a registered service → allowed.
//  5. Otherwise allowed iff target is in the caller's capability list.
func Check(info *model.SessionInfo, caller, target string) error {
	if info == nil {
		return registry.ErrNoSession
	}
	if _, ok := info.Services[target]; !ok {
		return &registry.UnknownServiceError{Name: target, Valid: info.SortedServiceNames()}
	}
	if caller == "" {
		return nil
	}
	entry, ok := info.Services[caller]
	if !ok {
		return nil
	}
	if entry.HasAccess(target) {
		return nil
	}
	return &DeniedError{Caller: caller, Target: target}
}

// Describe returns a one-line summary of the caller's standing, used by the
// whoami and context renderers.
func Describe(info *model.SessionInfo, caller string) string {
	if caller == "" {
		return "outside any harbor pane (full access)"
	}
	entry, ok := info.Services[caller]
	if !ok {
		return fmt.Sprintf("%s (not a registered service, full access)", caller)
	}
	if len(entry.CanAccess) == 0 {
		return fmt.Sprintf("%s (no access to other services)", caller)
	}
	return fmt.Sprintf("%s (can access: %s)", caller, strings.Join(entry.CanAccess, ", "))
}

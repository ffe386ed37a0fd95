//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"fmt"
	"os"
	"os/user"
)

// Actor identifies the machine and OS user issuing a command.
type Actor struct {
	Hostname string
	Username string
}

// String formats the actor as user@host.
func (a *Actor) String() string {
	if a == nil {
		return ""
	}

	return a.Username + "@" + a.Hostname
}

// DetectActor gathers host and user information for the audit trail.
func DetectActor() (*Actor, error) {
	hostname, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("hostname: %w", err)
	}

	currentUser, err := user.Current()
	if err != nil {
		return nil, fmt.Errorf("current user: %w", err)
	}

	return &Actor{
		Hostname: hostname,
		Username: currentUser.Username,
	}, nil
}

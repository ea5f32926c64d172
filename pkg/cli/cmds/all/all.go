// Package all registers all shell commands.
package all

import (
	// vehicle commands
	_ "github.com/robotalks/rov.go/pkg/cli/cmds/thruster"
)

// SPDX-License-Identifier: MPL-2.0

// Command buildboot bootstraps the build tool from sources or runs its
// prebuilt artifact, forwarding every argument and the exit code.
package main

import (
	"os"

	cmd "github.com/buildboot/buildboot/cmd/buildboot"
)

func main() {
	os.Exit(cmd.RunLauncher())
}

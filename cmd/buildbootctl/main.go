// SPDX-License-Identifier: MPL-2.0

// Command buildbootctl inspects and maintains buildboot's caches.
package main

import (
	"os"

	cmd "github.com/buildboot/buildboot/cmd/buildboot"
)

func main() {
	os.Exit(cmd.RunCtl())
}

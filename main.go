// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/surrogate/surrogate/cmd/surrogate"

func main() {
	cmd.Execute()
}

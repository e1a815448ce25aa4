// Copyright © 2025 The luavet authors

// Command luavet reports likely variable-usage mistakes in Lua source
// files.
package main

import "github.com/luavet/luavet/cmd"

func main() {
	cmd.Execute()
}

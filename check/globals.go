// Copyright © 2025 The luavet authors

package check

// defaultGlobals is the Lua 5.1/5.2 standard environment: base library
// functions plus the standard library table names.
var defaultGlobals = []string{
	"_G",
	"_VERSION",
	"arg",
	"assert",
	"bit32",
	"collectgarbage",
	"coroutine",
	"debug",
	"dofile",
	"error",
	"getfenv",
	"getmetatable",
	"io",
	"ipairs",
	"load",
	"loadfile",
	"loadstring",
	"math",
	"module",
	"next",
	"os",
	"package",
	"pairs",
	"pcall",
	"print",
	"rawequal",
	"rawget",
	"rawlen",
	"rawset",
	"require",
	"select",
	"setfenv",
	"setmetatable",
	"string",
	"table",
	"tonumber",
	"tostring",
	"type",
	"unpack",
	"xpcall",
}

// DefaultGlobals returns the default set of predefined identifier names.
// The returned slice is a copy; callers may append to it freely.
func DefaultGlobals() []string {
	names := make([]string, len(defaultGlobals))
	copy(names, defaultGlobals)
	return names
}

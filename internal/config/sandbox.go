package config

import (
	lua "github.com/yuin/gopher-lua"
)

// blockedGlobals are removed from every config VM. os and io reach the host,
// the loaders pull in code from outside the file, and debug can undo the rest.
var blockedGlobals = []string{
	"os",
	"io",
	"debug",
	"require",
	"dofile",
	"loadfile",
	"load",
	"loadstring",
	"module",
	"collectgarbage",
}

func sandboxLuaVM(L *lua.LState) {
	for _, name := range blockedGlobals {
		L.SetGlobal(name, lua.LNil)
	}
	L.SetGlobal("package", lua.LNil)
}

// newSandboxedVM creates a Lua state for config parsing.
func newSandboxedVM() *lua.LState {
	L := lua.NewState()
	sandboxLuaVM(L)
	return L
}

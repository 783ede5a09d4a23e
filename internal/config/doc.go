// Package config loads the bootstrap configuration from a sandboxed Lua file.
//
// # Schema
//
// A config file assigns a global "bootstrap" table. Every section is
// optional; missing fields keep the platform defaults from Default.
//
//	bootstrap = {
//	  repository = { url = "https://github.com/org/installer.git", branch = "main" },
//	  installer = { interpreter = { "sh" }, script = "install.sh", args = { "--quiet" } },
//	  package_manager = {
//	    command = platform.is_windows and "winget" or "brew",
//	    trigger = "install",
//	    install_args = { "--silent" },
//	    track = { "PATH", "PSModulePath" },
//	    scopes = { "machine", "user" },
//	  },
//	  requires = {
//	    "curl",
//	    { tool = "git", min_version = "2.30", package = "Git.Git" },
//	  },
//	}
//
// # Sandbox
//
// Config files run in gopher-lua with os, io, debug and every code loading
// function removed. The read-only platform table from the platform package
// is available so one file can serve every host.
//
// # Errors
//
// Lua failures and validation failures are reported as *ParseError. Use
// FormatError to render one for a terminal.
package config

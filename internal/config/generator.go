package config

import (
	"bytes"
	"strings"
)

// Generator generates Lua configuration code from a Config.
type Generator struct {
	indent string
}

// NewGenerator creates a new Lua config generator.
func NewGenerator() *Generator {
	return &Generator{indent: "  "}
}

// Generate renders cfg as a config file that ParseString reads back to an
// equal Config.
func (g *Generator) Generate(cfg *Config) string {
	var buf bytes.Buffer

	buf.WriteString("-- zerb-bootstrap configuration\n")
	buf.WriteString("-- The read-only `platform` table is available, e.g. platform.is_windows.\n\n")
	buf.WriteString(luaGlobalBootstrap + " = {\n")

	g.open(&buf, 1, luaFieldRepository)
	g.field(&buf, 2, luaFieldURL, cfg.Repository.URL)
	if cfg.Repository.Branch != "" {
		g.field(&buf, 2, luaFieldBranch, cfg.Repository.Branch)
	}
	g.close(&buf, 1)

	g.open(&buf, 1, luaFieldInstaller)
	g.list(&buf, 2, luaFieldInterpreter, cfg.Installer.Interpreter)
	g.field(&buf, 2, luaFieldScript, cfg.Installer.Script)
	if len(cfg.Installer.Args) > 0 {
		g.list(&buf, 2, luaFieldArgs, cfg.Installer.Args)
	}
	g.close(&buf, 1)

	pm := cfg.PackageManager
	g.open(&buf, 1, luaFieldPackageMgr)
	g.field(&buf, 2, luaFieldCommand, pm.Command)
	g.field(&buf, 2, luaFieldTrigger, pm.Trigger)
	if len(pm.InstallArgs) > 0 {
		g.list(&buf, 2, luaFieldInstallArgs, pm.InstallArgs)
	}
	g.list(&buf, 2, luaFieldTrack, pm.Track)
	g.list(&buf, 2, luaFieldScopes, pm.Scopes)
	g.close(&buf, 1)

	buf.WriteString(g.indent + luaFieldRequires + " = {\n")
	for _, req := range cfg.Requires {
		buf.WriteString(strings.Repeat(g.indent, 2) + "{ " + luaFieldTool + " = " + g.quoteLuaString(req.Tool))
		if req.MinVersion != "" {
			buf.WriteString(", " + luaFieldMinVersion + " = " + g.quoteLuaString(req.MinVersion))
		}
		if req.Package != "" {
			buf.WriteString(", " + luaFieldPackage + " = " + g.quoteLuaString(req.Package))
		}
		buf.WriteString(" },\n")
	}
	g.close(&buf, 1)

	buf.WriteString("}\n")
	return buf.String()
}

func (g *Generator) open(buf *bytes.Buffer, depth int, name string) {
	buf.WriteString(strings.Repeat(g.indent, depth) + name + " = {\n")
}

func (g *Generator) close(buf *bytes.Buffer, depth int) {
	buf.WriteString(strings.Repeat(g.indent, depth) + "},\n")
}

func (g *Generator) field(buf *bytes.Buffer, depth int, name, value string) {
	buf.WriteString(strings.Repeat(g.indent, depth) + name + " = " + g.quoteLuaString(value) + ",\n")
}

func (g *Generator) list(buf *bytes.Buffer, depth int, name string, values []string) {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = g.quoteLuaString(v)
	}
	buf.WriteString(strings.Repeat(g.indent, depth) + name + " = { " + strings.Join(quoted, ", ") + " },\n")
}

// quoteLuaString quotes a string for Lua, handling special characters.
func (g *Generator) quoteLuaString(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\") // Escape backslashes first
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\r", "\\r")
	s = strings.ReplaceAll(s, "\t", "\\t")
	return "\"" + s + "\""
}

package shell

import (
	"fmt"
	"strings"

	"github.com/ZebulonRouseFrantzich/zerb-bootstrap/internal/reconcile"
)

// Render returns a script that appends each change's added entries to the
// variable in the current shell session. delim joins entries for shells
// that store the variable as a single string.
func Render(shell ShellType, changes []reconcile.Change, delim string) (string, error) {
	if err := ValidateShell(shell); err != nil {
		return "", err
	}

	var b strings.Builder
	for _, c := range changes {
		if len(c.Added) == 0 {
			continue
		}
		joined := strings.Join(c.Added, delim)

		switch shell {
		case ShellBash, ShellZsh:
			fmt.Fprintf(&b, "export %s=\"${%s:+${%s}%s}\"%s\n", c.Name, c.Name, c.Name, delim, posixQuote(joined))
		case ShellFish:
			quoted := make([]string, len(c.Added))
			for i, e := range c.Added {
				quoted[i] = fishQuote(e)
			}
			fmt.Fprintf(&b, "set -gx %s $%s %s\n", c.Name, c.Name, strings.Join(quoted, " "))
		case ShellPowerShell:
			fmt.Fprintf(&b, "$env:%s = (@($env:%s, %s) | Where-Object { $_ }) -join %s\n",
				c.Name, c.Name, powershellQuote(joined), powershellQuote(delim))
		}
	}
	return b.String(), nil
}

// ActivationHint returns the line a user runs to apply Render's output.
func ActivationHint(shell ShellType) string {
	switch shell {
	case ShellFish:
		return "zerb-bootstrap env --shell fish | source"
	case ShellPowerShell:
		return "zerb-bootstrap env --shell powershell | Out-String | Invoke-Expression"
	default:
		return fmt.Sprintf(`eval "$(zerb-bootstrap env --shell %s)"`, shell)
	}
}

func posixQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func fishQuote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return "'" + strings.ReplaceAll(s, "'", `\'`) + "'"
}

func powershellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

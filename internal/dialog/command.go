package dialog

import (
	"fmt"
	"strings"
)

// Builders for the single-line console command grammar. The verb phrases are
// the wire contract with the game server and must be reproduced verbatim.

const cmdServerInfo = "server info"

func cmdAccountCreate(login, password string) string {
	return fmt.Sprintf("account create %s %s", sanitize(login), sanitize(password))
}

func cmdSetPassword(login, password string) string {
	pw := sanitize(password)
	return fmt.Sprintf("account set password %s %s %s", sanitize(login), pw, pw)
}

func cmdCharacterCustomize(name string) string {
	return fmt.Sprintf("character customize %s", sanitize(name))
}

func cmdCharacterChangeFaction(name string) string {
	return fmt.Sprintf("character changefaction %s", sanitize(name))
}

func cmdTeleportHome(name string) string {
	return fmt.Sprintf("teleport name %s $home", sanitize(name))
}

func cmdBanCharacter(name, seconds, reason string) string {
	return fmt.Sprintf("ban character %s %s %s", sanitize(name), sanitize(seconds), sanitize(reason))
}

func cmdUnbanCharacter(name string) string {
	return fmt.Sprintf("unban character %s", sanitize(name))
}

func cmdSendMail(name, subject, body string) string {
	return fmt.Sprintf("send mail %s %s %s", sanitize(name), quote(subject), quote(body))
}

func cmdSendMoney(name, subject, body, amount string) string {
	return fmt.Sprintf("send money %s %s %s %s",
		sanitize(name), quote(subject), quote(body), sanitize(amount))
}

func cmdSendItems(name, subject, body, items string) string {
	return fmt.Sprintf("send items %s %s %s %s",
		sanitize(name), quote(subject), quote(body), sanitize(items))
}

func cmdServerRestart(delay, exitCode string) string {
	return fmt.Sprintf("server restart %s %s", sanitize(delay), sanitize(exitCode))
}

// isSingleToken reports whether s can stand as one unquoted command
// argument. Anything containing whitespace would shift the tokens the
// console sees, so single-token fields must reject it up front instead of
// letting sanitize mangle it later.
func isSingleToken(s string) bool {
	return s != "" && !strings.ContainsAny(s, " \t\r\n")
}

// sanitize strips line breaks from a user-supplied argument so it can never
// break the single-line command or the XML envelope around it.
func sanitize(arg string) string {
	arg = strings.ReplaceAll(arg, "\r", " ")
	arg = strings.ReplaceAll(arg, "\n", " ")
	return strings.TrimSpace(arg)
}

// quote wraps an argument in double quotes, escaping embedded backslashes and
// quotes so the console parses it as a single field.
func quote(arg string) string {
	arg = sanitize(arg)
	arg = strings.ReplaceAll(arg, `\`, `\\`)
	arg = strings.ReplaceAll(arg, `"`, `\"`)
	return `"` + arg + `"`
}

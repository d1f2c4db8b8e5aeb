package dialog

import (
	"strings"
	"testing"
)

// splitQuoted splits a command line by the console's quoting convention:
// space-delimited fields, double quotes group a field, backslash escapes the
// next character inside quotes. Used to verify the builders round-trip.
func splitQuoted(t *testing.T, line string) []string {
	t.Helper()
	var fields []string
	var cur strings.Builder
	inQuotes := false
	escaped := false
	for _, r := range line {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case r == '\\' && inQuotes:
			escaped = true
		case r == '"':
			inQuotes = !inQuotes
		case r == ' ' && !inQuotes:
			if cur.Len() > 0 {
				fields = append(fields, cur.String())
				cur.Reset()
			}
		default:
			cur.WriteRune(r)
		}
	}
	if escaped || inQuotes {
		t.Fatalf("unbalanced quoting in %q", line)
	}
	if cur.Len() > 0 {
		fields = append(fields, cur.String())
	}
	return fields
}

func TestSendMailQuoteRoundTrip(t *testing.T) {
	subject := `He said "hi"`
	body := `line with \backslash\ and "quotes"`
	cmd := cmdSendMail("Thrall", subject, body)

	fields := splitQuoted(t, cmd)
	// send mail <name> <subject> <body>
	if len(fields) != 5 {
		t.Fatalf("expected 5 fields, got %d: %q", len(fields), fields)
	}
	if fields[0] != "send" || fields[1] != "mail" || fields[2] != "Thrall" {
		t.Fatalf("verb phrase broken: %q", fields[:3])
	}
	if fields[3] != subject {
		t.Fatalf("subject did not round-trip: got %q, want %q", fields[3], subject)
	}
	if fields[4] != body {
		t.Fatalf("body did not round-trip: got %q, want %q", fields[4], body)
	}
}

func TestCommandGrammar(t *testing.T) {
	cases := []struct {
		got  string
		want string
	}{
		{cmdAccountCreate("bob", "secret"), "account create bob secret"},
		{cmdSetPassword("bob", "pw1"), "account set password bob pw1 pw1"},
		{cmdCharacterCustomize("Thrall"), "character customize Thrall"},
		{cmdCharacterChangeFaction("Thrall"), "character changefaction Thrall"},
		{cmdTeleportHome("Thrall"), "teleport name Thrall $home"},
		{cmdBanCharacter("Thrall", "3600", "griefing"), "ban character Thrall 3600 griefing"},
		{cmdUnbanCharacter("Thrall"), "unban character Thrall"},
		{cmdSendMail("Thrall", "s", "b"), `send mail Thrall "s" "b"`},
		{cmdSendMoney("Thrall", "s", "b", "100"), `send money Thrall "s" "b" 100`},
		{cmdSendItems("Thrall", "s", "b", "19019:1"), `send items Thrall "s" "b" 19019:1`},
		{cmdServerRestart("30", "0"), "server restart 30 0"},
	}
	for _, tc := range cases {
		if tc.got != tc.want {
			t.Errorf("got %q, want %q", tc.got, tc.want)
		}
	}
}

func TestSanitizeStripsLineBreaks(t *testing.T) {
	cmd := cmdAccountCreate("bob\r\nserver", "pw")
	if strings.ContainsAny(cmd, "\r\n") {
		t.Fatalf("line break leaked into command: %q", cmd)
	}
}

func TestQuoteStripsLineBreaks(t *testing.T) {
	cmd := cmdSendMail("Thrall", "subj", "first\nsecond")
	if strings.Contains(cmd, "\n") {
		t.Fatalf("line break leaked into quoted field: %q", cmd)
	}
}

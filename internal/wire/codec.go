package wire

import (
	"fmt"
	"strings"

	"github.com/horgh/irc"
)

// Parse decodes one inbound protocol line. The caller (the Participant
// Session's read loop) is expected to have already stripped embedded NULs
// and trailing whitespace isn't required, but is tolerated here too.
//
// Runs of more than one space between tokens are squeezed down to a
// single space before handing the line to the underlying parser: a run
// of interior spaces has no tokens between them to report as params, so
// "join  #a" parses the same as "join #a" rather than failing.
//
// Parse fails when the line carries no command token, and also on any
// other line that the underlying irc.ParseMessage rejects as malformed.
func Parse(line string) (*Message, error) {
	trimmed := strings.TrimRight(line, " \r\n")
	if trimmed == "" {
		return nil, fmt.Errorf("invalid input: empty line")
	}

	raw, err := irc.ParseMessage(squeezeSpaces(trimmed) + "\r\n")
	if err != nil {
		return nil, err
	}

	return &Message{
		Prefix:  raw.Prefix,
		Command: commandFromToken(raw.Command),
		Name:    strings.ToUpper(raw.Command),
		Params:  raw.Params,
	}, nil
}

// squeezeSpaces collapses runs of interior whitespace to a single space,
// leaving the trailing parameter (the part from the first " :" onward)
// untouched so a deliberate run of spaces inside trailing text is never
// altered.
func squeezeSpaces(line string) string {
	head := line
	tail := ""
	if i := strings.Index(line, " :"); i >= 0 {
		head, tail = line[:i], line[i:]
	}
	return strings.Join(strings.Fields(head), " ") + tail
}

// EncodeCommand serializes a non-numeric command line sourced from prefix.
// The final param of PRIVMSG (the message text) and of QUIT (the reason)
// is always sent in trailing ":" form, even when it is a single word.
func EncodeCommand(prefix string, command Command, params []string) (string, error) {
	m := irc.Message{Prefix: prefix, Command: string(command), Params: params}
	line, err := m.Encode()
	if err != nil {
		return "", err
	}
	if (command == CmdPrivmsg || command == CmdQuit) && len(params) > 0 {
		last := params[len(params)-1]
		plain := " " + last + "\r\n"
		if strings.HasSuffix(line, plain) && !strings.HasSuffix(line, " :"+last+"\r\n") {
			line = strings.TrimSuffix(line, plain) + " :" + last + "\r\n"
		}
	}
	return line, nil
}

// EncodeNumeric serializes a numeric reply line sourced from prefix. Which
// params a given code expects (a leading target identifier, or none) is a
// property of that reply, not of this function - callers build params
// themselves per the reply table in internal/wire/replies.go.
func EncodeNumeric(prefix, code string, params []string) (string, error) {
	m := irc.Message{Prefix: prefix, Command: code, Params: params}
	return m.Encode()
}

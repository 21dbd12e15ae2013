package wire

import "github.com/horgh/irc"

// Numeric reply codes this server emits. RplWelcome reuses the constant
// the codec library (github.com/horgh/irc) already defines.
const (
	RplWelcome = irc.ReplyWelcome // 001

	RplAway    = "301"
	RplUnaway  = "305"
	RplNowAway = "306"

	RplList    = "322"
	RplListEnd = "323"

	ErrNoSuchNick        = "401"
	ErrNoSuchChannel     = "403"
	ErrCannotSendToChan  = "404"
	ErrNoRecipient       = "411"
	ErrUnknownCommand    = "421"
	ErrNoNicknameGiven   = "431"
	ErrNicknameInUse     = "433"
	ErrUserNotInChannel  = "441"
	ErrNotOnChannel      = "442"
	ErrNotRegistered     = "451"
	ErrNeedMoreParams    = "461"
	ErrAlreadyRegistered = "462"
)

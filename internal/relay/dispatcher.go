package relay

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/horgh/relaycat/internal/registry"
	"github.com/horgh/relaycat/internal/wire"
)

// logEncodeError reports a failure to serialize an outbound message built
// by the dispatcher itself. It should never happen given the params each
// handler constructs - it's an internal invariant violation, not
// something the client caused, so it's logged rather than surfaced to
// anyone as a protocol error.
func logEncodeError(id uuid.UUID, err error) {
	log.Printf("%s: %s", id, errors.Wrap(err, "internal invariant violation: encoding an outbound message"))
}

// action tells the session loop what to do after one dispatch call.
type action int

const (
	actionContinue action = iota
	actionQuit
)

// dispatch routes one parsed message to its handler and, once the
// handler returns, checks whether registration just completed.
//
// The inbound prefix is never trusted: before any handler runs, it is
// overwritten with the dispatching participant's own current prefix, so
// anything routed onward during this call carries the true originator's
// identity (matching the participant's nick/user at the time the command
// arrived, not whatever they change them to afterward).
func dispatch(s *session, msg *wire.Message) action {
	msg.Prefix = s.self.Prefix()

	if !s.self.IsRegistered() && requiresRegistration(msg.Command) {
		s.reply(wire.ErrNotRegistered, []string{"You have not registered."})
		return actionContinue
	}

	var result action
	switch msg.Command {
	case wire.CmdUser:
		result = dispatchUser(s, msg)
	case wire.CmdNick:
		result = dispatchNick(s, msg)
	case wire.CmdJoin:
		result = dispatchJoin(s, msg)
	case wire.CmdPart:
		result = dispatchPart(s, msg)
	case wire.CmdKick:
		result = dispatchKick(s, msg)
	case wire.CmdPrivmsg:
		result = dispatchPrivmsg(s, msg)
	case wire.CmdList:
		result = dispatchList(s, msg)
	case wire.CmdAway:
		result = dispatchAway(s, msg)
	case wire.CmdQuit:
		result = dispatchQuit(s, msg)
	case wire.CmdPing:
		result = dispatchPing(s, msg)
	case wire.CmdPong, wire.CmdError:
		result = actionContinue
	default:
		s.reply(wire.ErrUnknownCommand, []string{"Unknown command."})
		result = actionContinue
	}

	maybeCompleteRegistration(s)

	return result
}

func requiresRegistration(cmd wire.Command) bool {
	return cmd != wire.CmdUser && cmd != wire.CmdNick && cmd != wire.CmdQuit
}

// maybeCompleteRegistration fires the Registered transition once both a
// nickname and a username are set. It may run after any command, but
// only NICK and USER can ever cause it to trigger.
func maybeCompleteRegistration(s *session) {
	if s.self.IsRegistered() {
		return
	}

	nick := s.self.Nickname()
	user := s.self.Username()
	if nick == "" || user == "" {
		return
	}

	s.self.SetRegistered(true)

	// Sourced from the participant's own prefix: this is the one reply
	// where the client learns its assigned uhost, so the server's own
	// identity isn't what belongs in Prefix here.
	s.replyFromSelf(wire.RplWelcome, []string{
		nick,
		fmt.Sprintf("Welcome to the Internet Relay Network %s", s.self.Prefix()),
	})
}

func dispatchUser(s *session, msg *wire.Message) action {
	if s.self.IsRegistered() {
		s.reply(wire.ErrAlreadyRegistered, []string{
			"Cannot send USER message since the client is already registered.",
		})
		return actionContinue
	}

	if len(msg.Params) == 0 {
		s.reply(wire.ErrNoNicknameGiven, []string{"No nickname was given."})
		return actionContinue
	}

	s.self.SetUsername(msg.Params[0])

	return actionContinue
}

func dispatchNick(s *session, msg *wire.Message) action {
	if len(msg.Params) == 0 {
		s.reply(wire.ErrNoNicknameGiven, []string{"No nickname was given."})
		return actionContinue
	}

	nick := msg.Params[0]

	if s.participants.NicknameInUse(nick) {
		s.reply(wire.ErrNicknameInUse, []string{"Nickname is already in use."})
		return actionContinue
	}

	wasRegistered := s.self.IsRegistered()

	// msg.Prefix still carries the pre-change identity: anyone who already
	// knew this participant under the old nick needs to see it as the
	// source of the NICK change.
	oldPrefix := msg.Prefix

	s.self.SetNickname(nick)

	if wasRegistered {
		line, err := wire.EncodeCommand(oldPrefix, wire.CmdNick, []string{nick})
		if err != nil {
			logEncodeError(s.self.ID, err)
			return actionContinue
		}
		broadcastAll(s.participants, line)
	}

	return actionContinue
}

func dispatchJoin(s *session, msg *wire.Message) action {
	if len(msg.Params) == 0 {
		s.reply(wire.ErrNeedMoreParams, []string{"Specify which channel to join."})
		return actionContinue
	}

	name := msg.Params[0]

	ch := s.channels.GetOrCreate(name)
	s.self.SetCurrentChannel(ch.Name)

	line, err := wire.EncodeCommand(msg.Prefix, wire.CmdJoin, []string{ch.Name})
	if err != nil {
		logEncodeError(s.self.ID, err)
		return actionContinue
	}

	sendToChannelExcluding(s.participants, ch.Name, s.self.ID, line)

	return actionContinue
}

func dispatchPart(s *session, msg *wire.Message) action {
	if len(msg.Params) == 0 {
		s.reply(wire.ErrNeedMoreParams, []string{"Specify which channel to leave."})
		return actionContinue
	}

	name := msg.Params[0]

	ch, ok := s.channels.Get(name)
	if !ok {
		s.reply(wire.ErrNoSuchChannel, []string{"The given channel was not found."})
		return actionContinue
	}

	if s.self.CurrentChannel() != ch.Name {
		s.reply(wire.ErrNotOnChannel, []string{"You are not on that channel."})
		return actionContinue
	}

	params := []string{ch.Name}
	if len(msg.Params) >= 2 {
		params = append(params, msg.Params[1])
	}
	line, err := wire.EncodeCommand(msg.Prefix, wire.CmdPart, params)
	if err != nil {
		logEncodeError(s.self.ID, err)
		return actionContinue
	}

	sendToChannelExcluding(s.participants, ch.Name, s.self.ID, line)

	s.self.SetCurrentChannel("")

	return actionContinue
}

func dispatchKick(s *session, msg *wire.Message) action {
	if len(msg.Params) < 2 {
		s.reply(wire.ErrNeedMoreParams, []string{"Specify a channel and a nick to kick."})
		return actionContinue
	}

	name := msg.Params[0]
	targetNick := msg.Params[1]

	ch, ok := s.channels.Get(name)
	if !ok {
		s.reply(wire.ErrNoSuchChannel, []string{"The given channel was not found."})
		return actionContinue
	}

	if s.self.CurrentChannel() != ch.Name {
		s.reply(wire.ErrNotOnChannel, []string{"You are not on that channel."})
		return actionContinue
	}

	targetID, ok := s.participants.IDByNickname(targetNick)
	if !ok {
		s.reply(wire.ErrNoSuchNick, []string{"The given nick was not found."})
		return actionContinue
	}

	target, ok := s.participants.Get(targetID)
	if !ok {
		// Quit between the lookup above and here; nothing left to kick.
		return actionContinue
	}

	if target.CurrentChannel() != ch.Name {
		s.reply(wire.ErrUserNotInChannel, []string{"They are not on that channel."})
		return actionContinue
	}

	params := []string{ch.Name, targetNick}
	if len(msg.Params) >= 3 {
		params = append(params, msg.Params[2])
	}
	line, err := wire.EncodeCommand(msg.Prefix, wire.CmdKick, params)
	if err != nil {
		logEncodeError(s.self.ID, err)
		return actionContinue
	}

	// Fan out before clearing the target's channel, so the kicked
	// participant is still a member at delivery time and receives their
	// own kick notice. The kicker (not the target) is excluded, per the
	// router contract.
	sendToChannelExcluding(s.participants, ch.Name, s.self.ID, line)

	target.SetCurrentChannel("")

	return actionContinue
}

func dispatchPrivmsg(s *session, msg *wire.Message) action {
	if len(msg.Params) != 2 {
		s.reply(wire.ErrNoRecipient, []string{"No recipient for the message was given."})
		return actionContinue
	}

	target := msg.Params[0]
	text := msg.Params[1]

	if strings.HasPrefix(target, "#") {
		dispatchChannelPrivmsg(s, msg, target, text)
		return actionContinue
	}

	dispatchPrivatePrivmsg(s, msg, target, text)
	return actionContinue
}

func dispatchChannelPrivmsg(s *session, msg *wire.Message, target, text string) {
	ch, ok := s.channels.Get(target)
	if !ok {
		s.reply(wire.ErrNoSuchChannel, []string{"The given channel was not found."})
		return
	}

	if s.self.CurrentChannel() != ch.Name {
		s.reply(wire.ErrCannotSendToChan, []string{"You are not in that channel."})
		return
	}

	line, err := wire.EncodeCommand(msg.Prefix, wire.CmdPrivmsg, []string{ch.Name, text})
	if err != nil {
		logEncodeError(s.self.ID, err)
		return
	}

	sendToChannelExcluding(s.participants, ch.Name, s.self.ID, line)
}

func dispatchPrivatePrivmsg(s *session, msg *wire.Message, target, text string) {
	targetID, ok := s.participants.IDByNickname(target)
	if !ok {
		s.reply(wire.ErrNoSuchNick, []string{"The given nick was not found."})
		return
	}

	recipient, ok := s.participants.Get(targetID)
	if !ok {
		return
	}

	if recipient.IsAway() {
		s.reply(wire.RplAway, []string{target, "The recipient is marked as away."})
	}

	line, err := wire.EncodeCommand(msg.Prefix, wire.CmdPrivmsg, []string{target, text})
	if err != nil {
		logEncodeError(s.self.ID, err)
		return
	}

	sendToOne(s.participants, targetID, line)
}

func dispatchList(s *session, _ *wire.Message) action {
	s.channels.Range(func(ch *registry.Channel) bool {
		count := s.participants.CountInChannel(ch.Name)
		s.reply(wire.RplList, []string{ch.Name, strconv.Itoa(count)})
		return true
	})

	s.reply(wire.RplListEnd, []string{"End of LIST."})

	return actionContinue
}

func dispatchAway(s *session, _ *wire.Message) action {
	if s.self.ToggleAway() {
		s.reply(wire.RplNowAway, []string{"You are now away."})
	} else {
		s.reply(wire.RplUnaway, []string{"You are no longer away."})
	}

	return actionContinue
}

func dispatchQuit(s *session, msg *wire.Message) action {
	s.sendCommand(wire.CmdError, []string{"User disconnected."})

	if s.self.IsRegistered() {
		reason := "Client quit"
		if len(msg.Params) > 0 {
			reason = msg.Params[0]
		}

		line, err := wire.EncodeCommand(msg.Prefix, wire.CmdQuit, []string{reason})
		if err != nil {
			logEncodeError(s.self.ID, err)
		} else {
			broadcastExcluding(s.participants, s.self.ID, line)
		}
	}

	return actionQuit
}

func dispatchPing(s *session, msg *wire.Message) action {
	s.sendCommand(wire.CmdPong, msg.Params)
	return actionContinue
}

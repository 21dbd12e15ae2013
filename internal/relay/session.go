package relay

import (
	"log"
	"net"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/horgh/relaycat/internal/registry"
	"github.com/horgh/relaycat/internal/wire"
)

// MessageSize is the size of the buffer the read loop reads into. It is
// owned by the bootstrap (cmd/relaycatd), not by this package: the core
// engine only ever reads whatever value is set here at the moment Accept
// is called for a given connection.
var MessageSize = 512

// Accept runs the full lifecycle of one accepted connection: it inserts a
// new Participant into participants, reads and dispatches messages until
// the client quits or the socket fails, then removes the participant.
// It always returns once the session ends, with registry state cleaned
// up even on a read or write error.
func Accept(
	conn net.Conn,
	participants *registry.Participants,
	channels *registry.Channels,
	serverName string,
) error {
	self := registry.NewParticipant(uuid.New(), conn.RemoteAddr().String(), conn)
	participants.Insert(self)

	log.Printf("New connection: %s (%s)", self.ID, self.Address)

	s := &session{
		conn:         conn,
		participants: participants,
		channels:     channels,
		serverName:   serverName,
		self:         self,
	}

	s.loop()

	participants.Remove(self.ID)
	log.Printf("Connection closed: %s (%s)", self.ID, self.Address)

	return nil
}

// session carries the state one Accept call needs while it drives a
// single connection's read loop.
type session struct {
	conn         net.Conn
	participants *registry.Participants
	channels     *registry.Channels
	serverName   string
	self         *registry.Participant

	// fatal is set by sendLine when a write on this session's own
	// connection fails. It is only ever touched from this session's own
	// goroutine, so it needs no lock. A broken write side means nothing
	// sent from here on can reach the client either, so loop must stop
	// rather than keep dispatching against a dead connection.
	fatal bool
}

func (s *session) loop() {
	buf := make([]byte, MessageSize)

	for {
		n, err := s.conn.Read(buf)
		if err != nil {
			log.Printf("%s: read error: %s", s.self.ID, err)
			return
		}
		if n == 0 {
			return
		}

		line := strings.ReplaceAll(string(buf[:n]), "\x00", "")

		msg, err := wire.Parse(line)
		if err != nil {
			s.reply(wire.ErrUnknownCommand, []string{err.Error()})
			if s.fatal {
				return
			}
			continue
		}

		if dispatch(s, msg) == actionQuit || s.fatal {
			return
		}
	}
}

// reply sends a numeric reply sourced from the server's own prefix.
func (s *session) reply(code string, params []string) {
	s.sendLine(func() (string, error) { return wire.EncodeNumeric(s.serverName, code, params) })
}

// replyFromSelf sends a numeric reply sourced from the participant's own
// prefix - used only for RPL_WELCOME, which reports the client's freshly
// assigned uhost back to it before it has any other way of learning it.
func (s *session) replyFromSelf(code string, params []string) {
	s.sendLine(func() (string, error) { return wire.EncodeNumeric(s.self.Prefix(), code, params) })
}

// sendCommand sends a non-numeric command line sourced from the server's
// own prefix (used for PONG and the QUIT ERROR acknowledgement).
func (s *session) sendCommand(command wire.Command, params []string) {
	s.sendLine(func() (string, error) { return wire.EncodeCommand(s.serverName, command, params) })
}

func (s *session) sendLine(encode func() (string, error)) {
	line, err := encode()
	if err != nil {
		// A failure here means the dispatcher built an outbound message that
		// violates the wire codec's own grammar - an internal bug, not
		// something the client did, so it's wrapped and logged rather than
		// ever surfaced as a protocol error.
		log.Printf("%s: %s", s.self.ID, errors.Wrap(err, "internal invariant violation: encoding an outbound reply"))
		return
	}
	if err := s.self.Write(line); err != nil {
		// This is the session's own connection, not a fan-out recipient:
		// a write failure here means nothing further can reach this
		// client, so the session must terminate rather than keep reading
		// and dispatching against a dead write side.
		log.Printf("%s: write error: %s", s.self.ID, err)
		s.fatal = true
	}
}

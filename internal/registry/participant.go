package registry

import (
	"net"
	"sync"

	"github.com/google/uuid"
)

// Participant holds everything known about one accepted connection. ID
// and Address are immutable once created; the rest is guarded by mu so
// that the owning session can mutate its own record while a router
// fanning out from a different session reads it concurrently.
type Participant struct {
	ID      uuid.UUID
	Address string
	sink    net.Conn

	mu             sync.RWMutex
	nickname       string
	username       string
	isRegistered   bool
	isAway         bool
	currentChannel string

	// writeMu serializes writes to sink so two goroutines fanning out to
	// this participant at once can't interleave bytes on the wire.
	writeMu sync.Mutex
}

// NewParticipant creates a Participant record wrapping sink. It still
// needs to be inserted into a Participants registry to be reachable by
// anyone else.
func NewParticipant(id uuid.UUID, address string, sink net.Conn) *Participant {
	return &Participant{ID: id, Address: address, sink: sink}
}

func (p *Participant) Nickname() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.nickname
}

func (p *Participant) SetNickname(nick string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.nickname = nick
}

func (p *Participant) Username() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.username
}

func (p *Participant) SetUsername(user string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.username = user
}

func (p *Participant) IsRegistered() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.isRegistered
}

func (p *Participant) SetRegistered(v bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.isRegistered = v
}

func (p *Participant) IsAway() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.isAway
}

// ToggleAway flips is_away and returns the new value.
func (p *Participant) ToggleAway() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.isAway = !p.isAway
	return p.isAway
}

// CurrentChannel returns the channel name the participant last joined, or
// "" if they are not currently in any channel.
func (p *Participant) CurrentChannel() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.currentChannel
}

func (p *Participant) SetCurrentChannel(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.currentChannel = name
}

// Prefix returns the nick!user@host form used as the source of any
// message this participant originates. It reflects whatever nickname and
// username are set at the moment of the call, which may still be empty
// before registration completes.
func (p *Participant) Prefix() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.nickname + "!" + p.username + "@" + p.Address
}

// Write sends one already-encoded protocol line to this participant's
// connection.
func (p *Participant) Write(line string) error {
	p.writeMu.Lock()
	defer p.writeMu.Unlock()
	_, err := p.sink.Write([]byte(line))
	return err
}

package registry

import (
	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v4"
)

// Participants is the concurrent id -> record table. A sharded map
// backs it rather than a map-plus-global-mutex, so that a lookup or
// insert never blocks on work happening against an unrelated record.
type Participants struct {
	m *xsync.Map[uuid.UUID, *Participant]
}

func NewParticipants() *Participants {
	return &Participants{m: xsync.NewMap[uuid.UUID, *Participant]()}
}

func (r *Participants) Insert(p *Participant) {
	r.m.Store(p.ID, p)
}

func (r *Participants) Remove(id uuid.UUID) {
	r.m.Delete(id)
}

func (r *Participants) Get(id uuid.UUID) (*Participant, bool) {
	return r.m.Load(id)
}

// Range iterates every participant currently in the registry. fn
// returning false stops iteration early.
func (r *Participants) Range(fn func(*Participant) bool) {
	r.m.Range(func(_ uuid.UUID, p *Participant) bool {
		return fn(p)
	})
}

// NicknameInUse reports whether any participant currently holds nick.
// Linear over the registry - there's no secondary index, matching the
// component's own contract.
func (r *Participants) NicknameInUse(nick string) bool {
	found := false
	r.Range(func(p *Participant) bool {
		if p.Nickname() == nick {
			found = true
			return false
		}
		return true
	})
	return found
}

// IDByNickname finds the participant currently holding nick, if any.
func (r *Participants) IDByNickname(nick string) (uuid.UUID, bool) {
	var id uuid.UUID
	found := false
	r.Range(func(p *Participant) bool {
		if p.Nickname() == nick {
			id = p.ID
			found = true
			return false
		}
		return true
	})
	return id, found
}

// CountInChannel returns how many participants currently have name as
// their current channel.
func (r *Participants) CountInChannel(name string) int {
	n := 0
	r.Range(func(p *Participant) bool {
		if p.CurrentChannel() == name {
			n++
		}
		return true
	})
	return n
}

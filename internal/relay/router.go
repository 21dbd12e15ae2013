package relay

import (
	"log"

	"github.com/google/uuid"

	"github.com/horgh/relaycat/internal/registry"
)

// sendToOne writes an already-encoded line to exactly one participant.
func sendToOne(participants *registry.Participants, id uuid.UUID, line string) {
	p, ok := participants.Get(id)
	if !ok {
		return
	}
	if err := p.Write(line); err != nil {
		log.Printf("%s: write error: %s", id, err)
	}
}

// sendToChannelExcluding writes line to every participant whose current
// channel is channel, except exclude.
func sendToChannelExcluding(participants *registry.Participants, channel string, exclude uuid.UUID, line string) {
	participants.Range(func(p *registry.Participant) bool {
		if p.ID == exclude {
			return true
		}
		if p.CurrentChannel() != channel {
			return true
		}
		if err := p.Write(line); err != nil {
			log.Printf("%s: write error: %s", p.ID, err)
		}
		return true
	})
}

// broadcastExcluding writes line to every participant except exclude.
func broadcastExcluding(participants *registry.Participants, exclude uuid.UUID, line string) {
	participants.Range(func(p *registry.Participant) bool {
		if p.ID == exclude {
			return true
		}
		if err := p.Write(line); err != nil {
			log.Printf("%s: write error: %s", p.ID, err)
		}
		return true
	})
}

// broadcastAll writes line to every participant, including the
// originator.
func broadcastAll(participants *registry.Participants, line string) {
	participants.Range(func(p *registry.Participant) bool {
		if err := p.Write(line); err != nil {
			log.Printf("%s: write error: %s", p.ID, err)
		}
		return true
	})
}

package registry

import (
	"net"
	"testing"

	"github.com/google/uuid"
)

func newTestParticipant(t *testing.T) *Participant {
	t.Helper()
	client, server := net.Pipe()
	t.Cleanup(func() {
		_ = client.Close()
		_ = server.Close()
	})
	return NewParticipant(uuid.New(), "127.0.0.1:6667", server)
}

func TestParticipantsInsertGetRemove(t *testing.T) {
	r := NewParticipants()
	p := newTestParticipant(t)

	if _, ok := r.Get(p.ID); ok {
		t.Fatalf("Get should not find a participant before Insert")
	}

	r.Insert(p)

	got, ok := r.Get(p.ID)
	if !ok || got != p {
		t.Fatalf("Get after Insert = %v, %v, want %v, true", got, ok, p)
	}

	r.Remove(p.ID)

	if _, ok := r.Get(p.ID); ok {
		t.Fatalf("Get should not find a participant after Remove")
	}
}

func TestNicknameInUse(t *testing.T) {
	r := NewParticipants()
	alice := newTestParticipant(t)
	alice.SetNickname("alice")
	r.Insert(alice)

	if !r.NicknameInUse("alice") {
		t.Errorf("NicknameInUse(\"alice\") = false, want true")
	}
	if r.NicknameInUse("bob") {
		t.Errorf("NicknameInUse(\"bob\") = true, want false")
	}
}

func TestIDByNickname(t *testing.T) {
	r := NewParticipants()
	alice := newTestParticipant(t)
	alice.SetNickname("alice")
	r.Insert(alice)

	id, ok := r.IDByNickname("alice")
	if !ok || id != alice.ID {
		t.Fatalf("IDByNickname(\"alice\") = %v, %v, want %v, true", id, ok, alice.ID)
	}

	if _, ok := r.IDByNickname("carol"); ok {
		t.Fatalf("IDByNickname(\"carol\") should not be found")
	}
}

func TestCountInChannel(t *testing.T) {
	r := NewParticipants()
	alice := newTestParticipant(t)
	alice.SetCurrentChannel("#rust")
	r.Insert(alice)

	bob := newTestParticipant(t)
	bob.SetCurrentChannel("#rust")
	r.Insert(bob)

	carol := newTestParticipant(t)
	r.Insert(carol)

	if got := r.CountInChannel("#rust"); got != 2 {
		t.Errorf("CountInChannel(\"#rust\") = %d, want 2", got)
	}
	if got := r.CountInChannel("#go"); got != 0 {
		t.Errorf("CountInChannel(\"#go\") = %d, want 0", got)
	}
}

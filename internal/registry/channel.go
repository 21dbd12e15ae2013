package registry

// Channel is a named chat room. It has no member list of its own:
// membership is derived by scanning the Participant registry for records
// whose current channel equals this one (see Participants.CountInChannel
// and the router's channel fan-out).
type Channel struct {
	Name string
}

func NewChannel(name string) *Channel {
	return &Channel{Name: name}
}

package registry

import "github.com/puzpuzpuz/xsync/v4"

// Channels is the concurrent name -> record table.
type Channels struct {
	m *xsync.Map[string, *Channel]
}

func NewChannels() *Channels {
	return &Channels{m: xsync.NewMap[string, *Channel]()}
}

// GetOrCreate atomically resolves the channel named name, creating it if
// this is the first reference to that name. Two concurrent JOINs racing
// on a not-yet-existing name both land on the same *Channel.
func (r *Channels) GetOrCreate(name string) *Channel {
	ch, _ := r.m.LoadOrStore(name, NewChannel(name))
	return ch
}

func (r *Channels) Get(name string) (*Channel, bool) {
	return r.m.Load(name)
}

// Range iterates every channel ever created. Channels are never removed:
// the registry only grows over the lifetime of the process, even after
// its last member parts.
func (r *Channels) Range(fn func(*Channel) bool) {
	r.m.Range(func(_ string, c *Channel) bool {
		return fn(c)
	})
}

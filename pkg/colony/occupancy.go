package colony

import (
	"maps"
	"slices"
)

// AgentID identifies an ant. IDs run from 1 to the nest's agent count.
type AgentID int

// Occupancy maps a room to the ants currently inside it, kept in ascending
// order. Rooms with no ants may be absent.
//
// An Occupancy value is a plain snapshot: mutating it never affects a
// [State]. Use [Occupancy.Clone] before handing one to code that mutates.
type Occupancy map[string][]AgentID

// Clone returns a deep copy.
func (o Occupancy) Clone() Occupancy {
	out := make(Occupancy, len(o))
	for room, agents := range o {
		if len(agents) > 0 {
			out[room] = slices.Clone(agents)
		}
	}
	return out
}

// Count returns the number of ants in room.
func (o Occupancy) Count(room string) int { return len(o[room]) }

// Agents returns the ants in room in ascending order.
func (o Occupancy) Agents(room string) []AgentID { return slices.Clone(o[room]) }

// Contains reports whether agent is in room.
func (o Occupancy) Contains(room string, agent AgentID) bool {
	_, ok := slices.BinarySearch(o[room], agent)
	return ok
}

// Add inserts agent into room. Adding an ant that is already present is a no-op.
func (o Occupancy) Add(room string, agent AgentID) {
	agents := o[room]
	i, ok := slices.BinarySearch(agents, agent)
	if ok {
		return
	}
	o[room] = slices.Insert(agents, i, agent)
}

// Remove deletes agent from room and reports whether it was there.
func (o Occupancy) Remove(room string, agent AgentID) bool {
	agents := o[room]
	i, ok := slices.BinarySearch(agents, agent)
	if !ok {
		return false
	}
	agents = slices.Delete(agents, i, i+1)
	if len(agents) == 0 {
		delete(o, room)
	} else {
		o[room] = agents
	}
	return true
}

// Move relocates m.Agent from m.From to m.To. It reports false, leaving o
// unchanged, when the ant is not in m.From.
func (o Occupancy) Move(m Move) bool {
	if !o.Remove(m.From, m.Agent) {
		return false
	}
	o.Add(m.To, m.Agent)
	return true
}

// Rooms returns the rooms holding at least one ant, sorted.
func (o Occupancy) Rooms() []string {
	rooms := make([]string, 0, len(o))
	for room, agents := range o {
		if len(agents) > 0 {
			rooms = append(rooms, room)
		}
	}
	slices.Sort(rooms)
	return rooms
}

// Total returns the number of ants across all rooms.
func (o Occupancy) Total() int {
	total := 0
	for _, agents := range o {
		total += len(agents)
	}
	return total
}

// Equal reports whether two snapshots place every ant in the same room.
func (o Occupancy) Equal(other Occupancy) bool {
	return maps.EqualFunc(o.Clone(), other.Clone(), slices.Equal[[]AgentID])
}

// Counts returns the number of ants per occupied room.
func (o Occupancy) Counts() map[string]int {
	out := make(map[string]int, len(o))
	for room, agents := range o {
		if len(agents) > 0 {
			out[room] = len(agents)
		}
	}
	return out
}

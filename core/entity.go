package core

// Entity is a stable record identifier, unique for the lifetime of a session
// and preserved across save/load
type Entity uint64

// NoEntity is the zero identifier, never assigned
const NoEntity Entity = 0

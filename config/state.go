package config

// State is the lifecycle state of a node or configuration.
type State int

// Lifecycle states. Parsers create nodes as Loading; PostLoad moves them to Synced.
const (
	StateUnknown State = iota
	StateNew
	StateLoading
	StateSynced
	StateUpdated
	StateDeleted
	StateError
)

func (s State) String() string {
	switch s {
	case StateNew:
		return "new"
	case StateLoading:
		return "loading"
	case StateSynced:
		return "synced"
	case StateUpdated:
		return "updated"
	case StateDeleted:
		return "deleted"
	case StateError:
		return "error"
	case StateUnknown:
		return "unknown"
	default:
		return "unknown"
	}
}

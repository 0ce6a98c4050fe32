package display

// State is what the panel shows.
type State int

const (
	Local State = iota
	Remote
	ScrollingToRemote
	ScrollingToLocal
)

func (s State) String() string {
	switch s {
	case Local:
		return "local"
	case Remote:
		return "remote"
	case ScrollingToRemote:
		return "scrolling_to_remote"
	case ScrollingToLocal:
		return "scrolling_to_local"
	default:
		return "unknown"
	}
}

// Steady reports whether s is Local or Remote.
func (s State) Steady() bool {
	return s == Local || s == Remote
}

type Event int

const (
	// EventRefresh is raised once per refresh trigger, whether the fetch worked or not.
	EventRefresh Event = iota
	// EventScrollDone is raised when the incoming panel reaches offset zero.
	EventScrollDone
)

func (e Event) String() string {
	switch e {
	case EventRefresh:
		return "refresh"
	case EventScrollDone:
		return "scroll_done"
	default:
		return "unknown"
	}
}

type transitionKey struct {
	from State
	on   Event
}

// A refresh always heads away from the panel that is showing or arriving, so
// consecutive refreshes alternate even when a scroll was cut short.
var transitions = map[transitionKey]State{
	{Local, EventRefresh}:             ScrollingToRemote,
	{ScrollingToLocal, EventRefresh}:  ScrollingToRemote,
	{Remote, EventRefresh}:            ScrollingToLocal,
	{ScrollingToRemote, EventRefresh}: ScrollingToLocal,

	{ScrollingToRemote, EventScrollDone}: Remote,
	{ScrollingToLocal, EventScrollDone}:  Local,
}

// Next returns the state after ev. Pairs missing from the table leave the
// state unchanged.
func Next(from State, ev Event) State {
	if to, ok := transitions[transitionKey{from, ev}]; ok {
		return to
	}
	return from
}

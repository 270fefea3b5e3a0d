package selfupdate

// State of the update controller
type State int

const (
	Idle State = iota
	Checking
	UpToDate
	UpdateAvailable
	Downloading
	Installing
	Completed
	Failed
	Cancelled
)

var stateNames = [...]string{
	Idle:            "idle",
	Checking:        "checking",
	UpToDate:        "up-to-date",
	UpdateAvailable: "update-available",
	Downloading:     "downloading",
	Installing:      "installing",
	Completed:       "completed",
	Failed:          "failed",
	Cancelled:       "cancelled",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// IsTerminal reports whether nothing else happens in this state until a new check is requested.
func (s State) IsTerminal() bool {
	switch s {
	case UpToDate, Completed, Failed, Cancelled:
		return true
	}
	return false
}

// IsBusy reports whether a check or an update is running.
func (s State) IsBusy() bool {
	switch s {
	case Checking, Downloading, Installing:
		return true
	}
	return false
}

var transitions = map[State][]State{
	Idle:            {Checking},
	Checking:        {UpToDate, UpdateAvailable, Failed},
	UpToDate:        {Checking},
	UpdateAvailable: {Checking, Downloading},
	Downloading:     {Installing, Cancelled, Failed},
	Installing:      {Completed, Cancelled, Failed},
	Completed:       {Checking},
	Failed:          {Checking},
	Cancelled:       {Checking},
}

// canTransition reports whether the state machine allows moving from one state to the other.
func canTransition(from, to State) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

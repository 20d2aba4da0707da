package kanon

// enforcerState is a step of the k-anonymity enforcement loop.
type enforcerState int

const (
	generalizing enforcerState = iota
	validating
	escalating
	suppressing
	done
)

var stateName = map[enforcerState]string{
	generalizing: "Generalizing",
	validating:   "Validating",
	escalating:   "Escalating",
	suppressing:  "Suppressing",
	done:         "Done",
}

func (s enforcerState) String() string {
	return stateName[s]
}

package profile

// DefaultMinPriority is the number of priority-optional fields needed for
// analysis when not overridden by configuration.
const DefaultMinPriority = 5

// Ready decides whether the profile can move to the analysis stage: either
// the user explicitly asked to proceed, or every required field is present
// and at least minPriority priority-optional fields are present.
func Ready(p Profile, userWantsFinish bool, minPriority int) bool {
	if userWantsFinish {
		return true
	}
	if minPriority <= 0 {
		minPriority = DefaultMinPriority
	}
	return len(MissingRequired(p)) == 0 && CollectedPriorityCount(p) >= minPriority
}

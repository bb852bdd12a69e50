// Package workflow owns the shared lead/job lifecycle rules: the status
// vocabulary, the transition graph, and the validation applied before any
// status mutation is persisted.
//
// Logical graph (entity-specific subsets apply):
//
//	Created ──► Assigned ──► In Progress ◄──► On Hold
//	                              │               │
//	                              └───────┬───────┘
//	                                      ▼
//	                        Completed | Cancelled   (terminal)
//
// Leads additionally carry the display statuses Contacted/Qualified and the
// terminal statuses Converted/Lost.
package workflow

// Status is a lifecycle state shared between leads and jobs.
type Status string

const (
	StatusCreated    Status = "Created"
	StatusAssigned   Status = "Assigned"
	StatusInProgress Status = "In Progress"
	StatusOnHold     Status = "On Hold"
	StatusCompleted  Status = "Completed"
	StatusCancelled  Status = "Cancelled"

	// Lead-only statuses.
	StatusContacted Status = "Contacted"
	StatusQualified Status = "Qualified"
	StatusConverted Status = "Converted"
	StatusLost      Status = "Lost"
)

// EntityKind discriminates which entity a transition applies to. Leads and
// jobs share one rule set but carry different allowed-state subsets.
type EntityKind string

const (
	KindLead EntityKind = "lead"
	KindJob  EntityKind = "job"
)

// ActionTargets is the set of statuses a staff action may move an entity to.
// Assignment to "Assigned" goes through the assignment flow, not here.
var ActionTargets = []Status{StatusInProgress, StatusOnHold, StatusCompleted, StatusCancelled}

// jobTransitions lists every allowed (from → to) pair for jobs.
var jobTransitions = map[Status][]Status{
	StatusCreated:    {StatusAssigned},
	StatusAssigned:   {StatusInProgress, StatusOnHold, StatusCompleted, StatusCancelled},
	StatusInProgress: {StatusOnHold, StatusCompleted, StatusCancelled},
	StatusOnHold:     {StatusInProgress, StatusCompleted, StatusCancelled},
	// Completed and Cancelled are terminal.
}

// leadTransitions lists every allowed (from → to) pair for leads. Enquiries
// arrive in Created and leave it through the assignment flow. The working
// statuses Contacted/Qualified arrive from intake flows but offer the same
// generic action surface as Assigned.
var leadTransitions = map[Status][]Status{
	StatusCreated:    {StatusAssigned},
	StatusAssigned:   {StatusInProgress, StatusOnHold, StatusCompleted, StatusCancelled},
	StatusContacted:  {StatusInProgress, StatusOnHold, StatusCompleted, StatusCancelled},
	StatusQualified:  {StatusInProgress, StatusOnHold, StatusCompleted, StatusCancelled},
	StatusInProgress: {StatusOnHold, StatusCompleted, StatusCancelled},
	StatusOnHold:     {StatusInProgress, StatusCompleted, StatusCancelled},
	// Completed, Cancelled, Converted and Lost are terminal.
}

func transitionTable(kind EntityKind) map[Status][]Status {
	if kind == KindLead {
		return leadTransitions
	}
	return jobTransitions
}

// IsActionTarget reports whether status is a valid target of the generic
// status-action surface.
func IsActionTarget(status Status) bool {
	for _, s := range ActionTargets {
		if s == status {
			return true
		}
	}
	return false
}

// CanTransition reports whether moving from → to is permitted for the given
// entity kind.
func CanTransition(kind EntityKind, from, to Status) bool {
	allowed, ok := transitionTable(kind)[from]
	if !ok {
		return false // terminal state, no outgoing transitions
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status offers no further action for the kind.
func IsTerminal(kind EntityKind, status Status) bool {
	_, ok := transitionTable(kind)[status]
	return !ok
}

// Summary buckets. The "assigned" bucket is the freshly assigned state,
// "ongoing" is any non-terminal status after that, and "closed" covers every
// terminal state.

// OngoingStatuses returns the statuses counted as ongoing for the kind.
func OngoingStatuses(kind EntityKind) []Status {
	if kind == KindLead {
		return []Status{StatusContacted, StatusQualified, StatusInProgress, StatusOnHold}
	}
	return []Status{StatusInProgress, StatusOnHold}
}

// ClosedStatuses returns the terminal statuses counted as closed for the kind.
func ClosedStatuses(kind EntityKind) []Status {
	if kind == KindLead {
		return []Status{StatusCompleted, StatusCancelled, StatusConverted, StatusLost}
	}
	return []Status{StatusCompleted, StatusCancelled}
}

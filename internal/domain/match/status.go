package match

// Transition is the outcome of reconciling a stored status with the
// status reported by the latest sync.
type Transition struct {
	From     string
	To       string
	Accepted bool
	Reason   string
}

// ReconcileStatus decides the status to persist. Progress is monotonic
// (SCHEDULED, LIVE, FINISHED); POSTPONED may return to SCHEDULED; any
// status may become CANCELLED. CANCELLED only changes on an explicit
// un-cancel: the source reports play (LIVE or FINISHED) or a new kickoff
// time. A rejected transition means the incoming payload is stale.
func ReconcileStatus(stored, incoming Match) Transition {
	from, to := stored.Status, incoming.Status
	t := Transition{From: from, To: to, Accepted: true}
	if from == to {
		return t
	}

	rescheduled := !incoming.ScheduledAt.IsZero() && !incoming.ScheduledAt.Equal(stored.ScheduledAt)
	reject := func(reason string) Transition {
		t.To = from
		t.Accepted = false
		t.Reason = reason
		return t
	}

	switch from {
	case StatusScheduled, StatusPostponed:
		return t
	case StatusLive:
		if to == StatusScheduled && !rescheduled {
			return reject("live match cannot return to scheduled without a new kickoff time")
		}
		return t
	case StatusFinished:
		if to == StatusCancelled {
			return t
		}
		return reject("finished match cannot move back to " + to)
	case StatusCancelled:
		switch to {
		case StatusLive, StatusFinished:
			return t
		case StatusScheduled, StatusPostponed:
			if rescheduled {
				return t
			}
		}
		return reject("cancelled match is only reopened by a new kickoff time or play")
	}
	return t
}

package referral

import (
	"github.com/ariebrainware/sisreg/model"
	"github.com/samber/lo"
)

// transitions lists the legal status moves. Deletion and forwarding are
// handled outside the table: delete is allowed from any status, forward
// always lands on received.
var transitions = map[model.RequestStatus][]model.RequestStatus{
	model.StatusPending:   {model.StatusReceived},
	model.StatusReceived:  {model.StatusAccepted, model.StatusConfirmed, model.StatusCompleted, model.StatusSuspended},
	model.StatusAccepted:  {model.StatusCompleted, model.StatusSuspended},
	model.StatusConfirmed: {model.StatusCompleted, model.StatusSuspended},
	model.StatusSuspended: {model.StatusReceived},
}

// activeStatuses are the statuses a request can be suspended or completed from.
var activeStatuses = []model.RequestStatus{model.StatusReceived, model.StatusAccepted, model.StatusConfirmed}

// updatableTargets are the targets accepted by the generic status update.
// Pending, suspended and received have dedicated operations.
var updatableTargets = []model.RequestStatus{model.StatusAccepted, model.StatusConfirmed, model.StatusCompleted}

// CanTransition reports whether a request may move from one status to another.
func CanTransition(from, to model.RequestStatus) bool {
	return lo.Contains(transitions[from], to)
}

var statusDescriptions = map[model.RequestStatus]string{
	model.StatusReceived:  "Request received",
	model.StatusAccepted:  "Request accepted",
	model.StatusConfirmed: "Request confirmed",
	model.StatusCompleted: "Request completed",
	model.StatusSuspended: "Request suspended",
}

func describeStatus(to model.RequestStatus) string {
	if d, ok := statusDescriptions[to]; ok {
		return d
	}
	return "Status changed to " + string(to)
}

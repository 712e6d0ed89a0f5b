// Package action implements the remediation action-item lifecycle: validation,
// partial-update merging, transition guards and the service that orchestrates them.
package action

import "time"

// Status is the lifecycle state of an action item.
type Status string

const (
	StatusPlanned    Status = "Planned"
	StatusInProgress Status = "In-Progress"
	StatusBlocked    Status = "Blocked"
	StatusDeferred   Status = "Deferred"
	StatusDone       Status = "Done"
	StatusCancelled  Status = "Cancelled"
)

// Statuses lists every valid status.
var Statuses = []Status{StatusPlanned, StatusInProgress, StatusBlocked, StatusDeferred, StatusDone, StatusCancelled}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPlanned, StatusInProgress, StatusBlocked, StatusDeferred, StatusDone, StatusCancelled:
		return true
	}
	return false
}

// Priority ranks an action item; P1 is the most urgent.
type Priority string

const (
	PriorityP1 Priority = "P1"
	PriorityP2 Priority = "P2"
	PriorityP3 Priority = "P3"
)

var Priorities = []Priority{PriorityP1, PriorityP2, PriorityP3}

func (p Priority) Valid() bool {
	switch p {
	case PriorityP1, PriorityP2, PriorityP3:
		return true
	}
	return false
}

// Risk is the assessed blast radius of carrying out an action.
type Risk string

const (
	RiskNone   Risk = "None"
	RiskLow    Risk = "Low"
	RiskMedium Risk = "Medium"
	RiskHigh   Risk = "High"
)

var Risks = []Risk{RiskNone, RiskLow, RiskMedium, RiskHigh}

func (r Risk) Valid() bool {
	switch r {
	case RiskNone, RiskLow, RiskMedium, RiskHigh:
		return true
	}
	return false
}

// Result is the outcome recorded by a verification check.
type Result string

const (
	ResultPass Result = "Pass"
	ResultFail Result = "Fail"
)

var Results = []Result{ResultPass, ResultFail}

func (r Result) Valid() bool {
	return r == ResultPass || r == ResultFail
}

// ChangeControl is governance metadata for risky actions.
type ChangeControl struct {
	Required     bool   `json:"required"`
	ID           string `json:"id,omitempty"`
	RollbackPlan string `json:"rollbackPlan,omitempty"`
}

// Verification is the evidence that an action's effect was confirmed.
type Verification struct {
	Required  bool   `json:"required"`
	Method    string `json:"method,omitempty"`
	Evidence  string `json:"evidence,omitempty"`
	Result    Result `json:"result,omitempty"`
	CheckedBy string `json:"checkedBy,omitempty"`
	CheckedAt string `json:"checkedAt,omitempty"`
}

// Links associates an action with a hypothesis or an external reference.
// None of the identifiers are checked for existence.
type Links struct {
	HypothesisID string `json:"hypothesisId,omitempty"`
	Runbook      string `json:"runbook,omitempty"`
	Ticket       string `json:"ticket,omitempty"`
	Notes        string `json:"notes,omitempty"`
}

// Empty reports whether no link is set.
func (l Links) Empty() bool {
	return l == Links{}
}

// Item is one remediation task tied to an incident analysis.
type Item struct {
	ID            string        `json:"id"`
	AnalysisID    string        `json:"analysisId"`
	CreatedAt     time.Time     `json:"createdAt"`
	CreatedBy     string        `json:"createdBy"`
	Summary       string        `json:"summary"`
	Detail        string        `json:"detail,omitempty"`
	Owner         string        `json:"owner,omitempty"`
	Role          string        `json:"role,omitempty"`
	Status        Status        `json:"status"`
	Priority      Priority      `json:"priority"`
	DueAt         string        `json:"dueAt,omitempty"`
	StartedAt     string        `json:"startedAt,omitempty"`
	CompletedAt   string        `json:"completedAt,omitempty"`
	Dependencies  []string      `json:"dependencies,omitempty"`
	Risk          Risk          `json:"risk,omitempty"`
	ChangeControl ChangeControl `json:"changeControl"`
	Verification  Verification  `json:"verification"`
	Links         *Links        `json:"links,omitempty"`
	Notes         string        `json:"notes,omitempty"`
}

// newItem returns an item carrying the creation defaults.
func newItem(analysisID, id, createdBy string, createdAt time.Time) Item {
	return Item{
		ID:         id,
		AnalysisID: analysisID,
		CreatedAt:  createdAt,
		CreatedBy:  createdBy,
		Status:     StatusPlanned,
		Priority:   PriorityP2,
	}
}

// clone returns a copy of it that shares no slices or pointers with it.
func (it Item) clone() Item {
	out := it
	if it.Dependencies != nil {
		out.Dependencies = append([]string(nil), it.Dependencies...)
	}
	if it.Links != nil {
		l := *it.Links
		out.Links = &l
	}
	return out
}

package action

// Merge returns the item that results from applying u to existing. Scalars are
// replaced only when supplied; changeControl, verification and links merge key
// by key; dependencies are replaced wholesale. Identity fields never change.
func Merge(existing Item, u Update) Item {
	next := existing.clone()

	next.Summary = u.Summary.apply(next.Summary)
	next.Detail = u.Detail.apply(next.Detail)
	next.Owner = u.Owner.apply(next.Owner)
	next.Role = u.Role.apply(next.Role)
	next.Status = u.Status.apply(next.Status)
	next.Priority = u.Priority.apply(next.Priority)
	next.DueAt = u.DueAt.apply(next.DueAt)
	next.StartedAt = u.StartedAt.apply(next.StartedAt)
	next.CompletedAt = u.CompletedAt.apply(next.CompletedAt)
	next.Risk = u.Risk.apply(next.Risk)
	next.Notes = u.Notes.apply(next.Notes)

	if u.Dependencies.Present() {
		deps := u.Dependencies.apply(nil)
		if len(deps) == 0 {
			next.Dependencies = nil
		} else {
			next.Dependencies = append([]string(nil), deps...)
		}
	}

	if cc := u.ChangeControl; cc != nil {
		next.ChangeControl = ChangeControl{
			Required:     cc.Required.apply(next.ChangeControl.Required),
			ID:           cc.ID.apply(next.ChangeControl.ID),
			RollbackPlan: cc.RollbackPlan.apply(next.ChangeControl.RollbackPlan),
		}
	}

	if v := u.Verification; v != nil {
		cur := next.Verification
		next.Verification = Verification{
			Required:  v.Required.apply(cur.Required),
			Method:    v.Method.apply(cur.Method),
			Evidence:  v.Evidence.apply(cur.Evidence),
			Result:    v.Result.apply(cur.Result),
			CheckedBy: v.CheckedBy.apply(cur.CheckedBy),
			CheckedAt: v.CheckedAt.apply(cur.CheckedAt),
		}
	}

	switch lu, ok := u.Links.Get(); {
	case ok:
		var cur Links
		if next.Links != nil {
			cur = *next.Links
		}
		merged := Links{
			HypothesisID: lu.HypothesisID.apply(cur.HypothesisID),
			Runbook:      lu.Runbook.apply(cur.Runbook),
			Ticket:       lu.Ticket.apply(cur.Ticket),
			Notes:        lu.Notes.apply(cur.Notes),
		}
		next.Links = nil
		if !merged.Empty() {
			next.Links = &merged
		}
	case u.Links.Cleared():
		next.Links = nil
	}

	return next
}

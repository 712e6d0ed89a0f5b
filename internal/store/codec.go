package store

import (
	"encoding/json"
	"fmt"

	"github.com/zulandar/intake/internal/action"
	"github.com/zulandar/intake/internal/models"
)

// toRow converts an item to its stored form.
func toRow(it action.Item) (models.Action, error) {
	cc, err := marshalJSON(it.ChangeControl)
	if err != nil {
		return models.Action{}, fmt.Errorf("marshal change_control: %w", err)
	}
	ver, err := marshalJSON(it.Verification)
	if err != nil {
		return models.Action{}, fmt.Errorf("marshal verification: %w", err)
	}
	var links, deps string
	if it.Links != nil && !it.Links.Empty() {
		if links, err = marshalJSON(it.Links); err != nil {
			return models.Action{}, fmt.Errorf("marshal links: %w", err)
		}
	}
	if len(it.Dependencies) > 0 {
		if deps, err = marshalJSON(it.Dependencies); err != nil {
			return models.Action{}, fmt.Errorf("marshal dependencies: %w", err)
		}
	}

	return models.Action{
		AnalysisID:    it.AnalysisID,
		ID:            it.ID,
		CreatedAt:     it.CreatedAt,
		CreatedBy:     it.CreatedBy,
		Summary:       it.Summary,
		Detail:        it.Detail,
		Owner:         it.Owner,
		Role:          it.Role,
		Status:        string(it.Status),
		Priority:      string(it.Priority),
		DueAt:         it.DueAt,
		StartedAt:     it.StartedAt,
		CompletedAt:   it.CompletedAt,
		Dependencies:  deps,
		Risk:          string(it.Risk),
		ChangeControl: cc,
		Verification:  ver,
		Links:         links,
		Notes:         it.Notes,
	}, nil
}

// fromRow rebuilds an item from its stored form. Empty nested columns read
// back as their defaults.
func fromRow(row models.Action) (action.Item, error) {
	it := action.Item{
		ID:          row.ID,
		AnalysisID:  row.AnalysisID,
		CreatedAt:   row.CreatedAt.UTC(),
		CreatedBy:   row.CreatedBy,
		Summary:     row.Summary,
		Detail:      row.Detail,
		Owner:       row.Owner,
		Role:        row.Role,
		Status:      action.Status(row.Status),
		Priority:    action.Priority(row.Priority),
		DueAt:       row.DueAt,
		StartedAt:   row.StartedAt,
		CompletedAt: row.CompletedAt,
		Risk:        action.Risk(row.Risk),
		Notes:       row.Notes,
	}
	if err := unmarshalJSON(row.ChangeControl, &it.ChangeControl); err != nil {
		return action.Item{}, fmt.Errorf("unmarshal change_control of %s: %w", row.ID, err)
	}
	if err := unmarshalJSON(row.Verification, &it.Verification); err != nil {
		return action.Item{}, fmt.Errorf("unmarshal verification of %s: %w", row.ID, err)
	}
	if err := unmarshalJSON(row.Dependencies, &it.Dependencies); err != nil {
		return action.Item{}, fmt.Errorf("unmarshal dependencies of %s: %w", row.ID, err)
	}
	if len(it.Dependencies) == 0 {
		it.Dependencies = nil
	}
	if row.Links != "" {
		var l action.Links
		if err := unmarshalJSON(row.Links, &l); err != nil {
			return action.Item{}, fmt.Errorf("unmarshal links of %s: %w", row.ID, err)
		}
		if !l.Empty() {
			it.Links = &l
		}
	}
	return it, nil
}

// marshalJSON marshals a value to a JSON string, returning empty string for nil.
func marshalJSON(v interface{}) (string, error) {
	if v == nil {
		return "", nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// unmarshalJSON decodes s into v, leaving v untouched when s is empty.
func unmarshalJSON(s string, v interface{}) error {
	if s == "" {
		return nil
	}
	return json.Unmarshal([]byte(s), v)
}

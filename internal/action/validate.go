package action

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Update is a validated partial update. Absent keys are Unset; null or empty
// strings on optional fields are Clear.
type Update struct {
	Summary      Field[string]
	Detail       Field[string]
	Owner        Field[string]
	Role         Field[string]
	Status       Field[Status]
	Priority     Field[Priority]
	DueAt        Field[string]
	StartedAt    Field[string]
	CompletedAt  Field[string]
	Dependencies Field[[]string]
	Risk         Field[Risk]
	Notes        Field[string]

	// ChangeControl and Verification are nil when the key was absent. They can
	// never be cleared.
	ChangeControl *ChangeControlUpdate
	Verification  *VerificationUpdate
	Links         Field[LinksUpdate]
}

// ChangeControlUpdate holds the supplied keys of a changeControl object.
type ChangeControlUpdate struct {
	Required     Field[bool]
	ID           Field[string]
	RollbackPlan Field[string]
}

// VerificationUpdate holds the supplied keys of a verification object.
type VerificationUpdate struct {
	Required  Field[bool]
	Method    Field[string]
	Evidence  Field[string]
	Result    Field[Result]
	CheckedBy Field[string]
	CheckedAt Field[string]
}

// LinksUpdate holds the supplied keys of a links object.
type LinksUpdate struct {
	HypothesisID Field[string]
	Runbook      Field[string]
	Ticket       Field[string]
	Notes        Field[string]
}

// Create is a validated creation payload.
type Create struct {
	CreatedBy string
	Update
}

// timestampLayouts are the accepted forms of a timestamp field.
var timestampLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"}

// ParseCreate validates a JSON creation payload. summary and createdBy are required.
func ParseCreate(data []byte) (Create, error) {
	errs := &ValidationError{}
	d, ok := newDecoder(data, errs)
	if !ok {
		return Create{}, errs
	}

	var c Create
	c.Update = d.update()
	if _, ok := d.raw["summary"]; !ok {
		errs.add("summary", "is required")
	}
	if _, ok := d.raw["createdBy"]; !ok {
		errs.add("createdBy", "is required")
	}
	c.CreatedBy, _ = d.required("createdBy").Get()
	if err := errs.orNil(); err != nil {
		return Create{}, err
	}
	return c, nil
}

// ParseUpdate validates a JSON partial-update payload. Every key is optional.
// Immutable keys (id, analysisId, createdAt, createdBy) are ignored.
func ParseUpdate(data []byte) (Update, error) {
	errs := &ValidationError{}
	d, ok := newDecoder(data, errs)
	if !ok {
		return Update{}, errs
	}
	u := d.update()
	if err := errs.orNil(); err != nil {
		return Update{}, err
	}
	return u, nil
}

// decoder reads the keys of one JSON object, recording problems in errs.
type decoder struct {
	raw    map[string]json.RawMessage
	prefix string
	errs   *ValidationError
}

func newDecoder(data []byte, errs *ValidationError) (decoder, bool) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil || raw == nil {
		errs.add("body", "must be a JSON object")
		return decoder{}, false
	}
	return decoder{raw: raw, errs: errs}, true
}

func (d decoder) update() Update {
	u := Update{
		Summary:      d.required("summary"),
		Detail:       d.text("detail"),
		Owner:        d.text("owner"),
		Role:         d.text("role"),
		Status:       enum(d, "status", Statuses, false),
		Priority:     enum(d, "priority", Priorities, false),
		DueAt:        d.timestamp("dueAt"),
		StartedAt:    d.timestamp("startedAt"),
		CompletedAt:  d.timestamp("completedAt"),
		Dependencies: d.list("dependencies"),
		Risk:         enum(d, "risk", Risks, true),
		Notes:        d.text("notes"),
	}

	if cc, ok := d.object("changeControl", false); ok {
		u.ChangeControl = &ChangeControlUpdate{
			Required:     cc.boolean("required"),
			ID:           cc.text("id"),
			RollbackPlan: cc.text("rollbackPlan"),
		}
	}
	if v, ok := d.object("verification", false); ok {
		u.Verification = &VerificationUpdate{
			Required:  v.boolean("required"),
			Method:    v.text("method"),
			Evidence:  v.text("evidence"),
			Result:    enum(v, "result", Results, true),
			CheckedBy: v.text("checkedBy"),
			CheckedAt: v.timestamp("checkedAt"),
		}
	}
	if _, isNull := d.lookup("links"); isNull {
		u.Links = Clear[LinksUpdate]()
	} else if l, ok := d.object("links", true); ok {
		u.Links = Value(LinksUpdate{
			HypothesisID: l.text("hypothesisId"),
			Runbook:      l.text("runbook"),
			Ticket:       l.text("ticket"),
			Notes:        l.text("notes"),
		})
	}
	return u
}

func (d decoder) name(key string) string {
	if d.prefix == "" {
		return key
	}
	return d.prefix + "." + key
}

// lookup returns the raw value for key and whether it is JSON null.
func (d decoder) lookup(key string) (json.RawMessage, bool) {
	raw, ok := d.raw[key]
	if !ok {
		return nil, false
	}
	return raw, bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// text reads an optional string; null and "" clear it.
func (d decoder) text(key string) Field[string] {
	raw, isNull := d.lookup(key)
	if raw == nil {
		return Unset[string]()
	}
	if isNull {
		return Clear[string]()
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		d.errs.add(d.name(key), "must be a string")
		return Unset[string]()
	}
	if s == "" {
		return Clear[string]()
	}
	return Value(s)
}

// required reads a string that may be omitted but never emptied.
func (d decoder) required(key string) Field[string] {
	raw, isNull := d.lookup(key)
	if raw == nil {
		return Unset[string]()
	}
	var s string
	if isNull || json.Unmarshal(raw, &s) != nil {
		d.errs.add(d.name(key), "must be a string")
		return Unset[string]()
	}
	if strings.TrimSpace(s) == "" {
		d.errs.add(d.name(key), "must not be empty")
		return Unset[string]()
	}
	return Value(s)
}

func (d decoder) timestamp(key string) Field[string] {
	f := d.text(key)
	s, ok := f.Get()
	if !ok {
		return f
	}
	for _, layout := range timestampLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return f
		}
	}
	d.errs.add(d.name(key), "must be an ISO-8601 timestamp")
	return Unset[string]()
}

func (d decoder) boolean(key string) Field[bool] {
	raw, isNull := d.lookup(key)
	if raw == nil {
		return Unset[bool]()
	}
	var b bool
	if isNull || json.Unmarshal(raw, &b) != nil {
		d.errs.add(d.name(key), "must be a boolean")
		return Unset[bool]()
	}
	return Value(b)
}

// list reads an array of non-empty strings; null clears it.
func (d decoder) list(key string) Field[[]string] {
	raw, isNull := d.lookup(key)
	if raw == nil {
		return Unset[[]string]()
	}
	if isNull {
		return Clear[[]string]()
	}
	var items []string
	if err := json.Unmarshal(raw, &items); err != nil {
		d.errs.add(d.name(key), "must be an array of strings")
		return Unset[[]string]()
	}
	for i, s := range items {
		if strings.TrimSpace(s) == "" {
			d.errs.add(fmt.Sprintf("%s[%d]", d.name(key), i), "must not be empty")
			return Unset[[]string]()
		}
	}
	return Value(items)
}

// object returns a decoder for a nested object. A null value is an error
// unless nullable, in which case the caller handles it.
func (d decoder) object(key string, nullable bool) (decoder, bool) {
	raw, isNull := d.lookup(key)
	if raw == nil || (isNull && nullable) {
		return decoder{}, false
	}
	var nested map[string]json.RawMessage
	if isNull || json.Unmarshal(raw, &nested) != nil {
		d.errs.add(d.name(key), "must be an object")
		return decoder{}, false
	}
	return decoder{raw: nested, prefix: d.name(key), errs: d.errs}, true
}

// enum reads a value restricted to allowed. When clearable, null and "" clear it.
func enum[T ~string](d decoder, key string, allowed []T, clearable bool) Field[T] {
	raw, isNull := d.lookup(key)
	if raw == nil {
		return Unset[T]()
	}
	var s string
	if !isNull && json.Unmarshal(raw, &s) != nil {
		d.errs.add(d.name(key), "must be one of %s", joinValues(allowed))
		return Unset[T]()
	}
	if isNull || s == "" {
		if clearable {
			return Clear[T]()
		}
		d.errs.add(d.name(key), "must be one of %s", joinValues(allowed))
		return Unset[T]()
	}
	for _, v := range allowed {
		if T(s) == v {
			return Value(v)
		}
	}
	d.errs.add(d.name(key), "must be one of %s", joinValues(allowed))
	return Unset[T]()
}

func joinValues[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}

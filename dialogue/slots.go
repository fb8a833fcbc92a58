package dialogue

import (
	"fmt"

	"github.com/room4-2/InsureConverse/nlu"
)

// Kind identifies which arm of a slot Value is populated.
type Kind uint8

const (
	KindString Kind = iota + 1
	KindInt
	KindFloat
	KindBool
	KindCounters
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindCounters:
		return "counters"
	default:
		return "unset"
	}
}

// Value is a tagged variant: exactly one arm is meaningful, selected by
// Kind. Slots never coerce between arms — asking for the wrong one is an
// explicit error, not a zero value.
type Value struct {
	kind     Kind
	str      string
	num      int
	flt      float64
	boolean  bool
	counters map[string]int
}

func StringValue(s string) Value    { return Value{kind: KindString, str: s} }
func IntValue(n int) Value          { return Value{kind: KindInt, num: n} }
func FloatValue(f float64) Value    { return Value{kind: KindFloat, flt: f} }
func BoolValue(b bool) Value        { return Value{kind: KindBool, boolean: b} }
func CountersValue(c map[string]int) Value {
	return Value{kind: KindCounters, counters: c}
}

// Kind reports which arm the value holds.
func (v Value) Kind() Kind { return v.kind }

// TypeMismatchError reports a slot read with the wrong accessor.
type TypeMismatchError struct {
	Key  string
	Want Kind
	Got  Kind
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("slot %q holds %s, not %s", e.Key, e.Got, e.Want)
}

// Slots is the per-call slot store. Presence of a key is itself meaningful
// ("slot filled"), so every writer declares its policy: Set force-writes,
// SetIfAbsent only fills gaps.
type Slots map[string]Value

// Has reports whether the slot is filled.
func (s Slots) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// Set force-writes a slot, replacing any previous value.
func (s Slots) Set(key string, v Value) { s[key] = v }

// SetIfAbsent fills a slot only when it is empty. Returns whether a write
// happened.
func (s Slots) SetIfAbsent(key string, v Value) bool {
	if _, ok := s[key]; ok {
		return false
	}
	s[key] = v
	return true
}

// Delete clears a slot. Deleting an absent key is a no-op.
func (s Slots) Delete(key string) { delete(s, key) }

// String reads a string slot. ok is false when the slot is absent; a
// filled slot of another kind is a TypeMismatchError.
func (s Slots) String(key string) (string, bool, error) {
	v, present := s[key]
	if !present {
		return "", false, nil
	}
	if v.kind != KindString {
		return "", true, &TypeMismatchError{Key: key, Want: KindString, Got: v.kind}
	}
	return v.str, true, nil
}

// Int reads an int slot.
func (s Slots) Int(key string) (int, bool, error) {
	v, present := s[key]
	if !present {
		return 0, false, nil
	}
	if v.kind != KindInt {
		return 0, true, &TypeMismatchError{Key: key, Want: KindInt, Got: v.kind}
	}
	return v.num, true, nil
}

// Float reads a float slot.
func (s Slots) Float(key string) (float64, bool, error) {
	v, present := s[key]
	if !present {
		return 0, false, nil
	}
	if v.kind != KindFloat {
		return 0, true, &TypeMismatchError{Key: key, Want: KindFloat, Got: v.kind}
	}
	return v.flt, true, nil
}

// Bool reads a bool slot.
func (s Slots) Bool(key string) (bool, bool, error) {
	v, present := s[key]
	if !present {
		return false, false, nil
	}
	if v.kind != KindBool {
		return false, true, &TypeMismatchError{Key: key, Want: KindBool, Got: v.kind}
	}
	return v.boolean, true, nil
}

// Counters reads the monthly claim-counter map slot.
func (s Slots) Counters(key string) (map[string]int, bool, error) {
	v, present := s[key]
	if !present {
		return nil, false, nil
	}
	if v.kind != KindCounters {
		return nil, true, &TypeMismatchError{Key: key, Want: KindCounters, Got: v.kind}
	}
	return v.counters, true, nil
}

// boolIs is a tolerant read used when rendering summaries: absent or
// mistyped slots read as false.
func (s Slots) boolIs(key string) bool {
	b, _, err := s.Bool(key)
	return err == nil && b
}

// stringOr is a tolerant read for rendering: absent or mistyped slots
// fall back to def.
func (s Slots) stringOr(key, def string) string {
	v, present, err := s.String(key)
	if !present || err != nil {
		return def
	}
	return v
}

// intOr is a tolerant counter read: absent or mistyped slots read as def.
func (s Slots) intOr(key string, def int) int {
	n, present, err := s.Int(key)
	if !present || err != nil {
		return def
	}
	return n
}

// SessionState is one call's conversational memory. It is owned
// exclusively by the orchestrator for the call's lifetime: created at call
// start, mutated every turn, discarded when the call ends.
type SessionState struct {
	Slots      Slots
	LastIntent nlu.Intent
	Turns      int
}

// NewSessionState creates empty state for a fresh call.
func NewSessionState() *SessionState {
	return &SessionState{Slots: Slots{}}
}

// TurnResult is what one turn produces: the agent's reply and whether the
// call is over. Produced fresh each turn, never mutated after.
type TurnResult struct {
	ResponseText string
	EndCall      bool
}

package forms

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Encode marshals d with its eventType tag.
func Encode(d EventData) ([]byte, error) {
	if absent(d) {
		return nil, ErrInvalidEventData
	}

	out := d.clone()
	out.base().EventType = out.Kind()

	return json.Marshal(out)
}

// Decode reads a tagged payload. The eventType decides the shape; fields of any other shape
// are rejected.
func Decode(raw []byte) (EventData, error) {
	var tag struct {
		EventType Kind `json:"eventType"`
	}

	err := json.Unmarshal(raw, &tag)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEventData, err)
	}

	if tag.EventType == "" {
		return nil, fmt.Errorf("%w: missing eventType", ErrInvalidEventData)
	}

	return DecodeAs(tag.EventType, raw)
}

// DecodeAs reads raw as the shape of kind, starting from the kind's defaults.
func DecodeAs(kind Kind, raw []byte) (EventData, error) {
	d, err := NewEventData(kind)
	if err != nil {
		return nil, err
	}

	err = decodeStrict(raw, d)
	if err != nil {
		return nil, err
	}

	if d.base().EventType != kind {
		return nil, fmt.Errorf("%w: eventType %q does not match %q", ErrInvalidEventData, d.base().EventType, kind)
	}

	return d, nil
}

// ApplyFields merges a partial payload into a copy of d. The payload may only name fields of
// d's own type, and may not change the type. A startTime or endTime in the payload goes through
// SetStartTime and SetEndTime, in that order; reverted reports whether the end was rejected.
func ApplyFields(d EventData, raw []byte) (out EventData, reverted bool, err error) {
	if absent(d) {
		return nil, false, ErrInvalidEventData
	}

	var times struct {
		StartTime *string `json:"startTime"`
		EndTime   *string `json:"endTime"`
	}

	err = json.Unmarshal(raw, &times)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrInvalidEventData, err)
	}

	out = d.clone()
	out.base().EventType = d.Kind()

	err = decodeStrict(raw, out)
	if err != nil {
		return nil, false, err
	}

	if out.base().EventType != d.Kind() {
		return nil, false, fmt.Errorf("%w: eventType cannot change from %q to %q", ErrInvalidEventData, d.Kind(), out.base().EventType)
	}

	start, end := Times(d)
	out = WithTimes(out, start, end)

	if times.StartTime != nil {
		out, err = SetStartTime(out, *times.StartTime)
		if err != nil {
			return nil, false, err
		}
	}

	if times.EndTime != nil {
		out, reverted, err = SetEndTime(out, *times.EndTime)
		if err != nil {
			return nil, false, err
		}
	}

	return out, reverted, nil
}

func decodeStrict(raw []byte, into EventData) error {
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.DisallowUnknownFields()

	err := decoder.Decode(into)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidEventData, err)
	}

	return nil
}

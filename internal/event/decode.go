package event

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

var (
	// ErrBlankLine is returned for lines holding only whitespace.
	ErrBlankLine = errors.New("blank line")
	// ErrMalformed is returned when a line is not a JSON object.
	ErrMalformed = errors.New("malformed record")
	// ErrUnknownType is returned when the "type" tag is not suite or test.
	ErrUnknownType = errors.New("unknown record type")
	// ErrUnknownEvent is returned when the "event" tag is not recognised for its type.
	ErrUnknownEvent = errors.New("unknown event")
	// ErrSchema is returned when a recognised record lacks a required field
	// or carries a field of the wrong type.
	ErrSchema = errors.New("record does not match schema")
)

const (
	typeSuite = "suite"
	typeTest  = "test"

	eventStarted = "started"
	eventOK      = "ok"
	eventFailed  = "failed"
)

// record is one parsed line. Keys are matched exactly, so the fields read
// here are the fields the schema checked.
type record map[string]any

// DecodeString decodes a single line of text.
func DecodeString(line string) (Event, error) {
	return Decode([]byte(line))
}

// Decode decodes one line into an Event. Any failure is reported as an error
// wrapping one of the package sentinels; the caller decides whether to skip
// the line.
func Decode(line []byte) (Event, error) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return nil, ErrBlankLine
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(line))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	obj, ok := doc.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: not an object", ErrMalformed)
	}
	rec := record(obj)

	typ, err := rec.tag("type")
	if err != nil {
		return nil, err
	}
	name, err := rec.tag("event")
	if err != nil {
		return nil, err
	}

	switch typ {
	case typeSuite:
		return decodeSuite(name, rec)
	case typeTest:
		return decodeTest(name, rec)
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownType, typ)
	}
}

func decodeSuite(name string, rec record) (Event, error) {
	switch name {
	case eventStarted:
		if err := validate(defSuiteStarted, map[string]any(rec)); err != nil {
			return nil, err
		}
		n, err := rec.count("test_count")
		if err != nil {
			return nil, err
		}
		return SuiteStarted{TestCount: n}, nil

	case eventOK, eventFailed:
		if err := validate(defSuiteFinished, map[string]any(rec)); err != nil {
			return nil, err
		}
		counts, err := rec.counts()
		if err != nil {
			return nil, err
		}
		if name == eventOK {
			return SuitePassed{Counts: counts}, nil
		}
		return SuiteFailed{Counts: counts}, nil

	default:
		return nil, fmt.Errorf("%w %q for suite", ErrUnknownEvent, name)
	}
}

func decodeTest(name string, rec record) (Event, error) {
	switch name {
	case eventStarted, eventOK:
		if err := validate(defTestLifecycle, map[string]any(rec)); err != nil {
			return nil, err
		}
		testName, _ := rec["name"].(string)
		if name == eventStarted {
			return TestStarted{Name: testName}, nil
		}
		return TestPassed{Name: testName}, nil

	case eventFailed:
		if err := validate(defTestFailed, map[string]any(rec)); err != nil {
			return nil, err
		}
		testName, _ := rec["name"].(string)
		output, _ := rec["stdout"].(string)
		return TestFailed{Name: testName, Output: output}, nil

	default:
		return nil, fmt.Errorf("%w %q for test", ErrUnknownEvent, name)
	}
}

// tag returns a selector field. A missing tag reads as empty and is rejected
// by the dispatch; a tag of the wrong JSON type is malformed.
func (r record) tag(key string) (string, error) {
	v, ok := r[key]
	if !ok {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: %q is %T, want string", ErrMalformed, key, v)
	}
	return s, nil
}

// count reads a schema-checked non-negative integer. Integral values written
// with a fraction or exponent (1.0, 1e3) are accepted; values beyond int are not.
func (r record) count(key string) (int, error) {
	num, ok := r[key].(json.Number)
	if !ok {
		return 0, fmt.Errorf("%w: %q is not a number", ErrSchema, key)
	}
	if n, err := num.Int64(); err == nil {
		if n < 0 || int64(int(n)) != n {
			return 0, fmt.Errorf("%w: %q out of range", ErrSchema, key)
		}
		return int(n), nil
	}
	f, err := num.Float64()
	if err != nil || f != math.Trunc(f) || f < 0 || f >= float64(math.MaxInt) {
		return 0, fmt.Errorf("%w: %q out of range", ErrSchema, key)
	}
	return int(f), nil
}

func (r record) counts() (CommonCounts, error) {
	var c CommonCounts
	fields := []struct {
		key string
		dst *int
	}{
		{"passed", &c.Passed},
		{"failed", &c.Failed},
		{"allowed_fail", &c.AllowedFail},
		{"ignored", &c.Ignored},
		{"measured", &c.Measured},
		{"filtered_out", &c.FilteredOut},
	}
	for _, f := range fields {
		n, err := r.count(f.key)
		if err != nil {
			return CommonCounts{}, err
		}
		*f.dst = n
	}
	return c, nil
}

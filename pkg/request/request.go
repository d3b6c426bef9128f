// Package request decodes inbound editor messages into a typed request
// variant. The shape of a message decides its variant: an "actionSet" key
// makes it a switch instruction, an "operation" key a stateful operation,
// anything else a match request whose fields drive rule selection.
// Invalid shapes are rejected here, at the boundary, so the dispatcher
// only ever sees well-formed requests.
package request

import (
	"fmt"

	"github.com/arthur-debert/testpilot/pkg/errors"
	"github.com/tidwall/gjson"
)

// Kind discriminates the request variants
type Kind int

const (
	// KindMatch is a request to find and run a matching rule
	KindMatch Kind = iota
	// KindRepeatLast re-runs the most recent match request
	KindRepeatLast
	// KindSwitchSet activates a different action set
	KindSwitchSet
)

// OpRepeatLastTest is the only operation the protocol defines
const OpRepeatLastTest = "repeatLastTest"

// ActionSetID identifies an action set either by 1-based position or by
// name. Only these two constructors exist; the decoder rejects any other
// identifier shape before a Request is built.
type ActionSetID struct {
	index  int
	name   string
	byName bool
}

// ByIndex identifies an action set by its 1-based position
func ByIndex(i int) ActionSetID {
	return ActionSetID{index: i}
}

// ByName identifies an action set by its configured name
func ByName(name string) ActionSetID {
	return ActionSetID{name: name, byName: true}
}

// Index returns the 1-based position, if this ID is positional
func (id ActionSetID) Index() (int, bool) {
	return id.index, !id.byName
}

// Name returns the set name, if this ID is by name
func (id ActionSetID) Name() (string, bool) {
	return id.name, id.byName
}

func (id ActionSetID) String() string {
	if id.byName {
		return id.name
	}
	return fmt.Sprintf("%d", id.index)
}

// Request is the decoded form of one inbound message
type Request struct {
	Kind   Kind
	Fields map[string]string // populated for KindMatch
	SetID  ActionSetID       // populated for KindSwitchSet
}

// Match builds a match request from the given fields
func Match(fields map[string]string) Request {
	if fields == nil {
		fields = map[string]string{}
	}
	return Request{Kind: KindMatch, Fields: fields}
}

// RepeatLast builds a repeat-last-test request
func RepeatLast() Request {
	return Request{Kind: KindRepeatLast}
}

// SwitchSet builds an action-set switch request
func SwitchSet(id ActionSetID) Request {
	return Request{Kind: KindSwitchSet, SetID: id}
}

func (r Request) String() string {
	switch r.Kind {
	case KindRepeatLast:
		return "repeatLastTest"
	case KindSwitchSet:
		return fmt.Sprintf("switch to action set %s", r.SetID)
	default:
		return fmt.Sprintf("%v", r.Fields)
	}
}

// Decode parses one JSON message into a Request
func Decode(data []byte) (Request, error) {
	if !gjson.ValidBytes(data) {
		return Request{}, errors.Newf(errors.ErrRequestParse, "malformed request: %s", data)
	}
	parsed := gjson.ParseBytes(data)
	if !parsed.IsObject() {
		return Request{}, errors.Newf(errors.ErrRequestParse, "request is not a JSON object: %s", data)
	}

	setID := parsed.Get("actionSet")
	operation := parsed.Get("operation")
	if setID.Exists() && operation.Exists() {
		return Request{}, errors.New(errors.ErrRequestParse,
			"request carries both actionSet and operation")
	}

	if setID.Exists() {
		id, err := decodeSetID(setID)
		if err != nil {
			return Request{}, err
		}
		return SwitchSet(id), nil
	}

	if operation.Exists() {
		if operation.Type != gjson.String || operation.String() != OpRepeatLastTest {
			return Request{}, errors.Newf(errors.ErrRequestParse,
				"unknown operation %q", operation.Raw)
		}
		return RepeatLast(), nil
	}

	fields := make(map[string]string)
	var fieldErr error
	parsed.ForEach(func(key, value gjson.Result) bool {
		switch value.Type {
		case gjson.String:
			fields[key.String()] = value.String()
		case gjson.Number:
			// numeric fields such as line numbers become decimal strings
			fields[key.String()] = value.String()
		default:
			fieldErr = errors.Newf(errors.ErrRequestParse,
				"field %q has unsupported value %s", key.String(), value.Raw)
			return false
		}
		return true
	})
	if fieldErr != nil {
		return Request{}, fieldErr
	}
	return Match(fields), nil
}

// decodeSetID enforces the two legal identifier shapes: number or string
func decodeSetID(value gjson.Result) (ActionSetID, error) {
	switch value.Type {
	case gjson.Number:
		n := value.Num
		if n != float64(int(n)) {
			return ActionSetID{}, errors.Newf(errors.ErrUnsupportedActionSetID,
				"unsupported action-set id type: fractional number %s", value.Raw)
		}
		return ByIndex(int(n)), nil
	case gjson.String:
		return ByName(value.String()), nil
	default:
		return ActionSetID{}, errors.Newf(errors.ErrUnsupportedActionSetID,
			"unsupported action-set id type: %s", typeName(value))
	}
}

func typeName(value gjson.Result) string {
	switch value.Type {
	case gjson.True, gjson.False:
		return "boolean"
	case gjson.Null:
		return "null"
	case gjson.JSON:
		if value.IsArray() {
			return "array"
		}
		return "object"
	default:
		return value.Type.String()
	}
}

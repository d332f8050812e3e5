package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Verb is a command keyword. Verbs are case-sensitive.
type Verb string

const (
	VerbStatus  Verb = "STATUS"
	VerbSetRate Verb = "SET_RATE"
	VerbSetAmp  Verb = "SET_AMP"
	VerbSetFreq Verb = "SET_FREQ"
	VerbMove    Verb = "MOVE"
	VerbStop    Verb = "STOP"
)

// Command is a parsed inbound command. It is ephemeral: created when a
// transport message arrives and discarded after dispatch.
//
// AxisName is kept as raw text; resolution against the axis registry happens
// at dispatch time because an unknown axis is a semantic failure for MOVE
// but a silent parse failure for the remaining axis verbs.
type Command struct {
	Verb     Verb
	AxisName string
	Value    int32
}

// ParseCommand decomposes a raw command payload according to the grammar:
//
//	STATUS
//	SET_RATE/<hz>
//	SET_AMP/<axis>/<millivolts>
//	SET_FREQ/<axis>/<millihertz>
//	MOVE/<axis>/<target_position>
//	STOP/<axis>
//
// A wrong field count, an unknown verb, or a non-numeric value is a parse
// failure; the caller logs and ignores such commands without publishing a
// result.
func ParseCommand(raw string) (Command, error) {
	fields := strings.Split(raw, string(Separator))

	cmd := Command{Verb: Verb(fields[0])}
	switch cmd.Verb {
	case VerbStatus:
		if len(fields) != 1 {
			return Command{}, fmt.Errorf("%w: STATUS takes no arguments", ErrMalformedCommand)
		}

	case VerbSetRate:
		if len(fields) != 2 {
			return Command{}, fmt.Errorf("%w: SET_RATE/<hz>", ErrMalformedCommand)
		}
		v, err := parseValue(fields[1])
		if err != nil {
			return Command{}, err
		}
		cmd.Value = v

	case VerbSetAmp, VerbSetFreq, VerbMove:
		if len(fields) != 3 {
			return Command{}, fmt.Errorf("%w: %s/<axis>/<value>", ErrMalformedCommand, cmd.Verb)
		}
		cmd.AxisName = fields[1]
		v, err := parseValue(fields[2])
		if err != nil {
			return Command{}, err
		}
		cmd.Value = v

	case VerbStop:
		if len(fields) != 2 {
			return Command{}, fmt.Errorf("%w: STOP/<axis>", ErrMalformedCommand)
		}
		cmd.AxisName = fields[1]

	default:
		return Command{}, fmt.Errorf("%w: %q", ErrUnknownVerb, fields[0])
	}

	return cmd, nil
}

// parseValue parses a signed 32-bit decimal argument. Anything that does not
// fit is grammar-level malformed, not a semantic failure.
func parseValue(s string) (int32, error) {
	v, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: value %q", ErrMalformedCommand, s)
	}
	return int32(v), nil
}

// Category distinguishes status reports from command acknowledgements on the
// result topic.
type Category string

const (
	CategoryStatus  Category = "STATUS"
	CategoryCommand Category = "COMMAND"
)

// Outcome is the terminal state of a processed command.
type Outcome string

const (
	OutcomeSuccess Outcome = "SUCCESS"
	OutcomeFailed  Outcome = "FAILED"
)

// AxisAll is the axis label for commands that do not target a single axis.
const AxisAll = "ALL"

// Result is the report published once per processed command. It is never
// retried.
type Result struct {
	// Timestamp is the completion time in Unix nanoseconds.
	Timestamp int64

	Category Category
	Verb     Verb

	// AxisLabel is the symbolic axis name, or AxisAll.
	AxisLabel string

	Outcome Outcome

	// Detail is free human-readable text. It is the last field, so it may
	// itself contain separators and newlines (the STATUS report does).
	Detail string
}

// Encode renders the result in wire form:
// timestamp/CATEGORY/VERB/AXIS-or-ALL/OUTCOME/detail.
func (r Result) Encode() []byte {
	var b strings.Builder
	b.Grow(64 + len(r.Detail))
	b.WriteString(strconv.FormatInt(r.Timestamp, 10))
	b.WriteByte(Separator)
	b.WriteString(string(r.Category))
	b.WriteByte(Separator)
	b.WriteString(string(r.Verb))
	b.WriteByte(Separator)
	b.WriteString(r.AxisLabel)
	b.WriteByte(Separator)
	b.WriteString(string(r.Outcome))
	b.WriteByte(Separator)
	b.WriteString(r.Detail)
	return []byte(b.String())
}

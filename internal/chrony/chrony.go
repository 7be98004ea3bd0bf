// Package chrony decodes the machine-readable output of `chronyc -c sources`.
package chrony

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"ntp-stats/internal/models"
	"ntp-stats/internal/summary"
)

// Command is the default chronyd query tool
const Command = "chronyc"

var commandArgs = [...]string{"-c", "sources"}

// header is the positional column layout of `chronyc -c sources`
var header = [...]string{
	"Mode",
	"State",
	"Address",
	"Stratum",
	"Poll",
	"Reach",
	"LastRx",
	"Offset",
	"AdjustedOffset",
	"Error",
}

// Fields returns the column names in output order
func Fields() []string {
	return header[:]
}

// ValidKey reports whether key names a column
func ValidKey(key string) bool {
	for _, h := range header {
		if h == key {
			return true
		}
	}
	return false
}

// Mode is the kind of time source
type Mode string

const (
	ModeServer     Mode = "Server"
	ModePeer       Mode = "Peer"
	ModeLocalClock Mode = "LocalClock"
)

// ParseMode decodes the single-character mode column
func ParseMode(code string) (Mode, error) {
	switch code {
	case "^":
		return ModeServer, nil
	case "=":
		return ModePeer, nil
	case "#":
		return ModeLocalClock, nil
	}
	return "", fmt.Errorf("%w: mode %q", models.ErrUnknownCode, code)
}

// State is chronyd's selection state for a source
type State string

const (
	StateCurrentSynced State = "CurrentSynced"
	StateCombined      State = "Combined"
	StateNotCombined   State = "NotCombined"
	StateUnreachable   State = "Unreachable"
	StateMaybeError    State = "MaybeError"
	StateTooVariable   State = "TooVariable"
)

// ParseState decodes the single-character state column
func ParseState(code string) (State, error) {
	switch code {
	case "*":
		return StateCurrentSynced, nil
	case "+":
		return StateCombined, nil
	case "-":
		return StateNotCombined, nil
	case "?":
		return StateUnreachable, nil
	case "x":
		return StateMaybeError, nil
	case "~":
		return StateTooVariable, nil
	}
	return "", fmt.Errorf("%w: state %q", models.ErrUnknownCode, code)
}

// eligibleStates are the states reported on, in reporting order
var eligibleStates = [...]State{StateCurrentSynced, StateCombined, StateNotCombined}

// Source is one row of `chronyc -c sources`. Columns other than Mode and
// State keep chronyc's text; a short row leaves its trailing columns absent.
type Source struct {
	Mode           Mode
	State          State
	Address        models.Value
	Stratum        models.Value
	Poll           models.Value
	Reach          models.Value
	LastRx         models.Value
	Offset         models.Value
	AdjustedOffset models.Value
	Error          models.Value
}

// Field returns the column named key
func (s Source) Field(key string) models.Value {
	switch key {
	case "Mode":
		return models.Text(string(s.Mode))
	case "State":
		return models.Text(string(s.State))
	case "Address":
		return s.Address
	case "Stratum":
		return s.Stratum
	case "Poll":
		return s.Poll
	case "Reach":
		return s.Reach
	case "LastRx":
		return s.LastRx
	case "Offset":
		return s.Offset
	case "AdjustedOffset":
		return s.AdjustedOffset
	case "Error":
		return s.Error
	}
	return models.Absent()
}

// Parse decodes headerless CSV rows into sources
func Parse(r io.Reader) ([]Source, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	var sources []Source
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", models.ErrFormat, err)
		}

		source, err := parseRow(row)
		if err != nil {
			line, _ := reader.FieldPos(0)
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		sources = append(sources, source)
	}
	return sources, nil
}

func parseRow(row []string) (Source, error) {
	if len(row) < 2 {
		return Source{}, fmt.Errorf("%w: %d columns, need at least mode and state", models.ErrFormat, len(row))
	}

	mode, err := ParseMode(row[0])
	if err != nil {
		return Source{}, err
	}
	state, err := ParseState(row[1])
	if err != nil {
		return Source{}, err
	}

	column := func(i int) models.Value {
		if i < len(row) {
			return models.Text(row[i])
		}
		return models.Absent()
	}

	return Source{
		Mode:           mode,
		State:          state,
		Address:        column(2),
		Stratum:        column(3),
		Poll:           column(4),
		Reach:          column(5),
		LastRx:         column(6),
		Offset:         column(7),
		AdjustedOffset: column(8),
		Error:          column(9),
	}, nil
}

// Fetch runs chronyc and decodes its sources
func Fetch(ctx context.Context, runner models.Runner, bin string) ([]Source, error) {
	if bin == "" {
		bin = Command
	}
	out, err := runner.Run(ctx, bin, commandArgs[:]...)
	if err != nil {
		return nil, err
	}
	return Parse(bytes.NewReader(out))
}

// Eligible returns the synced and combinable sources, current sync source
// first, keeping chronyc's order within each state
func Eligible(sources []Source) []Source {
	return summary.Group(sources, func(s Source) State { return s.State }, eligibleStates[:])
}

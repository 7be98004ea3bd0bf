// Package ntpq decodes the peer billboard printed by `ntpq -np`.
package ntpq

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"ntp-stats/internal/models"
	"ntp-stats/internal/summary"
)

// Command is the default ntpd query tool
const Command = "ntpq"

var commandArgs = [...]string{"-np"}

// Errors for a billboard that does not start with the expected header
var (
	ErrHeaderMismatch    = fmt.Errorf("%w: header mismatch", models.ErrFormat)
	ErrDelimiterMismatch = fmt.Errorf("%w: header delimiter mismatch", models.ErrFormat)
)

// header is the billboard column layout, lowercased
var header = [...]string{
	"remote",
	"refid",
	"st",
	"t",
	"when",
	"poll",
	"reach",
	"delay",
	"offset",
	"jitter",
}

const delimiter = "=================="

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

// TallyDescription explains a tally code
func TallyDescription(code byte) (string, error) {
	switch code {
	case ' ':
		return "discarded as not valid", nil
	case 'x':
		return "discarded by intersection algorithm", nil
	case '.':
		return "discarded by table overflow (not used)", nil
	case '-':
		return "discarded by the cluster algorithm", nil
	case '+':
		return "included by the combine algorithm", nil
	case '#':
		return "backup (more than tos maxclock sources)", nil
	case '*':
		return "system peer", nil
	case 'o':
		return "PPS peer (when the prefer peer is valid)", nil
	}
	return "", fmt.Errorf("%w: tally %q", models.ErrUnknownCode, code)
}

// TypeDescription explains the t column. A number is the count of NTS
// cookies held for an NTS unicast association.
func TypeDescription(t string) (string, error) {
	if isDigits(t) {
		return fmt.Sprintf("NTS unicast with %s of cookies stored", t), nil
	}
	switch t {
	case "u":
		return "unicast or manycast client", nil
	case "l":
		return "local (reference clock)", nil
	case "p":
		return "pool", nil
	case "s":
		return "symmetric (peer), server", nil
	case "b":
		return "broadcast server", nil
	}
	return "", fmt.Errorf("%w: type %q", models.ErrUnknownCode, t)
}

// eligibleTallies are the tally codes reported on, in reporting order
var eligibleTallies = [...]byte{'o', '*', '+', '#'}

// Peer is one association line of the billboard
type Peer struct {
	TallyCode        byte
	TallyDescription string
	Remote           string
	RefID            string
	Stratum          models.Value
	Type             string
	TypeDescription  string
	When             models.Value // seconds
	Poll             models.Value // seconds
	Reach            int64
	Delay            float64 // seconds
	Offset           float64 // seconds
	Jitter           float64 // seconds
}

// Field returns the converted column named key
func (p Peer) Field(key string) models.Value {
	switch key {
	case "remote":
		return models.Text(p.Remote)
	case "refid":
		return models.Text(p.RefID)
	case "st":
		return p.Stratum
	case "t":
		return models.Text(p.Type)
	case "when":
		return p.When
	case "poll":
		return p.Poll
	case "reach":
		return models.Int(p.Reach)
	case "delay":
		return models.Float(p.Delay)
	case "offset":
		return models.Float(p.Offset)
	case "jitter":
		return models.Float(p.Jitter)
	case "tally_code":
		return models.Text(string(p.TallyCode))
	case "tally_code_description":
		return models.Text(p.TallyDescription)
	case "t_description":
		return models.Text(p.TypeDescription)
	}
	return models.Absent()
}

type parseState int

const (
	awaitingHeader parseState = iota
	validatingDelimiter
	parsingRows
)

// Parse decodes the billboard. The header and delimiter must match before
// any peer line is read.
func Parse(r io.Reader) ([]Peer, error) {
	scanner := bufio.NewScanner(r)
	state := awaitingHeader
	lineNo := 0

	var peers []Peer
	for scanner.Scan() {
		line := scanner.Text()
		lineNo++

		switch state {
		case awaitingHeader:
			if strings.TrimSpace(line) == "" {
				continue
			}
			if err := checkHeader(line); err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			state = validatingDelimiter

		case validatingDelimiter:
			if !strings.HasPrefix(line, delimiter) {
				return nil, fmt.Errorf("line %d: %w: %q", lineNo, ErrDelimiterMismatch, line)
			}
			state = parsingRows

		case parsingRows:
			if line == "" {
				continue
			}
			peer, err := parsePeer(line)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			peers = append(peers, peer)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading ntpq output: %w", err)
	}
	return peers, nil
}

func checkHeader(line string) error {
	got := strings.Fields(strings.ToLower(line))
	if len(got) != len(header) {
		return fmt.Errorf("%w: %v", ErrHeaderMismatch, got)
	}
	for i := range header {
		if got[i] != header[i] {
			return fmt.Errorf("%w: %v", ErrHeaderMismatch, got)
		}
	}
	return nil
}

func parsePeer(line string) (Peer, error) {
	parts := strings.Fields(strings.ToLower(line[1:]))
	if len(parts) < len(header) {
		return Peer{}, fmt.Errorf("%w: %d columns, want %d", models.ErrFormat, len(parts), len(header))
	}

	p := Peer{
		TallyCode: line[0],
		Remote:    parts[0],
		RefID:     parts[1],
		Type:      parts[3],
	}

	var err error
	if p.TallyDescription, err = TallyDescription(p.TallyCode); err != nil {
		return Peer{}, err
	}
	if p.TypeDescription, err = TypeDescription(p.Type); err != nil {
		return Peer{}, err
	}
	if p.Stratum, err = ParseInt(parts[2]); err != nil {
		return Peer{}, err
	}
	if p.When, err = ParseWhen(parts[4]); err != nil {
		return Peer{}, err
	}
	if p.Poll, err = ParseInt(parts[5]); err != nil {
		return Peer{}, err
	}
	if p.Reach, err = ParseReach(parts[6]); err != nil {
		return Peer{}, err
	}
	if p.Delay, err = ParseMillis(parts[7]); err != nil {
		return Peer{}, err
	}
	if p.Offset, err = ParseMillis(parts[8]); err != nil {
		return Peer{}, err
	}
	if p.Jitter, err = ParseMillis(parts[9]); err != nil {
		return Peer{}, err
	}
	return p, nil
}

// Fetch runs ntpq and decodes its peers
func Fetch(ctx context.Context, runner models.Runner, bin string) ([]Peer, error) {
	if bin == "" {
		bin = Command
	}
	out, err := runner.Run(ctx, bin, commandArgs[:]...)
	if err != nil {
		return nil, err
	}
	return Parse(bytes.NewReader(out))
}

// Eligible returns the PPS, system, combined and backup peers in that
// order, keeping ntpq's order within each tally
func Eligible(peers []Peer) []Peer {
	return summary.Group(peers, func(p Peer) byte { return p.TallyCode }, eligibleTallies[:])
}

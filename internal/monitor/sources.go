package monitor

import (
	"context"

	log "github.com/sirupsen/logrus"

	"ntp-stats/internal/chrony"
	"ntp-stats/internal/models"
	"ntp-stats/internal/ntpq"
)

// Row is an eligible record with the label used to identify it in charts
type Row struct {
	Label  string
	Record models.Record
}

// Source describes a query tool: how to run it and which records to report on
type Source struct {
	Name     string
	Command  string
	ValidKey func(key string) bool
	Fetch    func(ctx context.Context, runner models.Runner, bin string) ([]Row, error)
}

// Chrony reports on chronyd sources via `chronyc -c sources`
var Chrony = Source{
	Name:     "chrony-stats",
	Command:  chrony.Command,
	ValidKey: chrony.ValidKey,
	Fetch: func(ctx context.Context, runner models.Runner, bin string) ([]Row, error) {
		sources, err := chrony.Fetch(ctx, runner, bin)
		if err != nil {
			return nil, err
		}

		for _, s := range sources {
			log.WithFields(log.Fields{
				"mode":    s.Mode,
				"state":   s.State,
				"address": s.Address,
				"offset":  s.Offset,
			}).Debug("chronyc source")
		}

		eligible := chrony.Eligible(sources)
		rows := make([]Row, 0, len(eligible))
		for _, s := range eligible {
			rows = append(rows, Row{Label: s.Address.String(), Record: s})
		}
		return rows, nil
	},
}

// NTPQ reports on ntpd peers via `ntpq -np`
var NTPQ = Source{
	Name:     "ntp-stats",
	Command:  ntpq.Command,
	ValidKey: ntpq.ValidKey,
	Fetch: func(ctx context.Context, runner models.Runner, bin string) ([]Row, error) {
		peers, err := ntpq.Fetch(ctx, runner, bin)
		if err != nil {
			return nil, err
		}

		for _, p := range peers {
			log.WithFields(log.Fields{
				"tally":  p.TallyDescription,
				"type":   p.TypeDescription,
				"remote": p.Remote,
				"reach":  p.Reach,
				"offset": p.Offset,
			}).Debug("ntpq peer")
		}

		eligible := ntpq.Eligible(peers)
		rows := make([]Row, 0, len(eligible))
		for _, p := range eligible {
			rows = append(rows, Row{Label: p.Remote, Record: p})
		}
		return rows, nil
	},
}

package monitor

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ntp-stats/internal/config"
	"ntp-stats/internal/models"
	"ntp-stats/internal/runner"
)

const chronycOutput = `^,*,192.0.2.1,3,6,17,42,-1.2e-03,-1.1e-03,2.3e-04
^,?,198.51.100.7,0,10,0,-,+0.000e+00,+0.000e+00,0.000e+00
^,+,192.0.2.55,2,7,377,101,+5.01e-04,+4.98e-04,1.2e-03
^,-,203.0.113.10,2,10,377,512,+2.118e-03,+2.132e-03,3.041e-02
`

const ntpqOutput = `     remote           refid      st t when poll reach   delay   offset  jitter
==============================================================================
*192.0.2.1       .GPS.            1 u   33   64   17   10.250   +1.500   0.125
+192.0.2.55      198.51.100.3     2 u   5m   64  377   23.456   -0.750   0.300
-203.0.113.10    192.0.2.200      2 u   12 1024  377   15.200   -2.250   0.410
`

type fakeRunner struct {
	out string
	err error
}

func (f *fakeRunner) Run(context.Context, string, ...string) ([]byte, error) {
	return []byte(f.out), f.err
}

func TestRunChrony(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"Stratum", "2\n3\n3\n2\n2\n"},
		{"Address", "192.0.2.1\n203.0.113.10\n192.0.2.1\n192.0.2.55\n203.0.113.10\n"},
		{"Offset", "+2.118e-03\n-1.2e-03\n-1.2e-03\n+5.01e-04\n+2.118e-03\n"},
		{"State", "Combined\nNotCombined\nCurrentSynced\nCombined\nNotCombined\n"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			var out bytes.Buffer
			cfg := config.Config{Key: tt.key, Binary: "chronyc"}
			m := New(cfg, Chrony, &fakeRunner{out: chronycOutput}, &out)

			require.NoError(t, m.Run(context.Background()))
			assert.Equal(t, tt.want, out.String())
		})
	}
}

func TestRunNTPQ(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"when", "33\n300\n33\n300\n"},
		{"reach", "15\n255\n15\n255\n"},
		{"offset", "-0.00075\n0.0015\n0.0015\n-0.00075\n"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			var out bytes.Buffer
			cfg := config.Config{Key: tt.key, Binary: "ntpq"}
			m := New(cfg, NTPQ, &fakeRunner{out: ntpqOutput}, &out)

			require.NoError(t, m.Run(context.Background()))
			assert.Equal(t, tt.want, out.String())
		})
	}
}

func TestRunNoEligibleRecords(t *testing.T) {
	var out bytes.Buffer
	cfg := config.Config{Key: "Offset", Binary: "chronyc"}
	input := "^,?,198.51.100.7,0,10,0,-,+0.000e+00,+0.000e+00,0.000e+00\n"
	m := New(cfg, Chrony, &fakeRunner{out: input}, &out)

	require.NoError(t, m.Run(context.Background()))
	assert.Equal(t, "None\nNone\n\n", out.String())
}

func TestRunLineCountMatchesEligible(t *testing.T) {
	var out bytes.Buffer
	cfg := config.Config{Key: "LastRx", Binary: "chronyc"}
	m := New(cfg, Chrony, &fakeRunner{out: chronycOutput}, &out)

	require.NoError(t, m.Run(context.Background()))
	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	assert.Len(t, lines, 2+3)
}

func TestRunErrorsPrintNothing(t *testing.T) {
	tests := []struct {
		name   string
		source Source
		runner *fakeRunner
		want   error
	}{
		{"unknown chrony state", Chrony, &fakeRunner{out: "^,!,192.0.2.1,3,6,17,42,0,0,0\n"}, models.ErrUnknownCode},
		{"ntpq header", NTPQ, &fakeRunner{out: "remote refid\n====================\n"}, models.ErrFormat},
		{"tool failure", Chrony, &fakeRunner{err: &runner.ExitError{Command: "chronyc -c sources", Code: 1}}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			m := New(config.Config{Key: "reach", Binary: "x"}, tt.source, tt.runner, &out)

			err := m.Run(context.Background())
			require.Error(t, err)
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
			}
			assert.Empty(t, out.String())
		})
	}
}

func TestRunWritesChart(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer
	cfg := config.Config{Key: "offset", Binary: "ntpq", ChartDir: dir}
	m := New(cfg, NTPQ, &fakeRunner{out: ntpqOutput}, &out)

	require.NoError(t, m.Run(context.Background()))
	assert.NotEmpty(t, out.String())

	_, err := os.Stat(filepath.Join(dir, "ntp-stats_offset.png"))
	assert.NoError(t, err)
}

func TestRunChartFailureKeepsOutput(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer
	cfg := config.Config{Key: "remote", Binary: "ntpq", ChartDir: dir}
	m := New(cfg, NTPQ, &fakeRunner{out: ntpqOutput}, &out)

	require.NoError(t, m.Run(context.Background()))
	assert.Equal(t, "192.0.2.1\n192.0.2.55\n192.0.2.1\n192.0.2.55\n", out.String())
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, 1, ExitCode(models.ErrFormat))
	assert.Equal(t, 3, ExitCode(&runner.ExitError{Code: 3}))
	assert.Equal(t, 1, ExitCode(&runner.ExitError{Code: -1}))
	assert.Equal(t, 4, ExitCode(errors.Join(errors.New("wrapped"), &runner.ExitError{Code: 4})))
}

package logger_test

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/conductor/internal/adapters/logger"
	"go.trai.ch/zerr"
)

// annotated is a chain link that reports its own message and metadata.
type annotated struct {
	msg   string
	meta  map[string]any
	cause error
}

func (e *annotated) Error() string            { return e.msg }
func (e *annotated) Message() string          { return e.msg }
func (e *annotated) Metadata() map[string]any { return e.meta }
func (e *annotated) Unwrap() error            { return e.cause }

// newTestLogger creates a logger writing to a buffer with colors disabled.
func newTestLogger(t *testing.T) (*logger.Logger, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	lg := logger.New().(*logger.Logger)
	lg.SetOutput(buf)
	return lg, buf
}

func TestLogger_Levels(t *testing.T) {
	tests := []struct {
		name       string
		log        func(*logger.Logger)
		goldenName string
	}{
		{name: "info", log: func(l *logger.Logger) { l.Info("Writing monorepo.lock") }, goldenName: "info_basic"},
		{name: "info multiline", log: func(l *logger.Logger) { l.Info("line1\nline2") }, goldenName: "info_multiline"},
		{
			name: "warn",
			log: func(l *logger.Logger) {
				l.Warn("Package acme/old is abandoned, you should avoid using it. No replacement was suggested.")
			},
			goldenName: "warn_basic",
		},
		{name: "debug hidden", log: func(l *logger.Logger) { l.Debug("Installs: psr/log:3.0.0") }, goldenName: "debug_hidden"},
		{
			name: "debug verbose",
			log: func(l *logger.Logger) {
				l.SetVerbose(true)
				l.Debug("Installs: psr/log:3.0.0")
			},
			goldenName: "debug_verbose",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lg, buf := newTestLogger(t)
			tt.log(lg)

			g := goldie.New(t)
			g.Assert(t, tt.goldenName, buf.Bytes())
		})
	}
}

func TestLogger_Error(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		goldenName string
	}{
		{name: "simple error", err: os.ErrPermission, goldenName: "error_simple"},
		{
			name:       "multiline error",
			err:        errors.New("Your requirements could not be resolved.\n  Problem 1"),
			goldenName: "error_multiline",
		},
		{
			name: "stdlib chain is not split",
			err: fmt.Errorf("failed to install: %w",
				fmt.Errorf("failed to link: %w", errors.New("permission denied"))),
			goldenName: "error_chain_stdlib",
		},
		{
			name: "annotated chain",
			err: &annotated{
				msg:  "failed to write lock file",
				meta: map[string]any{"path": "/repo/monorepo.lock"},
				cause: &annotated{
					msg:   "PSR-4 autoloading is incompatible with the target-dir property",
					meta:  map[string]any{"package": "acme/lib", "field": "autoload.psr-4"},
					cause: errors.New("root cause"),
				},
			},
			goldenName: "error_chain_metadata",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lg, buf := newTestLogger(t)
			lg.Error(tt.err)

			g := goldie.New(t)
			g.Assert(t, tt.goldenName, buf.Bytes())
		})
	}
}

func TestLogger_Error_Nil(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.Error(nil)

	assert.Empty(t, buf.String())
}

func TestLogger_ZerrChainContainsMessages(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.Error(zerr.Wrap(errors.New("connection refused"), "failed to read installed.json"))

	out := buf.String()
	assert.Contains(t, out, "failed to read installed.json")
	assert.Contains(t, out, "connection refused")
}

func TestLogger_SetJSON(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.SetJSON(true)
	lg.Error(&annotated{msg: "boom", meta: map[string]any{"package": "acme/app"}})
	lg.Warn("careful")

	out := buf.String()
	assert.Contains(t, out, `"level":"ERROR"`)
	assert.Contains(t, out, `"error":"boom"`)
	assert.Contains(t, out, `"package":"acme/app"`)
	assert.Contains(t, out, `"level":"WARN"`)
	assert.NotContains(t, out, "✗")
}

func TestLogger_FormatSwitching(t *testing.T) {
	lg, buf := newTestLogger(t)

	lg.Error(errors.New("pretty"))
	pretty := buf.String()
	buf.Reset()

	lg.SetJSON(true)
	lg.Error(errors.New("json"))
	jsonOut := buf.String()
	buf.Reset()

	lg.SetJSON(false)
	lg.SetPlain(true)
	lg.Error(errors.New("plain"))
	plain := buf.String()

	assert.Contains(t, pretty, "✗")
	assert.Contains(t, jsonOut, `"error"`)
	assert.Equal(t, "✗ Error: plain\n", plain)
}

func TestLogger_SetOutput_Nil(t *testing.T) {
	require.NotPanics(t, func() {
		lg := logger.New().(*logger.Logger)
		lg.SetOutput(nil)
	})
}

func TestLogger_ConcurrentAccess(t *testing.T) {
	lg, _ := newTestLogger(t)

	done := make(chan bool, 5)
	go func() { lg.Info("concurrent info"); done <- true }()
	go func() { lg.Warn("concurrent warn"); done <- true }()
	go func() { lg.Error(errors.New("concurrent error")); done <- true }()
	go func() { lg.SetJSON(true); done <- true }()
	go func() { lg.SetOutput(&bytes.Buffer{}); done <- true }()

	for range 5 {
		<-done
	}
}

func TestFormatErrorEntries(t *testing.T) {
	tests := []struct {
		name    string
		entries []logger.ErrorEntry
		want    string
	}{
		{name: "empty", entries: nil, want: ""},
		{name: "single", entries: []logger.ErrorEntry{{Message: "single error"}}, want: "Error: single error"},
		{
			name:    "causes",
			entries: []logger.ErrorEntry{{Message: "first"}, {Message: "second"}, {Message: "third"}},
			want:    "Error: first\n\n  Caused by:\n    → second\n    → third",
		},
		{
			name:    "sorted metadata",
			entries: []logger.ErrorEntry{{Message: "error", Metadata: map[string]any{"zebra": "z", "alpha": "a"}}},
			want:    "Error: error\n       alpha: a\n       zebra: z",
		},
		{
			name:    "multiline cause",
			entries: []logger.ErrorEntry{{Message: "main"}, {Message: "cause line1\ncause line2"}},
			want:    "Error: main\n\n  Caused by:\n    → cause line1\n      cause line2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, logger.FormatErrorEntries(tt.entries))
		})
	}
}

func TestCollectErrorEntries(t *testing.T) {
	assert.Empty(t, logger.CollectErrorEntries(nil))

	entries := logger.CollectErrorEntries(&annotated{
		msg:   "outer",
		meta:  map[string]any{"k": 1},
		cause: errors.New("inner"),
	})
	require.Len(t, entries, 2)
	assert.Equal(t, logger.ErrorEntry{Message: "outer", Metadata: map[string]any{"k": 1}}, entries[0])
	assert.Equal(t, logger.ErrorEntry{Message: "inner"}, entries[1])
}

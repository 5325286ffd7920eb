package config_test

import (
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/soochi-lab/soochi/pkg/cli/config"
)

func TestLoggerConfigure(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		format  string
		output  string
		wantErr bool
	}{
		{name: "defaults", level: "", format: "", output: ""},
		{name: "json to stderr", level: "debug", format: "json", output: "stderr"},
		{name: "invalid level", level: "verbose", format: "console", output: "stdout", wantErr: true},
		{name: "invalid format", level: "info", format: "xml", output: "stdout", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg config.Logger
			cfg.SetLogger(tt.level, tt.format, tt.output)

			closer, err := cfg.Configure()
			if tt.wantErr {
				gt.Error(t, err)
				return
			}

			gt.NoError(t, err).Required()
			closer()
		})
	}
}

func TestLoggerConfigureFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "soochi.log")

	var cfg config.Logger
	cfg.SetLogger("info", "json", path)

	closer, err := cfg.Configure()
	gt.NoError(t, err).Required()
	closer()
}

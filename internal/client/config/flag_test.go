package config

import (
	"flag"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{name: "Test1 OK", args: []string{"cmd", "-a", "http://h:9090", "-g", "h:50051", "-i", "10", "-t", "5", "-d", "x.db", "-m", "local", "-l", "debug"}, expectPanic: false,
			expected: &Config{
				ServerURL:           "http://h:9090",
				HealthEndpointAddr:  "h:50051",
				OnlineCheckInterval: 10 * time.Second,
				RequestTimeout:      5 * time.Second,
				CacheDSN:            "x.db",
				Backend:             BackendLocal,
				LogLevel:            "debug",
			}},
		{name: "Test2 incorrect check interval", args: []string{"cmd", "-a", "http://h:9090", "-i", "abc"}, expectPanic: true, expected: &Config{}},
		{name: "Test3 foreign flags ignored", args: []string{"cmd", "-c", "cfg.json", "-i", "7"}, expectPanic: false,
			expected: &Config{OnlineCheckInterval: 7 * time.Second}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.PanicOnError)

			os.Args = tt.args

			config := &Config{}

			if !tt.expectPanic {
				require.NotPanics(t, func() { parseFlags(config) })
				assert.Empty(t, cmp.Diff(config, tt.expected))
			} else {
				require.Panics(t, func() { parseFlags(config) })
			}
		})
	}
}

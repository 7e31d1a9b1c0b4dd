package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter_Levels(t *testing.T) {
	tests := []struct {
		env       string
		wantDebug bool
	}{
		{"dev", true},
		{"prod", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			var buf bytes.Buffer
			log := NewWithWriter(tt.env, &buf)
			log.Debug("debug line")
			log.Info("material added", "id", 7)

			lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
			if tt.wantDebug {
				require.Len(t, lines, 2)
			} else {
				require.Len(t, lines, 1)
			}

			var rec map[string]any
			require.NoError(t, json.Unmarshal(lines[len(lines)-1], &rec))
			assert.Equal(t, "material added", rec["msg"])
			assert.Equal(t, float64(7), rec["id"])
		})
	}
}

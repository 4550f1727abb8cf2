package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWriter(t *testing.T) {
	var buf bytes.Buffer
	NewWriter("prod", &buf).Debug("hidden")
	assert.Empty(t, buf.String(), "prod drops debug")

	NewWriter("prod", &buf).Info("shown", "k", "v")
	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "shown", line["msg"])

	buf.Reset()
	NewWriter("dev", &buf).Debug("visible")
	assert.Contains(t, buf.String(), "msg=visible")
}

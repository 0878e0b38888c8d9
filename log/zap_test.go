/*
 * MIT License
 *
 * Copyright (c) 2024-2026 Courier Authors
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package log

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, line []byte) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(line), &entry))
	return entry
}

func TestZap(t *testing.T) {
	t.Run("With Info level", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := New(InfoLevel, buffer)
		require.Equal(t, InfoLevel, logger.LogLevel())

		logger.Debug("hidden")
		assert.Zero(t, buffer.Len())

		logger.Infof("hello %s", "courier")
		require.NoError(t, logger.Flush())

		entry := decode(t, buffer.Bytes())
		assert.Equal(t, "hello courier", entry["msg"])
		assert.Equal(t, InfoLevel.String(), entry["level"])
	})

	t.Run("With Warn and Error levels", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := New(WarningLevel, buffer)
		assert.False(t, logger.Enabled(InfoLevel))
		assert.True(t, logger.Enabled(ErrorLevel))

		logger.Warn("careful")
		entry := decode(t, buffer.Bytes())
		assert.Equal(t, "careful", entry["msg"])
		assert.Equal(t, "warn", entry["level"])

		buffer.Reset()
		logger.Errorf("failed: %d", 42)
		entry = decode(t, buffer.Bytes())
		assert.Equal(t, "failed: 42", entry["msg"])
		assert.Contains(t, entry, "stacktrace")
	})

	t.Run("With Panic", func(t *testing.T) {
		logger := New(DebugLevel, new(bytes.Buffer))
		assert.Panics(t, func() { logger.Panic("boom") })
		assert.Panics(t, func() { logger.Panicf("boom %d", 1) })
	})

	t.Run("With structured fields", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := New(InfoLevel, buffer)
		logger.With("actor", "transmitter", 42, "skipped", "orphan").Info("started")

		entry := decode(t, buffer.Bytes())
		assert.Equal(t, "transmitter", entry["actor"])
		assert.Equal(t, "orphan", entry["_"])
		assert.NotContains(t, entry, "skipped")
	})

	t.Run("With no fields returns the same logger", func(t *testing.T) {
		logger := New(InfoLevel, new(bytes.Buffer))
		assert.Same(t, logger, logger.With())
		assert.Same(t, logger, logger.With(1, 2))
	})

	t.Run("With a file output", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "courier.log")
		file, err := os.Create(path)
		require.NoError(t, err)
		t.Cleanup(func() { _ = file.Close() })

		logger := New(DebugLevel, file)
		logger.Debug("buffered")
		require.NoError(t, logger.Flush())

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.True(t, strings.Contains(string(content), "buffered"))
		assert.Len(t, logger.LogOutput(), 1)
	})
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, WarningLevel, ParseLevel("warning"))
	assert.Equal(t, WarningLevel, ParseLevel(" warn "))
	assert.Equal(t, InvalidLevel, ParseLevel("loud"))
	assert.Equal(t, "invalid", InvalidLevel.String())
}

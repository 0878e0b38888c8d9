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

import "strings"

// Level defines the severity of a log entry
type Level int

const (
	// DebugLevel is used for verbose diagnostics
	DebugLevel Level = iota
	// InfoLevel is the default level
	InfoLevel
	// WarningLevel is used for recoverable anomalies
	WarningLevel
	// ErrorLevel is used for failures that need attention
	ErrorLevel
	// PanicLevel logs then panics
	PanicLevel
	// FatalLevel logs then exits the process
	FatalLevel
	// InvalidLevel is returned when the level cannot be determined
	InvalidLevel
)

var levelNames = map[Level]string{
	DebugLevel:   "debug",
	InfoLevel:    "info",
	WarningLevel: "warn",
	ErrorLevel:   "error",
	PanicLevel:   "panic",
	FatalLevel:   "fatal",
}

// String returns the lowercase name of the level as written by the encoder
func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return "invalid"
}

// ParseLevel converts a level name into a Level.
// Unknown names yield InvalidLevel.
func ParseLevel(name string) Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return DebugLevel
	case "info":
		return InfoLevel
	case "warn", "warning":
		return WarningLevel
	case "error":
		return ErrorLevel
	case "panic":
		return PanicLevel
	case "fatal":
		return FatalLevel
	default:
		return InvalidLevel
	}
}

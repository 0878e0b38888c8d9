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

package actor

import (
	"os"
	"runtime"
	"time"

	"github.com/tidewave/courier/log"
)

const (
	// DefaultThroughput is the number of messages an actor processes before yielding its worker
	DefaultThroughput = 64
	// DefaultShutdownTimeout bounds ActorSystem.Stop
	DefaultShutdownTimeout = 30 * time.Second
	// DefaultInitMaxRetries is the number of PreStart attempts
	DefaultInitMaxRetries = 5
	// DefaultInitTimeout bounds all the PreStart attempts of one actor
	DefaultInitTimeout = time.Second
	// DefaultWorkerIdleTimeout is how long an idle dispatcher worker is kept
	DefaultWorkerIdleTimeout = 5 * time.Second

	meterName = "github.com/tidewave/courier"
)

func defaultLogger() log.Logger {
	return log.New(log.ErrorLevel, os.Stderr)
}

func defaultDispatcher() Dispatcher {
	return NewPoolDispatcher(runtime.GOMAXPROCS(0), DefaultWorkerIdleTimeout)
}

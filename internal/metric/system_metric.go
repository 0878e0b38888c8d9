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

// Package metric declares the OpenTelemetry instruments of the runtime.
package metric

import (
	"fmt"

	"go.opentelemetry.io/otel/metric"
)

// SystemMetric holds the actor system instruments
type SystemMetric struct {
	actorsCount      metric.Int64ObservableCounter
	deadlettersCount metric.Int64ObservableCounter
	processedCount   metric.Int64ObservableCounter
	failuresCount    metric.Int64ObservableCounter
}

// NewSystemMetric creates the actor system instruments on meter
func NewSystemMetric(meter metric.Meter) (*SystemMetric, error) {
	m := new(SystemMetric)
	var err error

	if m.actorsCount, err = meter.Int64ObservableCounter(
		"courier.actors.count",
		metric.WithDescription("Total number of live actors"),
	); err != nil {
		return nil, fmt.Errorf("failed to create actorsCount instrument, %w", err)
	}

	if m.deadlettersCount, err = meter.Int64ObservableCounter(
		"courier.deadletters.count",
		metric.WithDescription("Total number of messages that could not be delivered"),
	); err != nil {
		return nil, fmt.Errorf("failed to create deadlettersCount instrument, %w", err)
	}

	if m.processedCount, err = meter.Int64ObservableCounter(
		"courier.messages.processed",
		metric.WithDescription("Total number of messages processed"),
	); err != nil {
		return nil, fmt.Errorf("failed to create processedCount instrument, %w", err)
	}

	if m.failuresCount, err = meter.Int64ObservableCounter(
		"courier.messages.failed",
		metric.WithDescription("Total number of failed processing steps"),
	); err != nil {
		return nil, fmt.Errorf("failed to create failuresCount instrument, %w", err)
	}

	return m, nil
}

// ActorsCount returns the live actors instrument
func (m *SystemMetric) ActorsCount() metric.Int64ObservableCounter {
	return m.actorsCount
}

// DeadlettersCount returns the dead letters instrument
func (m *SystemMetric) DeadlettersCount() metric.Int64ObservableCounter {
	return m.deadlettersCount
}

// ProcessedCount returns the processed messages instrument
func (m *SystemMetric) ProcessedCount() metric.Int64ObservableCounter {
	return m.processedCount
}

// FailuresCount returns the failed processing steps instrument
func (m *SystemMetric) FailuresCount() metric.Int64ObservableCounter {
	return m.failuresCount
}

// Instruments lists every instrument, for callback registration
func (m *SystemMetric) Instruments() []metric.Observable {
	return []metric.Observable{m.actorsCount, m.deadlettersCount, m.processedCount, m.failuresCount}
}

package telemetry

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestFromContextWithoutCollector(t *testing.T) {
	collector := FromContext(context.Background())

	// No-op collector should be safe to use.
	timer := collector.Start("operation")
	timer.Child("nested").End()
	timer.End()

	var buf bytes.Buffer
	collector.Report(&buf)
	assert.Equal(t, "", buf.String())
}

func TestFromContextRoundTrip(t *testing.T) {
	collector := NewTimingCollector()
	ctx := WithCollector(context.Background(), collector)

	assert.Equal[Collector](t, collector, FromContext(ctx))
}

func TestTimingCollectorReport(t *testing.T) {
	collector := NewTimingCollector()

	root := collector.Start("convert statement.xml")
	parse := root.Child("parse")
	parse.End()
	compile := root.Child("compile")
	compile.End()
	root.End()

	var buf bytes.Buffer
	collector.Report(&buf)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Equal(t, 3, len(lines))
	assert.True(t, strings.HasPrefix(lines[0], "convert statement.xml: "))
	assert.True(t, strings.HasPrefix(lines[1], "├─ parse: "))
	assert.True(t, strings.HasPrefix(lines[2], "└─ compile: "))
}

func TestTimingCollectorNesting(t *testing.T) {
	collector := NewTimingCollector()

	root := collector.Start("root")
	outer := collector.Start("outer")
	inner := collector.Start("inner")
	inner.End()
	outer.End()
	root.End()

	var buf bytes.Buffer
	collector.Report(&buf)

	output := buf.String()
	assert.True(t, strings.Contains(output, "└─ outer"))
	assert.True(t, strings.Contains(output, "   └─ inner"))
}

func TestEmptyCollectorReportsNothing(t *testing.T) {
	var buf bytes.Buffer
	NewTimingCollector().Report(&buf)
	assert.Equal(t, "", buf.String())
}

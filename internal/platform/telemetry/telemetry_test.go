// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package telemetry_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"github.com/taibuivan/bookshelf/internal/platform/telemetry"
)

func TestSetup_Disabled(t *testing.T) {
	before := otel.GetTracerProvider()

	shutdown, err := telemetry.Setup(context.Background(), "", "bookshelf", "test", slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil)))
	require.NoError(t, err)

	assert.NoError(t, shutdown(context.Background()))
	assert.Equal(t, before, otel.GetTracerProvider(), "global provider untouched")
}

func TestSetup_Enabled(t *testing.T) {
	before := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(before) })

	shutdown, err := telemetry.Setup(context.Background(), "http://127.0.0.1:4318", "bookshelf", "test", slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil)))
	require.NoError(t, err)
	assert.NotEqual(t, before, otel.GetTracerProvider())

	// No spans were recorded, so shutdown has nothing to send.
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, shutdown(ctx))
}

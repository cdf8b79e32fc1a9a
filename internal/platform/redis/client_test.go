// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package redis_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/bookshelf/internal/platform/constants"
	"github.com/taibuivan/bookshelf/internal/platform/redis"
)

func TestParseOptions(t *testing.T) {
	options, err := redis.ParseOptions("redis://:secret@cache:6380/3")
	require.NoError(t, err)

	assert.Equal(t, "cache:6380", options.Addr)
	assert.Equal(t, 3, options.DB)
	assert.Equal(t, "secret", options.Password)
	assert.Equal(t, "bookshelf-ratelimit", options.ClientName)
	assert.Less(t, options.ReadTimeout, constants.GlobalRequestTimeout)
	assert.Equal(t, 200*time.Millisecond, options.WriteTimeout)
}

func TestParseOptions_InvalidURL(t *testing.T) {
	_, err := redis.ParseOptions("http://cache:6379")
	assert.Error(t, err)
}

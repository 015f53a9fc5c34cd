package listener

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_SetDefaults(t *testing.T) {
	t.Parallel()

	t.Run("sets default address when empty", func(t *testing.T) {
		t.Parallel()

		cfg := &Config{}
		cfg.SetDefaults()

		assert.Equal(t, DefaultAddress, cfg.Address)
	})

	t.Run("sets default prefix when empty", func(t *testing.T) {
		t.Parallel()

		cfg := &Config{}

		assert.True(t, cfg.SetDefaults())
		assert.Equal(t, DefaultPrefix, cfg.Prefix)
	})

	t.Run("sets request limits when empty", func(t *testing.T) {
		t.Parallel()

		cfg := &Config{}
		cfg.SetDefaults()

		assert.Equal(t, DefaultRequestTimeout, cfg.RequestTimeout)
		assert.Equal(t, int64(DefaultMaxRequestSize), cfg.MaxRequestSize)
		assert.Zero(t, cfg.RateLimit)
		assert.Zero(t, cfg.Burst)
	})

	t.Run("derives burst from rate", func(t *testing.T) {
		t.Parallel()

		cfg := &Config{RateLimit: 2.5}
		cfg.SetDefaults()

		assert.Equal(t, 3, cfg.Burst)
	})

	t.Run("does not override existing values", func(t *testing.T) {
		t.Parallel()

		cfg := &Config{
			Address:        ":9090",
			Prefix:         "/config/",
			RequestTimeout: time.Second,
			MaxRequestSize: 512,
			RateLimit:      10,
			Burst:          4,
		}

		assert.False(t, cfg.SetDefaults())
		assert.Equal(t, ":9090", cfg.Address)
		assert.Equal(t, "/config/", cfg.Prefix)
		assert.Equal(t, time.Second, cfg.RequestTimeout)
		assert.Equal(t, int64(512), cfg.MaxRequestSize)
		assert.Equal(t, 4, cfg.Burst)
	})
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	t.Run("valid config", func(t *testing.T) {
		t.Parallel()

		cfg := &Config{Address: ":8080"}
		err := cfg.Validate()

		require.NoError(t, err)
	})

	t.Run("prefix without slashes", func(t *testing.T) {
		t.Parallel()

		for _, prefix := range []string{"config", "/config", "config/"} {
			cfg := &Config{Address: ":8080", Prefix: prefix}

			assert.ErrorIs(t, cfg.Validate(), ErrInvalidPrefix, prefix)
		}
	})

	t.Run("negative limits", func(t *testing.T) {
		t.Parallel()

		for _, cfg := range []Config{
			{Address: ":8080", RequestTimeout: -time.Second},
			{Address: ":8080", MaxRequestSize: -1},
			{Address: ":8080", RateLimit: -1},
			{Address: ":8080", Burst: -1},
		} {
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidLimit)
		}
	})

	t.Run("empty address", func(t *testing.T) {
		t.Parallel()

		cfg := &Config{}
		err := cfg.Validate()

		require.Error(t, err)
		assert.ErrorIs(t, err, ErrEmptyAddress)
	})
}

func TestBinder(t *testing.T) {
	t.Parallel()

	cfg := newConfiguration(t)

	var got Config

	err := Binder("/app/listener/").Bind(cfg, &got)
	require.NoError(t, err)

	assert.Equal(t, Config{
		Address:        "127.0.0.1:9090",
		Prefix:         "/config/",
		RequestTimeout: 5 * time.Second,
		MaxRequestSize: 8192,
		RateLimit:      50,
		Burst:          10,
		AllowedOrigins: []string{"dash.example.org", "ops.example.org"},
	}, got)
}

package transport

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/arloliu/ctpatch/internal/logging"
	"github.com/arloliu/ctpatch/internal/options"
)

const (
	// DefaultDelay is the pause between two messages sent to the synth.
	DefaultDelay = 100 * time.Millisecond
	// DefaultOpenTimeout bounds the retries of Open.
	DefaultOpenTimeout = 5 * time.Second
)

// Config holds device settings.
type Config struct {
	delay       time.Duration
	openTimeout time.Duration
	readSize    int
	logger      *zap.Logger
}

// Option configures a Device.
type Option = options.Option[*Config]

func newConfig(opts []Option) (*Config, error) {
	cfg := &Config{
		delay:       DefaultDelay,
		openTimeout: DefaultOpenTimeout,
		readSize:    1024,
		logger:      zap.NewNop(),
	}

	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}

// WithDelay sets the minimum pause between two sent messages. The synth drops
// patches that arrive faster than it can store them.
func WithDelay(d time.Duration) Option {
	return options.New(func(c *Config) error {
		if d < 0 {
			return fmt.Errorf("delay must not be negative, got %s", d)
		}
		c.delay = d

		return nil
	})
}

// WithOpenTimeout sets how long Open keeps retrying a port that cannot be
// opened yet. Zero means a single attempt.
func WithOpenTimeout(d time.Duration) Option {
	return options.New(func(c *Config) error {
		if d < 0 {
			return fmt.Errorf("open timeout must not be negative, got %s", d)
		}
		c.openTimeout = d

		return nil
	})
}

// WithLogger sets the logger. A nil logger disables logging.
func WithLogger(l *zap.Logger) Option {
	return options.NoError(func(c *Config) {
		c.logger = logging.OrNop(l)
	})
}

// File: pool/config.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package pool

import (
	"io"
	"math"

	"github.com/sirupsen/logrus"
)

// Config holds size-class and diagnostics settings shared by all pools.
type Config struct {
	MinClass      int                // smallest size class in slots, rounded up to a power of two
	MaxClass      int                // largest pooled size class; bigger rents are allocated exactly
	ClassCapacity int                // idle slices retained per class
	MaxRent       int                // hard ceiling on a single rent
	Logger        logrus.FieldLogger // diagnostics sink
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		MinClass:      4,
		MaxClass:      1 << 20,
		ClassCapacity: 1024,
		MaxRent:       math.MaxInt32,
		Logger:        discardLogger(),
	}
}

// Option customizes pool initialization.
type Option func(*Config)

// WithMinClass sets the smallest size class.
func WithMinClass(n int) Option {
	return func(c *Config) {
		c.MinClass = n
	}
}

// WithMaxClass sets the largest pooled size class.
func WithMaxClass(n int) Option {
	return func(c *Config) {
		c.MaxClass = n
	}
}

// WithClassCapacity sets how many idle slices each class retains.
func WithClassCapacity(n int) Option {
	return func(c *Config) {
		c.ClassCapacity = n
	}
}

// WithMaxRent caps the size of a single rent.
func WithMaxRent(n int) Option {
	return func(c *Config) {
		c.MaxRent = n
	}
}

// WithLogger routes pool diagnostics to l.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Config) {
		c.Logger = l
	}
}

func newConfig(opts []Option) *Config {
	cfg := DefaultConfig()
	for _, o := range opts {
		o(cfg)
	}
	cfg.normalize()
	return cfg
}

// normalize clamps settings into a usable range.
func (c *Config) normalize() {
	if c.MinClass < 1 {
		c.MinClass = 1
	}
	c.MinClass = roundPow2(c.MinClass)
	if c.MaxClass < c.MinClass {
		c.MaxClass = c.MinClass
	}
	c.MaxClass = roundPow2(c.MaxClass)
	if c.ClassCapacity < 0 {
		c.ClassCapacity = 0
	}
	if c.MaxRent < 0 {
		c.MaxRent = 0
	}
	if c.Logger == nil {
		c.Logger = discardLogger()
	}
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetLevel(logrus.WarnLevel)
	return l
}

// roundPow2 returns the smallest power of two >= n, saturating at the
// largest power of two an int can hold.
func roundPow2(n int) int {
	const top = math.MaxInt>>1 + 1
	if n <= 1 {
		return 1
	}
	if n >= top {
		return top
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

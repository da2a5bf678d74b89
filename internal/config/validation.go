package config

import "fmt"

func validate(c *Config) error {
	if c.Concurrency <= 0 || c.Concurrency > MaxConcurrency {
		return fmt.Errorf("concurrency must be between 1 and %d", MaxConcurrency)
	}
	if c.SiteTimeout <= 0 {
		return fmt.Errorf("site timeout must be > 0")
	}
	if c.GlobalTimeout < c.SiteTimeout {
		return fmt.Errorf("global timeout must be >= site timeout")
	}
	if c.MinMatchScore < 0 || c.MinMatchScore > 1 {
		return fmt.Errorf("min match score must be in [0,1]")
	}
	if c.EscalateHigh <= c.EscalateLow {
		return fmt.Errorf("escalation band is inverted")
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return fmt.Errorf("rate limit rps and burst must be > 0")
	}
	return nil
}

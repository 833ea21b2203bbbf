package config

import "fmt"

// Validate checks the generation settings and catalogues. Every error wraps ErrInvalid.
func (c *Config) Validate() error {
	lo, hi := c.GetDevicesPerUser()
	if lo > hi {
		return fmt.Errorf("%w: devices_min %d exceeds devices_max %d", ErrInvalid, lo, hi)
	}
	if len(c.GetNames()) == 0 {
		return fmt.Errorf("%w: empty name pool", ErrInvalid)
	}

	known := make(map[string]bool)
	for i, cat := range c.GetCategories() {
		if cat.Type == "" {
			return fmt.Errorf("%w: category %d has no type", ErrInvalid, i)
		}
		if known[cat.Type] {
			return fmt.Errorf("%w: duplicate category %q", ErrInvalid, cat.Type)
		}
		known[cat.Type] = true

		if !cat.Pattern.Valid() {
			return fmt.Errorf("%w: category %q has no usage pattern", ErrInvalid, cat.Type)
		}
		if cat.PowerMin <= 0 || cat.PowerMax < cat.PowerMin {
			return fmt.Errorf("%w: category %q has invalid power range %g-%g", ErrInvalid, cat.Type, cat.PowerMin, cat.PowerMax)
		}
		if len(cat.Names) == 0 || len(cat.Locations) == 0 {
			return fmt.Errorf("%w: category %q needs at least one name and location", ErrInvalid, cat.Type)
		}
	}

	for _, ev := range c.GetSecurityEvents() {
		for _, dev := range ev.Devices {
			if !known[dev] {
				return fmt.Errorf("%w: security event %q refers to unknown category %q", ErrInvalid, ev.Type, dev)
			}
		}
	}

	for _, fb := range c.GetFeedbackTypes() {
		if len(fb.Ratings) == 0 || len(fb.Contents) == 0 {
			return fmt.Errorf("%w: feedback type %q needs ratings and contents", ErrInvalid, fb.Type)
		}
	}

	return nil
}

package site

import (
	"fmt"
	"time"
	_ "time/tzdata"
)

// PresenceConfig describes the hours during which authors are shown as
// online, in the given time zone. CloseHour is exclusive.
type PresenceConfig struct {
	TimeZone  string
	OpenHour  int `validate:"gte=0,lte=23"`
	CloseHour int `validate:"gte=1,lte=24"`
}

func (c *PresenceConfig) setDefaults() {
	if c.TimeZone == "" {
		c.TimeZone = "Asia/Kolkata"
	}
	if c.OpenHour == 0 && c.CloseHour == 0 {
		c.OpenHour, c.CloseHour = 9, 21
	}
}

func (c PresenceConfig) validate() error {
	if c.OpenHour >= c.CloseHour {
		return fmt.Errorf("site: presence open hour %d must be before close hour %d", c.OpenHour, c.CloseHour)
	}
	if _, err := time.LoadLocation(c.TimeZone); err != nil {
		return fmt.Errorf("site: presence time zone: %w", err)
	}
	return nil
}

// Presence answers whether authors count as online at a given instant.
type Presence struct {
	loc         *time.Location
	open, close int
}

// NewPresence resolves the time zone of cfg.
func NewPresence(cfg PresenceConfig) (Presence, error) {
	cfg.setDefaults()
	if err := cfg.validate(); err != nil {
		return Presence{}, err
	}
	loc, _ := time.LoadLocation(cfg.TimeZone)
	return Presence{loc: loc, open: cfg.OpenHour, close: cfg.CloseHour}, nil
}

// Online reports whether the local hour of t falls in [open, close).
func (p Presence) Online(t time.Time) bool {
	loc := p.loc
	if loc == nil {
		loc = time.UTC
	}
	h := t.In(loc).Hour()
	return h >= p.open && h < p.close
}

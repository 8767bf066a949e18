package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidTimeBlock = errors.New("model: invalid time block")

// Extensions carries optional pass-through metadata. Nothing in the core derives from it.
type Extensions struct {
	Recurring *Recurrence
	TimeBlock *TimeBlock
	Grade     *Grade
	Academic  bool
}

func (e Extensions) Clone() Extensions {
	out := Extensions{Academic: e.Academic}
	if e.Recurring != nil {
		r := *e.Recurring
		if e.Recurring.Until != nil {
			u := *e.Recurring.Until
			r.Until = &u
		}
		out.Recurring = &r
	}
	if e.TimeBlock != nil {
		tb := *e.TimeBlock
		out.TimeBlock = &tb
	}
	if e.Grade != nil {
		g := *e.Grade
		out.Grade = &g
	}
	return out
}

func (e Extensions) Validate() error {
	if e.Recurring != nil {
		if err := e.Recurring.Validate(); err != nil {
			return err
		}
	}
	if e.TimeBlock != nil {
		if err := e.TimeBlock.Validate(); err != nil {
			return err
		}
	}
	if e.Grade != nil {
		if err := e.Grade.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// TimeBlock is a wall-clock window in 24h "15:04" form.
type TimeBlock struct {
	Start string
	End   string
}

func (b TimeBlock) Validate() error {
	start, err := time.Parse("15:04", b.Start)
	if err != nil {
		return fmt.Errorf("%w: start %q", ErrInvalidTimeBlock, b.Start)
	}
	end, err := time.Parse("15:04", b.End)
	if err != nil {
		return fmt.Errorf("%w: end %q", ErrInvalidTimeBlock, b.End)
	}
	if !end.After(start) {
		return fmt.Errorf("%w: end must be after start", ErrInvalidTimeBlock)
	}
	return nil
}

func (b TimeBlock) Minutes() int {
	start, err1 := time.Parse("15:04", b.Start)
	end, err2 := time.Parse("15:04", b.End)
	if err1 != nil || err2 != nil || !end.After(start) {
		return 0
	}
	return int(end.Sub(start) / time.Minute)
}

// Grade records an academic result for tasks flagged as academic work.
type Grade struct {
	Letter string
	Score  float64
	Max    float64
}

func (g Grade) Validate() error {
	if strings.TrimSpace(g.Letter) == "" && g.Max == 0 {
		return errors.New("model: grade needs a letter or a score")
	}
	if g.Max < 0 || g.Score < 0 || (g.Max > 0 && g.Score > g.Max) {
		return fmt.Errorf("model: grade score %.1f out of range 0-%.1f", g.Score, g.Max)
	}
	return nil
}

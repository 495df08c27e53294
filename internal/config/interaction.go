package config

import (
	"fmt"
	"time"
)

// Interaction holds the gesture and sheet timing constants. Distances are in
// pixels; the terminal frontend converts mouse cells with CellWidth.
type Interaction struct {
	DeadZone        int           `yaml:"dead_zone"`
	ActionThreshold int           `yaml:"action_threshold"`
	VisualCap       int           `yaml:"visual_cap"`
	Settle          time.Duration `yaml:"settle"`
	DeleteFade      time.Duration `yaml:"delete_fade"`
	CellWidth       int           `yaml:"cell_width"`
}

var DefaultInteraction = Interaction{
	DeadZone:        10,
	ActionThreshold: 60,
	VisualCap:       80,
	Settle:          300 * time.Millisecond,
	DeleteFade:      300 * time.Millisecond,
	CellWidth:       8,
}

func (i Interaction) Validate() error {
	if i.DeadZone < 0 {
		return fmt.Errorf("interaction.dead_zone must not be negative, got %d", i.DeadZone)
	}
	if i.ActionThreshold <= 0 {
		return fmt.Errorf("interaction.action_threshold must be positive, got %d", i.ActionThreshold)
	}
	if i.VisualCap <= 0 {
		return fmt.Errorf("interaction.visual_cap must be positive, got %d", i.VisualCap)
	}
	if i.Settle < 0 || i.DeleteFade < 0 {
		return fmt.Errorf("interaction delays must not be negative")
	}
	if i.CellWidth <= 0 {
		return fmt.Errorf("interaction.cell_width must be positive, got %d", i.CellWidth)
	}
	return nil
}

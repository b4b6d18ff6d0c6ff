package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which compact mode is used.
	LayoutCompactWidth = 90

	// DropdownWidth caps the suggestion panel width.
	DropdownWidth = 56
)

// Timing constants.
const (
	// CarouselInterval advances the hero banner.
	CarouselInterval = 5 * time.Second

	// PulseDuration is how long the cart badge stays lit after an add.
	PulseDuration = 900 * time.Millisecond

	// FetchTimeout bounds page loads.
	FetchTimeout = 5 * time.Second

	// DefaultUIInterval is the default snapshot refresh interval.
	DefaultUIInterval = time.Second
)

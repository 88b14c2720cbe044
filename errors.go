package argtable

import "errors"

// Table errors.
var (
	// ErrDuplicateSlot is returned when two entries of one namespace share a value.
	ErrDuplicateSlot = errors.New("argtable: duplicate slot in namespace")

	// ErrSlotGap is returned when a namespace does not cover 0..k-1.
	ErrSlotGap = errors.New("argtable: namespace slots are not contiguous from 0")

	// ErrDuplicateName is returned when two entries share a symbolic name.
	ErrDuplicateName = errors.New("argtable: duplicate binding name")

	// ErrNoGroup is returned by Group for kinds that are not bound through bind groups.
	ErrNoGroup = errors.New("argtable: kind has no bind group")
)

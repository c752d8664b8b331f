package logbook

import "errors"

// ErrDayNotFound is returned when the targeted date heading cannot be located.
var ErrDayNotFound = errors.New("day not found")

// ErrInvalidIndex indicates the caller referenced an entry index outside the day bounds.
var ErrInvalidIndex = errors.New("entry index out of range")

// ErrNoOpenEntry is returned when a duty period should be closed but none is running.
var ErrNoOpenEntry = errors.New("no duty status in progress")

// ErrOutOfOrder indicates a time that would end a period before it started.
var ErrOutOfOrder = errors.New("time is before the current duty period")

// ErrInvalidEntry indicates an entry that cannot be written, such as an unknown status.
var ErrInvalidEntry = errors.New("invalid entry")

// ErrInvalidMileage indicates negative miles or a total below the driving miles.
var ErrInvalidMileage = errors.New("invalid mileage")

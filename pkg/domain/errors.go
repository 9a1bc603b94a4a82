package domain

import "errors"

// ErrUnsupportedSeriesKind is returned when a series kind has no sonification equivalent.
var ErrUnsupportedSeriesKind = errors.New("unsupported series kind")

// ErrEmptyData signals that normalization produced no renderable points.
// It is a valid transient state for a chart that is still loading.
var ErrEmptyData = errors.New("no renderable data")

// ErrEngineConstruction is returned when the sonification engine cannot be built.
var ErrEngineConstruction = errors.New("sonification engine construction failed")

// ErrUnknownCategory is returned by engines for a category they do not hold.
var ErrUnknownCategory = errors.New("unknown category")

// ErrSnapshotNotFound is returned when no fingerprint is stored for a chart.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// ErrChartNotFound is returned when a chart identity is not registered.
var ErrChartNotFound = errors.New("chart not found")

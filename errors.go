package gd

import "errors"

var (
	// ErrPageNotFound is returned when a history index holds no page.
	ErrPageNotFound = errors.New("gd: page not found")

	// ErrPlotNotFound is returned when no stored page has the given id.
	ErrPlotNotFound = errors.New("gd: plot id not found")

	// ErrNoPage is returned when drawing before the first NewPage.
	ErrNoPage = errors.New("gd: no open page")
)

// Package measurement validates room measurement input and turns it into Room records.
package measurement

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/kendall-kelly/curtainry-specialist-api/models"
)

// WindowInput is one window as entered on site, in feet
type WindowInput struct {
	Width          float64 `json:"width"`
	Height         float64 `json:"height"`
	SameAsPrevious bool    `json:"same_as_previous"`
}

// Input is a room measurement as submitted by a consultant
type Input struct {
	RoomType        string        `json:"room_type"`
	NumberOfWindows int           `json:"number_of_windows"`
	Windows         []WindowInput `json:"windows"`
	Notes           string        `json:"notes"`
}

// ValidationError carries field-level messages for a rejected measurement
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, msg))
	}
	return "invalid measurement: " + strings.Join(parts, "; ")
}

// Validate checks the input without touching any order. Returns a *ValidationError.
func Validate(in Input) error {
	fields := make(map[string]string)

	if strings.TrimSpace(in.RoomType) == "" {
		fields["room_type"] = "Room type is required"
	}

	count := in.NumberOfWindows
	if count == 0 {
		count = len(in.Windows)
	}
	switch {
	case count < 1:
		fields["number_of_windows"] = "At least one window is required"
	case count != len(in.Windows):
		fields["number_of_windows"] = fmt.Sprintf("Expected %d windows, got %d", count, len(in.Windows))
	}

	for i, w := range in.Windows {
		key := fmt.Sprintf("windows[%d]", i)
		if w.SameAsPrevious {
			if i == 0 {
				fields[key] = "First window cannot copy a previous window"
			}
			continue
		}
		if w.Width <= 0 {
			fields[key+".width"] = "Valid width is required"
		}
		if w.Height <= 0 {
			fields[key+".height"] = "Valid height is required"
		}
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// Build validates the input and computes the room record for an order priced at
// pricePerMeter. Same-as-previous windows copy the preceding window's values.
func Build(in Input, pricePerMeter float64) (*models.Room, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}

	room := &models.Room{
		RoomType:        strings.TrimSpace(in.RoomType),
		NumberOfWindows: len(in.Windows),
		Windows:         make([]models.Window, 0, len(in.Windows)),
		Notes:           in.Notes,
	}

	total := decimal.Zero
	var prevWidth, prevHeight float64
	for i, w := range in.Windows {
		width, height := w.Width, w.Height
		if w.SameAsPrevious {
			width, height = prevWidth, prevHeight
		}

		area := decimal.NewFromFloat(width).Mul(decimal.NewFromFloat(height))
		total = total.Add(area)

		room.Windows = append(room.Windows, models.Window{
			Position:       i + 1,
			Width:          width,
			Height:         height,
			Area:           area.InexactFloat64(),
			SameAsPrevious: w.SameAsPrevious,
		})
		prevWidth, prevHeight = width, height
	}

	room.TotalArea = total.InexactFloat64()
	room.EstimatedCost = total.Mul(decimal.NewFromFloat(pricePerMeter)).InexactFloat64()

	return room, nil
}

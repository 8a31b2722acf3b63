package measurement

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_SingleWindow(t *testing.T) {
	room, err := Build(Input{
		RoomType: "Living Room",
		Windows:  []WindowInput{{Width: 8, Height: 7}},
	}, 180)
	require.NoError(t, err)

	assert.Equal(t, "Living Room", room.RoomType)
	assert.Equal(t, 1, room.NumberOfWindows)
	require.Len(t, room.Windows, 1)
	assert.Equal(t, 56.0, room.Windows[0].Area)
	assert.Equal(t, 1, room.Windows[0].Position)
	assert.Equal(t, 56.0, room.TotalArea)
	assert.Equal(t, 56.0*180, room.EstimatedCost)
}

func TestBuild_TotalIsSumOfWindowAreas(t *testing.T) {
	room, err := Build(Input{
		RoomType:        "Master Bedroom",
		NumberOfWindows: 3,
		Windows: []WindowInput{
			{Width: 4.5, Height: 6},
			{Width: 3, Height: 5.5},
			{Width: 2.2, Height: 3},
		},
	}, 120)
	require.NoError(t, err)

	assert.Equal(t, 27.0, room.Windows[0].Area)
	assert.Equal(t, 16.5, room.Windows[1].Area)
	assert.InDelta(t, 6.6, room.Windows[2].Area, 1e-9)
	assert.InDelta(t, 50.1, room.TotalArea, 1e-9)
	assert.InDelta(t, 50.1*120, room.EstimatedCost, 1e-9)
}

func TestBuild_SameAsPreviousCopiesByValue(t *testing.T) {
	in := Input{
		RoomType: "Kitchen",
		Windows: []WindowInput{
			{Width: 5, Height: 4},
			{SameAsPrevious: true},
			{SameAsPrevious: true, Width: 99, Height: 99},
		},
	}
	room, err := Build(in, 100)
	require.NoError(t, err)

	for _, w := range room.Windows {
		assert.Equal(t, 5.0, w.Width)
		assert.Equal(t, 4.0, w.Height)
		assert.Equal(t, 20.0, w.Area)
	}
	assert.True(t, room.Windows[1].SameAsPrevious)
	assert.Equal(t, 60.0, room.TotalArea)

	// Editing the input afterwards does not reach the built room
	in.Windows[0].Width = 10
	assert.Equal(t, 5.0, room.Windows[1].Width)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name       string
		input      Input
		wantFields []string
	}{
		{
			name:       "missing room type",
			input:      Input{Windows: []WindowInput{{Width: 1, Height: 1}}},
			wantFields: []string{"room_type"},
		},
		{
			name:       "no windows",
			input:      Input{RoomType: "Kitchen"},
			wantFields: []string{"number_of_windows"},
		},
		{
			name:       "count mismatch",
			input:      Input{RoomType: "Kitchen", NumberOfWindows: 2, Windows: []WindowInput{{Width: 1, Height: 1}}},
			wantFields: []string{"number_of_windows"},
		},
		{
			name:       "zero width",
			input:      Input{RoomType: "Kitchen", Windows: []WindowInput{{Width: 0, Height: 1}}},
			wantFields: []string{"windows[0].width"},
		},
		{
			name:       "negative height",
			input:      Input{RoomType: "Kitchen", Windows: []WindowInput{{Width: 2, Height: -1}}},
			wantFields: []string{"windows[0].height"},
		},
		{
			name:       "first window same as previous",
			input:      Input{RoomType: "Kitchen", Windows: []WindowInput{{SameAsPrevious: true}}},
			wantFields: []string{"windows[0]"},
		},
		{
			name:       "blank room type and bad second window",
			input:      Input{RoomType: "  ", Windows: []WindowInput{{Width: 1, Height: 1}, {Width: 0, Height: 0}}},
			wantFields: []string{"room_type", "windows[1].width", "windows[1].height"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.input)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Len(t, verr.Fields, len(tt.wantFields))
			for _, f := range tt.wantFields {
				assert.Contains(t, verr.Fields, f)
			}
		})
	}
}

func TestBuild_InvalidInputReturnsNoRoom(t *testing.T) {
	room, err := Build(Input{}, 100)
	assert.Nil(t, room)
	assert.Error(t, err)
}

func TestRoomTypes(t *testing.T) {
	assert.Contains(t, RoomTypes, "Living Room")
	assert.Equal(t, "Other", RoomTypes[len(RoomTypes)-1])
}

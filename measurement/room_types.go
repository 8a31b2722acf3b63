package measurement

// RoomTypes lists the room labels offered when capturing measurements
var RoomTypes = []string{
	"Living Room",
	"Master Bedroom",
	"Bedroom 1",
	"Bedroom 2",
	"Bedroom 3",
	"Guest Bedroom",
	"Children's Room",
	"Baby Room/Nursery",
	"Kitchen",
	"Dining Room",
	"Family Room",
	"Drawing Room",
	"Study Room/Office",
	"Home Office",
	"Library",
	"Prayer Room/Pooja Room",
	"Bathroom",
	"Master Bathroom",
	"Guest Bathroom",
	"Powder Room",
	"Balcony",
	"Terrace",
	"Patio",
	"Staircase",
	"Hallway/Corridor",
	"Entrance/Foyer",
	"Utility Room",
	"Laundry Room",
	"Storage Room",
	"Basement",
	"Attic",
	"Garage",
	"Guest Room",
	"Entertainment Room",
	"Game Room",
	"Gym/Exercise Room",
	"Music Room",
	"Art Studio",
	"Workshop",
	"Other",
}

package model

type (
	// A RoomType represents a database record.
	RoomType struct {
		Base `msgpack:",inline" storm:"inline"`

		Name        string `json:"name"        msgpack:"name" storm:"unique"`
		Description string `json:"description" msgpack:"description"`
	}

	// A Room represents a database record.
	Room struct {
		Base `msgpack:",inline" storm:"inline"`

		Number     string `json:"room_no"      msgpack:"room_no"      storm:"unique"`
		RoomTypeID string `json:"room_type_id" msgpack:"room_type_id" storm:"index"`
		Available  bool   `json:"available"    msgpack:"available"`
	}
)

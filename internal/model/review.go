package model

// A Review represents a database record.
type Review struct {
	Base `msgpack:",inline" storm:"inline"`

	UserID  string `json:"user_id" msgpack:"user_id" storm:"index"`
	Author  string `json:"author"  msgpack:"author"`
	Rating  int    `json:"rating"  msgpack:"rating"`
	Message string `json:"message" msgpack:"message"`
}

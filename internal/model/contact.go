package model

// A Contact represents a database record.
type Contact struct {
	Base `msgpack:",inline" storm:"inline"`

	FirstName string `json:"first_name" msgpack:"first_name"`
	LastName  string `json:"last_name"  msgpack:"last_name"`
	Email     string `json:"email"      msgpack:"email" storm:"index"`
	Message   string `json:"message"    msgpack:"message"`
}

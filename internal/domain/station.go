package domain

type Station struct {
	ID        int32   `json:"id"`
	Name      string  `json:"name"`
	Address   string  `json:"address"`
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
	Phone     string  `json:"phone,omitempty"`
	Capacity  int32   `json:"capacity"`
	Active    bool    `json:"active"`
	CreatedOn string  `json:"created_on"`
	UpdatedOn string  `json:"updated_on"`
}

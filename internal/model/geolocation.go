package model

// Country pairs the client-facing numeric country code with its ISO
// acronym.
type Country struct {
	Code    uint8  `json:"code"`
	Acronym string `json:"acronym"`
}

// Geolocation is the resolved location of a client connection.
type Geolocation struct {
	Longitude float32 `json:"long"`
	Latitude  float32 `json:"lat"`
	Country   Country `json:"country"`
	IP        string  `json:"ip"`
}

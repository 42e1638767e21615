package reddit

import "github.com/NagyLevin/Redditscrape/internal/models"

// Thing kinds used by the listing API.
const (
	kindComment = "t1"
	kindLink    = "t3"
	kindMore    = "more"
)

// thing is one typed envelope in a listing.
type thing struct {
	Kind string           `json:"kind"`
	Data models.RawRecord `json:"data"`
}

// listing is the standard Reddit listing envelope.
type listing struct {
	Kind string `json:"kind"`
	Data struct {
		After    string  `json:"after"`
		Before   string  `json:"before"`
		Children []thing `json:"children"`
	} `json:"data"`
}

// LinkFullname returns the fullname of a submission id, e.g. "t3_abc123".
func LinkFullname(id string) string {
	return kindLink + "_" + id
}

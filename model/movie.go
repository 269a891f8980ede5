// Package model holds the entities served by the booking backend.
package model

type Movie struct {
	MovieID        int64  `json:"movieId,omitempty"`
	Name           string `json:"name" validate:"required"`
	Language       string `json:"language" validate:"required"`
	Genre          string `json:"genre" validate:"required"`
	TargetAudience string `json:"targetAudience" validate:"required"`
	PosterURL      string `json:"posterUrl,omitempty" validate:"omitempty,url"`
}

type Theatre struct {
	TheatreID     int64  `json:"theatreId,omitempty"`
	NameOfTheatre string `json:"nameOfTheatre" validate:"required"`
	NoOfScreens   int    `json:"noOfScreens" validate:"min=1"`
	Area          string `json:"area" validate:"required"`
}

type Screen struct {
	ScreenID        int64    `json:"screenId,omitempty"`
	NoOfSeatsGold   int      `json:"noOfSeatsGold" validate:"min=0"`
	NoOfSeatsSilver int      `json:"noOfSeatsSilver" validate:"min=0"`
	Theatre         *Theatre `json:"theatre,omitempty" validate:"-"`
}

// TheatreName is empty when the screen carries no theatre.
func (s Screen) TheatreName() string {
	if s.Theatre == nil {
		return ""
	}
	return s.Theatre.NameOfTheatre
}

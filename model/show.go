package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

type Show struct {
	ShowID               int64     `json:"showId,omitempty"`
	ShowDate             string    `json:"showDate" validate:"required,datetime=2006-01-02"`
	ShowTime             ClockTime `json:"showTime" validate:"required"`
	SeatsRemainingGold   int       `json:"seatsRemainingGold" validate:"min=0"`
	SeatsRemainingSilver int       `json:"seatsRemainingSilver" validate:"min=0"`
	ClassCostGold        float64   `json:"classCostGold" validate:"min=0"`
	ClassCostSilver      float64   `json:"classCostSilver" validate:"min=0"`
	Screen               *Screen   `json:"screen,omitempty" validate:"-"`
	Movie                *Movie    `json:"movie,omitempty" validate:"-"`

	// Flat references used when a show is created
	ScreenID int64 `json:"screenId,omitempty"`
	MovieID  int64 `json:"movieId,omitempty"`
}

func (s Show) MovieName() string {
	if s.Movie == nil {
		return ""
	}
	return s.Movie.Name
}

func (s Show) TheatreName() string {
	if s.Screen == nil {
		return ""
	}
	return s.Screen.TheatreName()
}

// ClockTime is a time of day in HH:mm:ss form. The backend serves it either
// as a string or as an object with hour, minute and second fields.
type ClockTime string

func (c *ClockTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*c = ClockTime(s)
		return nil
	}

	var parts struct {
		Hour   int `json:"hour"`
		Minute int `json:"minute"`
		Second int `json:"second"`
	}
	if err := json.Unmarshal(data, &parts); err != nil {
		return fmt.Errorf("[model ClockTime] unsupported value %s: %w", string(data), err)
	}
	*c = ClockTime(fmt.Sprintf("%02d:%02d:%02d", parts.Hour, parts.Minute, parts.Second))
	return nil
}

// HourMinute drops the seconds, "18:30:00" becomes "18:30".
func (c ClockTime) HourMinute() string {
	parts := strings.Split(string(c), ":")
	if len(parts) < 2 {
		return string(c)
	}
	return parts[0] + ":" + parts[1]
}

package domain

import (
	"context"
	"time"
)

type Movie struct {
	ID       int
	Title    string
	Language string
	Runtime  int
}

type Theatre struct {
	ID   int
	Name string
	City string
}

type Screen struct {
	ID        int
	TheatreID int
	Name      string
}

// Show is one scheduled screening of a movie on a screen. Scheduling a show
// creates one ShowSeat per physical seat of the screen; retiring it removes
// them.
type Show struct {
	ID        int
	MovieID   int
	ScreenID  int
	StartTime time.Time
}

type ShowRepository interface {
	GetById(ctx context.Context, id int) (*Show, error)
	GetShowIds(ctx context.Context) ([]int, error)
	GetShowSeats(ctx context.Context, showID int) ([]ShowSeat, error)
}

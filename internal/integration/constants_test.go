package integration_test

const (
	// User related constants
	TestUserId        = 1
	TestUserFirstName = "John"
	TestUserLastName  = "Doe"
	TestUserEmail     = "test@example.com"

	// Catalog related constants
	TestMovieTitle    = "Test Movie"
	TestMovieLanguage = "English"
	TestMovieRuntime  = 120
	TestTheatreName   = "Test Theatre"
	TestTheatreCity   = "Mumbai"
	TestScreenName    = "Screen 1"

	TestShowId = 1

	// Prices in paise
	TestStandardPrice = 25000
	TestVIPPrice      = 50000
)

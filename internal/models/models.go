package models

// MigrateModels lists every table owned by the service.
var MigrateModels = []any{
	&Booking{},
	&Venue{},
	&User{},
}

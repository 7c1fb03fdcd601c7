package database

import "errors"

// ErrInvalidDatabaseURL indicates the provided database URL is empty or could not be parsed.
var ErrInvalidDatabaseURL = errors.New("invalid database URL")

// ErrConnectionFailed indicates a connection to the database could not be established.
var ErrConnectionFailed = errors.New("database connection failed")

// ErrUnsupportedDriver indicates the driver name is not one this tool registers.
var ErrUnsupportedDriver = errors.New("unsupported database driver")

// Package database manages the connection to the product catalog database.
//
// The catalog lives in MySQL in production. The sqlite driver is wired in as
// well so repository tests can run against an in-memory database with the
// same gorm API.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    return err
//	}
package database

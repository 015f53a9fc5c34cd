// Package bind copies configuration values onto Go structs through an explicit mapping
// table. Every Field names a search path and a decode function; no struct tags or
// reflection are involved.
//
//	type Database struct {
//	    Host     string
//	    Port     int
//	    Password string
//	}
//
//	binder := bind.NewBinder(
//	    bind.Field[Database]{Path: "/app/db/host", Required: true, Decode: bind.String(func(d *Database, v string) { d.Host = v })},
//	    bind.Field[Database]{Path: "/app/db/port", Decode: bind.Int(func(d *Database, v int) { d.Port = v })},
//	    bind.Field[Database]{Path: "/app/db/password", Decode: bind.String(func(d *Database, v string) { d.Password = v })},
//	).WithDecrypter(cipher)
//
//	var db Database
//	err := binder.Bind(cfg, &db)
//
// Provider wraps a binder in an Fx-friendly constructor that also applies the
// config.Defaulter and config.Validator contracts of the target.
package bind

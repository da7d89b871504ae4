// Package config reads the render worker and CLI settings from the environment.
//
// Every field has a default suitable for local development; Load fails fast when
// a value is out of range (for example an unknown PDF page size). The CLI uses the
// loaded values as flag defaults.
//
//	cfg, err := config.Load()
//	if err != nil {
//	    return err
//	}
//	client := redis.NewClient(cfg.RedisOptions())
package config

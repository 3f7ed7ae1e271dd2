// Package db selects the concrete store driver from the profile.
package db

import (
	"github.com/pkg/errors"

	"github.com/hrygo/designgenie/internal/profile"
	"github.com/hrygo/designgenie/store"
	"github.com/hrygo/designgenie/store/db/memory"
	"github.com/hrygo/designgenie/store/db/redis"
)

// NewDriver creates a new store driver based on the profile.
func NewDriver(profile *profile.Profile) (store.Driver, error) {
	switch profile.Driver {
	case "redis":
		return redis.NewDB(profile), nil
	case "memory":
		return memory.NewDB(), nil
	default:
		return nil, errors.Errorf("unknown store driver: %q", profile.Driver)
	}
}

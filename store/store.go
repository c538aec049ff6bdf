// Package store is the entity access layer: typed CRUD and realtime
// subscribe operations over Postgres and Redis, one method set per entity.
// Nothing above this package touches gorm or the Redis client directly.
package store

import (
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

type Store struct {
	db  *gorm.DB
	rdb *redis.Client
}

func New(db *gorm.DB, rdb *redis.Client) *Store {
	return &Store{db: db, rdb: rdb}
}

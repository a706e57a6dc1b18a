package models

import "time"

// KVDocument model - MongoDB backend for persisted client state
type KVDocument struct {
	Key       string    `bson:"_id" json:"key"`
	Value     []byte    `bson:"value" json:"value"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

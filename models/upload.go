package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Upload stores a binary payload keyed by (bucket, key). It stands in for an
// object store; the bytes live in the document itself.
type Upload struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Bucket      string             `json:"bucket" bson:"bucket"`
	Key         string             `json:"key" bson:"key"`
	Filename    string             `json:"filename,omitempty" bson:"filename,omitempty"`
	ContentType string             `json:"content_type" bson:"content_type"`
	Size        int64              `json:"size" bson:"size"`
	Data        []byte             `json:"-" bson:"data"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
}

// Path is the public fetch path for the upload.
func (u Upload) Path() string {
	return u.Bucket + "/" + u.Key
}

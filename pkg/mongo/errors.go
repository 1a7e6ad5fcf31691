package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/mongo"
)

var (
	ErrFailedToConnectToMongo = errors.New("mongo: connect failed")
	ErrHealthcheckFailed      = errors.New("mongo: primary unreachable")
	ErrIndexCreation          = errors.New("mongo: index creation failed")
)

// IsDuplicateKey reports a unique index violation.
func IsDuplicateKey(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}

// IsTimeout reports driver and context deadline errors alike.
func IsTimeout(err error) bool {
	return mongo.IsTimeout(err) || errors.Is(err, context.DeadlineExceeded)
}

func IsNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}

// Package mongo connects to MongoDB and bundles the small helpers the stores need:
// index bootstrap, duplicate-key detection and a readiness probe.
//
// # Usage
//
//	db, err := mongo.NewWithDatabase(ctx, cfg)
//	if err != nil {
//		return err
//	}
//
//	err = mongo.EnsureIndexes(ctx, db.Collection("accounts"),
//		mongo.UniqueIndex("email"),
//	)
//
// Connection attempts are retried RetryAttempts times, RetryInterval apart, and stop early
// when ctx is cancelled. Errors are joined with ErrFailedToConnectToMongo so callers can
// match them with errors.Is.
package mongo

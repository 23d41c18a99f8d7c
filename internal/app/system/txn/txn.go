// Package txn runs multi-document Mongo work inside a transaction when the
// server supports one (replica set / mongos), and falls back to plain
// sequential execution on standalone servers, where the unique indexes on
// relationship collections act as the idempotency guard instead.
package txn

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
)

// Server error codes that indicate transactions are unavailable.
//
//	20  IllegalOperation (standalone server)
//	51  no such command / sessions unsupported
//	263 OperationNotSupportedInTransaction
var notSupportedCodes = map[int32]bool{20: true, 51: true, 263: true}

// keyword pairs that identify "transactions unsupported" in message text,
// for drivers/proxies that don't surface a CommandError code.
var notSupportedPhrases = [][2]string{
	{"transaction", "replica set"},
	{"transaction", "session"},
	{"transaction", "illegal operation"},
	{"session", "not supported"},
}

// IsNotSupported reports whether err indicates the server cannot run
// multi-document transactions (typically a standalone mongod).
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && notSupportedCodes[ce.Code] {
		return true
	}
	s := strings.ToLower(err.Error())
	for _, pair := range notSupportedPhrases {
		if strings.Contains(s, pair[0]) && strings.Contains(s, pair[1]) {
			return true
		}
	}
	return false
}

// Run executes fn transactionally when possible. The fn receives a context
// bound to the session; on standalone servers it receives ctx unchanged and
// runs without transaction guarantees.
//
// fn must be safe to retry: WithTransaction may re-invoke it on transient
// transaction errors.
func Run(ctx context.Context, client *mongo.Client, fn func(ctx context.Context) error) error {
	sess, err := client.StartSession()
	if err != nil {
		if IsNotSupported(err) {
			return fn(ctx)
		}
		return err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	if err != nil && IsNotSupported(err) {
		return fn(ctx)
	}
	return err
}

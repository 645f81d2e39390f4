// internal/app/system/txn/txn.go

// Package txn wraps multi-document Mongo transactions with a fallback for
// servers that do not support them (standalone, no replica set). The
// project cascade delete runs through here: all-or-nothing when the server
// can do it, ordered best-effort otherwise.
package txn

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
)

// WithTransaction runs fn inside a transaction when the server supports it.
// When transactions are unsupported, fn runs once outside a transaction —
// the operations inside must already be ordered to satisfy referential
// constraints.
func WithTransaction(ctx context.Context, client *mongo.Client, fn func(ctx context.Context) error) error {
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

// IsNotSupported reports whether err indicates the server cannot run
// multi-document transactions (standalone deployments, old servers).
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}

	if ce, ok := err.(mongo.CommandError); ok {
		// 20 IllegalOperation, 51 NoSuchTransaction precondition,
		// 263 OperationNotSupportedInTransaction.
		switch ce.Code {
		case 20, 51, 263:
			return true
		}
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "transaction") && strings.Contains(msg, "replica set") {
		return true
	}
	if strings.Contains(msg, "session") && strings.Contains(msg, "not supported") {
		return true
	}
	return false
}

package txn

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"
)

func TestIsNotSupported(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil error", nil, false},
		{"unrelated error", errors.New("connection reset by peer"), false},
		{"illegal operation code", mongo.CommandError{Code: 20, Message: "Transaction numbers are only allowed on a replica set member"}, true},
		{"no such command code", mongo.CommandError{Code: 51, Message: "Illegal operation"}, true},
		{"not supported in transaction code", mongo.CommandError{Code: 263, Message: "Cannot run in a multi-document transaction"}, true},
		{"unrelated command error code", mongo.CommandError{Code: 11000, Message: "duplicate key"}, false},
		{"standalone message without code", errors.New("transaction failed because this is not a replica set member"), true},
		{"sessions unsupported message", errors.New("session operations are not supported on this server"), true},
		{"transaction session message", errors.New("cannot start transaction in current session state"), true},
		{"illegal operation message", errors.New("illegal operation during transaction"), true},
		{"single keyword is not enough", errors.New("transaction failed"), false},
		{"message match is case insensitive", errors.New("TRANSACTION numbers require a REPLICA SET"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNotSupported(tt.err); got != tt.want {
				t.Errorf("IsNotSupported(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestIsNotSupportedWrappedError(t *testing.T) {
	wrapped := errors.Join(errors.New("toggle follow"), mongo.CommandError{Code: 20, Message: "standalone"})
	if !IsNotSupported(wrapped) {
		t.Error("expected wrapped CommandError to be detected")
	}
}

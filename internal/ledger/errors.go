package ledger

import "errors"

// ErrUnknownQueryKind indicates a request for a query kind no dialect defines.
// It signals a programming error and should not be retried.
var ErrUnknownQueryKind = errors.New("unknown ledger query kind")

// ErrQueryExecution indicates the connection failed to run a ledger statement.
// The driver error is wrapped alongside it.
var ErrQueryExecution = errors.New("ledger query failed")

// ErrInvalidTableName indicates the ledger table name is empty or not a plain SQL identifier.
var ErrInvalidTableName = errors.New("invalid ledger table name")

// ErrNilConn indicates the ledger was constructed without a connection.
var ErrNilConn = errors.New("ledger connection is nil")

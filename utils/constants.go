package utils

import "time"

// IdempotencyPrefix is the prefix used for Redis webhook idempotency keys.
const IdempotencyPrefix = "webhook:event:"

// IdempotencyTTL bounds how long a processed event id is remembered in Redis. The database
// ledger remembers it forever.
const IdempotencyTTL = 72 * time.Hour

// DateLayout is the wire format of calendar dates such as check-in and check-out.
const DateLayout = "2006-01-02"

// UserIDKey is the gin context key holding the authenticated subject.
const UserIDKey = "userID"

// Package domain defines the core business entities of the library:
// books, users, and the loan history ledger.
package domain

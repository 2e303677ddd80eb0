// Package service provides application-level services for the book
// catalogue, the loan ledger, and user management.
package service

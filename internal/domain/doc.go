// Package domain defines the users and tasks of the API, their closed
// enumerations (roles, statuses, priorities) and the validation rules that
// hold regardless of storage or transport.
package domain

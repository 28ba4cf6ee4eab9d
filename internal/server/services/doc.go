// Package services contains server-side business logic: UserService handles
// registration, login and bearer-token authentication; TaskService handles
// owner-scoped task operations. Each operation borrows one pooled connection
// for its whole duration.
package services

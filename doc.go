// Package factoryd is the domain package for the factory resource
// backend. It holds the shared types (Factory, Entity, User, Scope)
// and the service interfaces implemented under tenant, authorizer and
// session.
package factoryd

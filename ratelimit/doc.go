// Package ratelimit provides sliding-window request limiting keyed by
// an arbitrary identifier (user ID, IP, API key). Window keeps state
// in process memory and suits single-instance deployments; RedisLimiter
// shares the window across replicas through a redis sorted set and
// fails open when redis is unreachable, trading strictness for
// availability.
package ratelimit

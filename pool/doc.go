// Package pool
// Author: momentics <momentics@gmail.com>
//
// Reusable typed storage for transient builders.
// ClassPool keeps idle []T per power-of-two size class in lock-free queues.
// SyncPool does the same over sync.Pool. Tracking wraps either one and records
// rent/return traffic for leak and double-return auditing.
// Every pool is constructed and passed explicitly; there is no process-wide default.
package pool

// File: internal/concurrency/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Lock-free primitives backing the pool free lists. Safe for any number
// of concurrent producers and consumers.
package concurrency

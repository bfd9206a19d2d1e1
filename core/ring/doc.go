// Package ring implements a bounded circular buffer of owned element handles.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// A Buffer owns every element written into it until the element is read out
// or released through the configured allocator. On overflow the element at
// head is evicted and, under the default OverwriteHead policy, the new element
// takes its slot without moving head, so the next Read returns the newest
// element. DropOldest advances head instead and keeps FIFO order.
//
// Buffers are not safe for concurrent use.
package ring

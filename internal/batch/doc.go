// Package batch drives a bulk conversion run: an ordered list of items is
// converted one at a time against a conversion gateway, with per-item status
// tracking, progress notifications and isolated failure handling. A failed
// item never aborts the run; the successful results come out in input order,
// ready for packaging.
package batch

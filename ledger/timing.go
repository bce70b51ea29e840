/*
timing.go - Uniform timing hook around mutating service operations

PURPOSE:
  Every mutating operation on the Service reports its name, duration, and
  outcome through a single hook. Instrumentation (timing logs, metrics) is
  attached once at construction instead of being hand-wrapped per call site.

USAGE:
  svc := ledger.NewService(accounts, categories, operations,
      ledger.WithTimingHook(ledger.LogTimingHook))
*/
package ledger

import (
	"log"
	"time"
)

// TimingHook observes one completed mutating operation.
type TimingHook func(op string, took time.Duration, err error)

// LogTimingHook logs each operation with the standard logger.
func LogTimingHook(op string, took time.Duration, err error) {
	if err != nil {
		log.Printf("[Ledger] %s failed after %s: %v", op, took, err)
		return
	}
	log.Printf("[Ledger] %s executed in %s", op, took)
}

// observe invokes the configured hook, if any. Meant to be deferred with a
// pointer to the named error return.
func (s *Service) observe(op string, start time.Time, err *error) {
	if s.timing == nil {
		return
	}
	s.timing(op, time.Since(start), *err)
}

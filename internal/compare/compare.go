package compare

import (
	"github.com/faanross/zoneverify/internal/resolver"
	"github.com/miekg/dns"
)

// Outcome is the result of checking one zone record against the server's
// answers. Exactly one of Actual or Failure is meaningful: Actual carries the
// answer shown to the user (the matching record on a match, otherwise the
// last candidate inspected), Failure carries the reason no answer was usable.
type Outcome struct {
	Expected dns.RR
	Actual   dns.RR
	Failure  *resolver.Failure
	Matched  bool
}

// ActualString renders the actual side of the comparison for reporting.
func (o Outcome) ActualString() string {
	if o.Failure != nil {
		return o.Failure.String()
	}
	if o.Actual == nil {
		return "(no answer)"
	}
	return o.Actual.String()
}

// Against decides whether any answer in res matches the expected record.
//
// Two records match when their owner name, type, class and rdata agree under
// DNS canonical rules: names compare case-insensitively, addresses by value
// rather than by text. TTL is excluded on purpose, since a live server's TTLs
// routinely differ from the zone file's.
func Against(expected dns.RR, res resolver.Result) Outcome {
	out := Outcome{Expected: expected}

	if res.Failed() {
		out.Failure = res.Failure
		return out
	}

	for _, rr := range res.Answers {
		out.Actual = rr
		if dns.IsDuplicate(expected, rr) {
			out.Matched = true
			return out
		}
	}
	return out
}

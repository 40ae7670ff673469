package runner

import (
	"context"

	"github.com/faanross/zoneverify/internal/compare"
	"github.com/faanross/zoneverify/internal/config"
	"github.com/faanross/zoneverify/internal/report"
	"github.com/faanross/zoneverify/internal/resolver"
	"github.com/faanross/zoneverify/internal/zone"
	"github.com/miekg/dns"
)

// Querier issues a single lookup against the nameserver under test.
// *resolver.Client is the real implementation.
type Querier interface {
	Query(ctx context.Context, name string, qtype, qclass uint16) resolver.Result
}

// Summary aggregates a full comparison run. Outcomes holds one entry per
// compared (non-skipped) record, in zone order.
type Summary struct {
	Matches    int
	Mismatches int
	Outcomes   []compare.Outcome
}

// Runner walks a zone record by record and compares each against the live
// server. Records are processed strictly sequentially, each query blocking
// before the next record, so reported progress always follows zone order.
type Runner struct {
	cfg    *config.Config
	client Querier
	rep    report.Reporter
}

func New(cfg *config.Config, client Querier, rep report.Reporter) *Runner {
	return &Runner{cfg: cfg, client: client, rep: rep}
}

// Run compares every record in z. Query failures count as mismatches and
// never stop the loop; only context cancellation ends the run early.
func (r *Runner) Run(ctx context.Context, z *zone.Zone) (*Summary, error) {
	sum := &Summary{}

	for _, rr := range z.Records {
		select {
		case <-ctx.Done():
			return sum, ctx.Err()
		default:
		}

		if r.skip(rr) {
			continue
		}

		hdr := rr.Header()
		res := r.client.Query(ctx, hdr.Name, hdr.Rrtype, hdr.Class)

		out := compare.Against(rr, res)
		if out.Matched {
			sum.Matches++
		} else {
			sum.Mismatches++
		}
		sum.Outcomes = append(sum.Outcomes, out)

		r.rep.Record(out)
	}

	r.rep.Summary(sum.Matches, sum.Mismatches)
	return sum, nil
}

// skip applies the filtering policy: SOA and NS records are zone plumbing
// that usually differs between providers, so they are only compared when
// explicitly requested.
func (r *Runner) skip(rr dns.RR) bool {
	switch rr.Header().Rrtype {
	case dns.TypeSOA:
		return !r.cfg.CompareSOA
	case dns.TypeNS:
		return !r.cfg.CompareNS
	}
	return false
}

package resolver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/miekg/dns"
)

// FailureKind classifies why a query produced no usable answers.
type FailureKind int

const (
	// FailureTimeout means the server did not respond within the deadline.
	FailureTimeout FailureKind = iota
	// FailureNXDomain means the server answered that the name does not exist.
	FailureNXDomain
	// FailureNoData means the server answered successfully but returned no
	// records for the queried name and type.
	FailureNoData
	// FailureServerError covers any non-success rcode other than NXDOMAIN.
	FailureServerError
	// FailureProtocol covers network errors and malformed responses.
	FailureProtocol
)

func (k FailureKind) String() string {
	switch k {
	case FailureTimeout:
		return "Timeout"
	case FailureNXDomain:
		return "NXDOMAIN"
	case FailureNoData:
		return "NoData"
	case FailureServerError:
		return "ServerError"
	case FailureProtocol:
		return "ProtocolError"
	}
	return "Unknown"
}

// Failure describes a failed query. It is an ordinary value, not an error:
// failed queries are an expected outcome of a comparison run.
type Failure struct {
	Kind   FailureKind
	Detail string
}

func (f *Failure) String() string {
	if f.Detail == "" {
		return f.Kind.String()
	}
	return fmt.Sprintf("%s (%s)", f.Kind, f.Detail)
}

// Result is the outcome of a single query: either a non-empty answer set or
// a Failure, never both.
type Result struct {
	Answers []dns.RR
	Failure *Failure
}

// Failed reports whether the query produced no usable answers.
func (r Result) Failed() bool { return r.Failure != nil }

func fail(kind FailureKind, detail string) Result {
	return Result{Failure: &Failure{Kind: kind, Detail: detail}}
}

// Client queries a single nameserver. It deliberately ignores any system
// resolver configuration: the server under test is the only one consulted,
// there are no retries and no referral chasing.
type Client struct {
	addr     string
	udp      *dns.Client
	tcp      *dns.Client
	forceTCP bool
}

// New creates a Client for the nameserver at ip:port. The address must
// already be numeric; hostname resolution is the caller's problem to avoid,
// not ours to perform.
func New(ip net.IP, port int, timeout time.Duration, forceTCP bool) *Client {
	return &Client{
		addr:     net.JoinHostPort(ip.String(), strconv.Itoa(port)),
		udp:      &dns.Client{Net: "udp", Timeout: timeout},
		tcp:      &dns.Client{Net: "tcp", Timeout: timeout},
		forceTCP: forceTCP,
	}
}

// Addr returns the host:port the client queries.
func (c *Client) Addr() string { return c.addr }

// Query performs exactly one lookup of (name, qtype, qclass) against the
// configured nameserver. A truncated UDP response is retried once over TCP;
// everything else maps straight to a Result.
func (c *Client) Query(ctx context.Context, name string, qtype, qclass uint16) Result {
	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(name), qtype)
	m.Question[0].Qclass = qclass

	client := c.udp
	if c.forceTCP {
		client = c.tcp
	}

	in, _, err := client.ExchangeContext(ctx, m, c.addr)
	if err != nil {
		return failFromErr(err)
	}

	if in.Truncated && !c.forceTCP {
		in, _, err = c.tcp.ExchangeContext(ctx, m, c.addr)
		if err != nil {
			return failFromErr(err)
		}
	}

	switch in.Rcode {
	case dns.RcodeSuccess:
	case dns.RcodeNameError:
		return fail(FailureNXDomain, "")
	default:
		return fail(FailureServerError, fmt.Sprintf("rcode %s", dns.RcodeToString[in.Rcode]))
	}

	if len(in.Answer) == 0 {
		return fail(FailureNoData, "")
	}

	return Result{Answers: in.Answer}
}

func failFromErr(err error) Result {
	var nerr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &nerr) && nerr.Timeout()) {
		return fail(FailureTimeout, err.Error())
	}
	return fail(FailureProtocol, err.Error())
}

package resolver

import (
	"context"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runLocalServer starts a UDP nameserver on a loopback port and returns a
// Client pointed at it.
func runLocalServer(t *testing.T, timeout time.Duration, handler dns.Handler) *Client {
	t.Helper()

	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := &dns.Server{PacketConn: pc, Handler: handler}
	go srv.ActivateAndServe()
	t.Cleanup(func() { _ = srv.Shutdown() })

	return clientFor(t, pc.LocalAddr().String(), timeout, false)
}

func clientFor(t *testing.T, addr string, timeout time.Duration, forceTCP bool) *Client {
	t.Helper()

	host, portStr, err := net.SplitHostPort(addr)
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	return New(net.ParseIP(host), port, timeout, forceTCP)
}

func answerWith(rrs ...dns.RR) dns.Handler {
	return dns.HandlerFunc(func(w dns.ResponseWriter, req *dns.Msg) {
		m := new(dns.Msg)
		m.SetReply(req)
		m.Authoritative = true
		m.Answer = append(m.Answer, rrs...)
		_ = w.WriteMsg(m)
	})
}

func rcodeWith(rcode int) dns.Handler {
	return dns.HandlerFunc(func(w dns.ResponseWriter, req *dns.Msg) {
		m := new(dns.Msg)
		m.SetRcode(req, rcode)
		_ = w.WriteMsg(m)
	})
}

func mustRR(t *testing.T, s string) dns.RR {
	t.Helper()
	rr, err := dns.NewRR(s)
	require.NoError(t, err)
	return rr
}

func TestQuerySuccess(t *testing.T) {
	rr := mustRR(t, "www.example.com. 300 IN A 192.0.2.1")
	client := runLocalServer(t, 2*time.Second, answerWith(rr))

	res := client.Query(context.Background(), "www.example.com.", dns.TypeA, dns.ClassINET)

	require.False(t, res.Failed())
	require.Len(t, res.Answers, 1)
	assert.Equal(t, "www.example.com.", res.Answers[0].Header().Name)
}

func TestQueryQualifiesName(t *testing.T) {
	rr := mustRR(t, "www.example.com. 300 IN A 192.0.2.1")
	client := runLocalServer(t, 2*time.Second, answerWith(rr))

	// Callers may pass an unqualified name; the query still goes out as FQDN.
	res := client.Query(context.Background(), "www.example.com", dns.TypeA, dns.ClassINET)
	assert.False(t, res.Failed())
}

func TestQueryNXDomain(t *testing.T) {
	client := runLocalServer(t, 2*time.Second, rcodeWith(dns.RcodeNameError))

	res := client.Query(context.Background(), "gone.example.com.", dns.TypeA, dns.ClassINET)

	require.True(t, res.Failed())
	assert.Equal(t, FailureNXDomain, res.Failure.Kind)
}

func TestQueryNoData(t *testing.T) {
	client := runLocalServer(t, 2*time.Second, answerWith())

	res := client.Query(context.Background(), "www.example.com.", dns.TypeAAAA, dns.ClassINET)

	require.True(t, res.Failed())
	assert.Equal(t, FailureNoData, res.Failure.Kind)
}

func TestQueryServerError(t *testing.T) {
	client := runLocalServer(t, 2*time.Second, rcodeWith(dns.RcodeServerFailure))

	res := client.Query(context.Background(), "www.example.com.", dns.TypeA, dns.ClassINET)

	require.True(t, res.Failed())
	assert.Equal(t, FailureServerError, res.Failure.Kind)
	assert.Contains(t, res.Failure.Detail, "SERVFAIL")
}

func TestQueryTimeout(t *testing.T) {
	silent := dns.HandlerFunc(func(dns.ResponseWriter, *dns.Msg) {
		// Never reply; the client must give up on its own.
	})
	client := runLocalServer(t, 200*time.Millisecond, silent)

	res := client.Query(context.Background(), "www.example.com.", dns.TypeA, dns.ClassINET)

	require.True(t, res.Failed())
	assert.Equal(t, FailureTimeout, res.Failure.Kind)
}

func TestQueryUnreachable(t *testing.T) {
	// Reserved TEST-NET address, nothing listens there.
	client := New(net.ParseIP("192.0.2.254"), 53, 200*time.Millisecond, false)

	res := client.Query(context.Background(), "www.example.com.", dns.TypeA, dns.ClassINET)
	require.True(t, res.Failed())
}

func TestQueryTruncatedRetriesTCP(t *testing.T) {
	rr := mustRR(t, "big.example.com. 300 IN A 192.0.2.1")

	truncated := dns.HandlerFunc(func(w dns.ResponseWriter, req *dns.Msg) {
		m := new(dns.Msg)
		m.SetReply(req)
		m.Truncated = true
		_ = w.WriteMsg(m)
	})

	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)

	udpSrv := &dns.Server{PacketConn: pc, Handler: truncated}
	go udpSrv.ActivateAndServe()
	t.Cleanup(func() { _ = udpSrv.Shutdown() })

	// Full answer only over TCP on the same port, like a real server that
	// truncates oversized UDP responses.
	l, err := net.Listen("tcp", pc.LocalAddr().String())
	require.NoError(t, err)

	tcpSrv := &dns.Server{Listener: l, Handler: answerWith(rr)}
	go tcpSrv.ActivateAndServe()
	t.Cleanup(func() { _ = tcpSrv.Shutdown() })

	client := clientFor(t, pc.LocalAddr().String(), 2*time.Second, false)

	res := client.Query(context.Background(), "big.example.com.", dns.TypeA, dns.ClassINET)

	require.False(t, res.Failed())
	require.Len(t, res.Answers, 1)
	assert.Equal(t, "big.example.com.", res.Answers[0].Header().Name)
}

func TestQueryTCP(t *testing.T) {
	rr := mustRR(t, "www.example.com. 300 IN A 192.0.2.1")

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := &dns.Server{Listener: l, Handler: answerWith(rr)}
	go srv.ActivateAndServe()
	t.Cleanup(func() { _ = srv.Shutdown() })

	client := clientFor(t, l.Addr().String(), 2*time.Second, true)

	res := client.Query(context.Background(), "www.example.com.", dns.TypeA, dns.ClassINET)
	require.False(t, res.Failed())
	require.Len(t, res.Answers, 1)
}

func TestFailureString(t *testing.T) {
	f := &Failure{Kind: FailureTimeout}
	assert.Equal(t, "Timeout", f.String())

	f = &Failure{Kind: FailureServerError, Detail: "rcode SERVFAIL"}
	assert.Equal(t, "ServerError (rcode SERVFAIL)", f.String())
}

package zone

import (
	"fmt"
	"io"
	"os"

	"github.com/miekg/dns"
)

// Zone holds the resource records of a single origin, in the order the
// zone file declares them.
type Zone struct {
	Origin  string
	Records []dns.RR
}

// ParseError reports a zone file that could not be parsed.
type ParseError struct {
	File string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing zone file %s: %v", e.File, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// LoadFile reads a BIND zone file from disk and parses it relative to origin.
func LoadFile(path, origin string) (*Zone, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening zone file: %w", err)
	}
	defer f.Close()

	return Parse(f, origin, path)
}

// Parse reads a zone definition from r. Owner names in the returned records
// are always fully qualified, never relativized to the origin, so they can be
// compared directly against answers from a live server. The file argument is
// only used in error messages.
func Parse(r io.Reader, origin, file string) (*Zone, error) {
	origin = dns.Fqdn(origin)

	zp := dns.NewZoneParser(r, origin, file)
	zp.SetIncludeAllowed(false)

	var records []dns.RR
	for rr, ok := zp.Next(); ok; rr, ok = zp.Next() {
		records = append(records, rr)
	}
	if err := zp.Err(); err != nil {
		return nil, &ParseError{File: file, Err: err}
	}
	if len(records) == 0 {
		return nil, &ParseError{File: file, Err: fmt.Errorf("no records found for origin %s", origin)}
	}

	return &Zone{Origin: origin, Records: records}, nil
}

package config

import "time"

// Config carries every option for a comparison run. It is built once at
// startup and passed down explicitly; nothing mutates it afterwards.
type Config struct {
	Zone       string        // origin domain being verified
	ZoneFile   string        // path to the BIND zone file
	Nameserver string        // numeric IP of the server under test
	Port       int
	Timeout    time.Duration // per-query deadline
	TCP        bool          // force TCP transport

	Verbose    bool
	CompareSOA bool
	CompareNS  bool
	Strict     bool // exit non-zero when any record mis-matches
}

// Default returns a Config with the standard DNS port and query deadline
// filled in.
func Default() *Config {
	return &Config{
		Port:    53,
		Timeout: 5 * time.Second,
	}
}

package request

import (
	"bufio"
	"errors"
	"io"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"golang.org/x/net/http/httpguts"
	"golang.org/x/text/encoding/charmap"

	"github.com/SUPERKISA8BIIT/KSiS-5/internal/headers"
	"github.com/SUPERKISA8BIIT/KSiS-5/internal/httperr"
)

const (
	// MaxLineBytes bounds a single request or header line, terminator
	// included.
	MaxLineBytes = 64 * 1024

	// MaxHeaderCount bounds the number of header lines before the blank
	// terminator.
	MaxHeaderCount = 100
)

const supportedVersion = "HTTP/1.1"

var errLineTooLong = errors.New("line exceeds maximum length")

// Request is a parsed HTTP/1.1 request. It is owned by the connection
// worker processing it; the body stream is tied to the connection and must
// not be read after the connection closes.
type Request struct {
	Method  string
	Target  string
	Version string
	Headers *headers.Headers

	conn *bufio.Reader

	urlOnce sync.Once
	url     *url.URL
	urlErr  error

	queryOnce sync.Once
	query     url.Values

	bodyOnce  sync.Once
	bodyBytes []byte
	bodyErr   error
}

// ReadRequest reads the request line and header block from r and returns
// the parsed request. The body is not consumed here; it is read lazily by
// Body. Parse failures are reported as *httperr.Error with the status the
// client should receive.
func ReadRequest(r io.Reader) (*Request, error) {
	br := bufio.NewReader(r)

	method, target, version, err := readRequestLine(br)
	if err != nil {
		return nil, err
	}

	hdrs, err := readHeaderBlock(br)
	if err != nil {
		return nil, err
	}

	host := hdrs.Get("Host")
	if host == "" {
		return nil, httperr.New(400, "Host header is missing")
	}
	if !httpguts.ValidHostHeader(host) {
		return nil, httperr.New(400, "Invalid Host header")
	}

	return &Request{
		Method:  method,
		Target:  target,
		Version: version,
		Headers: hdrs,
		conn:    br,
	}, nil
}

func readRequestLine(br *bufio.Reader) (method, target, version string, err error) {
	raw, err := readLimitedLine(br)
	if errors.Is(err, errLineTooLong) {
		return "", "", "", httperr.New(400, "Request line is too long")
	}
	if err != nil && (raw == "" || !errors.Is(err, io.EOF)) {
		// Read failure, or the peer closed without sending anything; let the
		// caller decide whether the peer is gone. A partial line ended by a
		// clean EOF is still parsed.
		return "", "", "", err
	}

	words := strings.Fields(decodeLatin1(strings.TrimRight(raw, "\r\n")))
	if len(words) != 3 {
		return "", "", "", httperr.New(400, "Malformed request line")
	}
	if words[2] != supportedVersion {
		return "", "", "", httperr.New(505, "HTTP Version Not Supported")
	}

	return words[0], words[1], words[2], nil
}

func readHeaderBlock(br *bufio.Reader) (*headers.Headers, error) {
	hdrs := headers.New()
	count := 0

	for {
		raw, err := readLimitedLine(br)
		if errors.Is(err, errLineTooLong) {
			return nil, httperr.New(494, "Request header too large")
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}

		line := strings.TrimRight(raw, "\r\n")
		if line == "" {
			// Blank line or end of stream terminates the block.
			return hdrs, nil
		}

		count++
		if count > MaxHeaderCount {
			return nil, httperr.New(494, "Too many headers")
		}

		if perr := hdrs.ParseLine(line); perr != nil {
			return nil, httperr.NewWithBody(400, "Malformed header line", perr.Error())
		}

		if errors.Is(err, io.EOF) {
			return hdrs, nil
		}
	}
}

// decodeLatin1 maps each byte of a raw line to its ISO-8859-1 code point.
// Every byte value decodes, so this never fails; it also makes Latin-1
// whitespace such as NBSP (0xA0) count as a token separator.
func decodeLatin1(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			runes := make([]rune, 0, len(s))
			for j := 0; j < len(s); j++ {
				runes = append(runes, charmap.ISO8859_1.DecodeByte(s[j]))
			}
			return string(runes)
		}
	}
	return s
}

// readLimitedLine reads one line including its terminator, failing with
// errLineTooLong once MaxLineBytes bytes accumulate without one. Any bytes
// read so far are returned alongside the error.
func readLimitedLine(br *bufio.Reader) (string, error) {
	var sb strings.Builder
	for {
		b, err := br.ReadByte()
		if err != nil {
			return sb.String(), err
		}
		sb.WriteByte(b)
		if b == '\n' {
			return sb.String(), nil
		}
		if sb.Len() >= MaxLineBytes {
			return sb.String(), errLineTooLong
		}
	}
}

// URL returns the parsed request target, computed once on first use.
func (r *Request) URL() (*url.URL, error) {
	r.urlOnce.Do(func() {
		r.url, r.urlErr = url.Parse(r.Target)
	})
	return r.url, r.urlErr
}

// Path returns the path component of the request target, or the raw target
// when it does not parse as a URL.
func (r *Request) Path() string {
	u, err := r.URL()
	if err != nil {
		return r.Target
	}
	return u.Path
}

// Query returns the parsed query parameters, computed once on first use.
// Parsing is lenient: malformed pairs are dropped, well-formed ones kept.
func (r *Request) Query() url.Values {
	r.queryOnce.Do(func() {
		u, err := r.URL()
		if err != nil {
			r.query = url.Values{}
			return
		}
		q, _ := url.ParseQuery(u.RawQuery)
		r.query = q
	})
	return r.query
}

// Body reads and returns the request body. Without a Content-Length header
// there is no body and Body returns (nil, nil); with Content-Length: N it
// reads exactly N bytes from the connection. The result is memoized, so
// repeated calls return the same bytes.
func (r *Request) Body() ([]byte, error) {
	r.bodyOnce.Do(func() {
		size := r.Headers.Get("Content-Length")
		if size == "" {
			return
		}

		n, err := strconv.Atoi(strings.TrimSpace(size))
		if err != nil || n < 0 {
			r.bodyErr = httperr.New(400, "Bad Content-Length")
			return
		}

		buf := make([]byte, n)
		if _, err := io.ReadFull(r.conn, buf); err != nil {
			r.bodyErr = err
			return
		}
		r.bodyBytes = buf
	})
	return r.bodyBytes, r.bodyErr
}

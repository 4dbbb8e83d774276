package server

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"strconv"
	"sync/atomic"
	"syscall"

	"github.com/google/uuid"

	"github.com/SUPERKISA8BIIT/KSiS-5/internal/headers"
	"github.com/SUPERKISA8BIIT/KSiS-5/internal/httperr"
	"github.com/SUPERKISA8BIIT/KSiS-5/internal/request"
	"github.com/SUPERKISA8BIIT/KSiS-5/internal/response"
)

// Server accepts TCP connections and processes each one as a single
// HTTP/1.1 exchange on its own goroutine. Every response closes the
// connection; there is no keep-alive.
type Server struct {
	listener net.Listener
	isClosed atomic.Bool
	handler  Handler
	workers  *registry
}

// Serve binds host:port and starts accepting connections in the
// background.
func Serve(host string, port int, handler Handler) (*Server, error) {
	ln, err := net.Listen("tcp", net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		return nil, fmt.Errorf("failed to create listener: %w", err)
	}
	server := &Server{
		listener: ln,
		handler:  handler,
		workers:  newRegistry(),
	}

	go server.listen()

	return server, nil
}

// Addr returns the address the listener is bound to.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// ActiveWorkers returns the number of connections currently in flight.
func (s *Server) ActiveWorkers() int {
	return s.workers.active()
}

// Close stops accepting connections and blocks until every in-flight
// worker has finished. Workers are not interrupted; shutdown is a drain.
func (s *Server) Close() error {
	s.isClosed.Store(true)

	err := s.listener.Close()
	s.workers.wait()
	return err
}

func (s *Server) listen() {
	for {
		conn, err := s.listener.Accept()

		if s.isClosed.Load() {
			if conn != nil {
				conn.Close()
			}
			return
		}

		if err != nil {
			log.Printf("error accepting connection: %v", err)
			continue
		}

		id := uuid.New().String()
		s.workers.add(id)
		go s.handle(id, conn)
	}
}

// handle processes one connection end to end: parse, dispatch, respond,
// close, deregister.
func (s *Server) handle(id string, conn net.Conn) {
	defer s.workers.remove(id)
	defer conn.Close()

	req, err := request.ReadRequest(conn)
	if err != nil {
		if isPeerGone(err) {
			return
		}
		log.Printf("[%s] error parsing request: %v", id, err)
		s.sendError(conn, id, err)
		return
	}

	resp, err := s.handler.ServeHTTP(req)
	if err != nil {
		// A reset surfaced by the handler's lazy body read means the peer is
		// gone; abandon without attempting a response, same as on the parse
		// path.
		if isPeerGone(err) {
			return
		}
		s.sendError(conn, id, err)
		return
	}
	if resp == nil {
		s.sendError(conn, id, errors.New("handler returned no response"))
		return
	}

	s.send(conn, id, resp)
}

func (s *Server) send(conn net.Conn, id string, resp *response.Response) {
	bw := bufio.NewWriter(conn)

	err := response.Write(bw, resp)
	if err == nil {
		err = bw.Flush()
	}
	if err != nil {
		if !isPeerGone(err) {
			log.Printf("[%s] error writing response: %v", id, err)
		}
		return
	}

	log.Printf("[%s] sent %d %s", id, resp.Status, resp.Reason)
}

// sendError maps a failure to an error response: a *httperr.Error is
// honored as given, anything else becomes a 500 whose body is the error
// text. The body always gets a matching Content-Length.
func (s *Server) sendError(conn net.Conn, id string, err error) {
	var herr *httperr.Error
	if !errors.As(err, &herr) {
		herr = httperr.NewWithBody(500, "Internal Server Error", err.Error())
	}

	body := []byte(herr.ResponseBody())
	s.send(conn, id, &response.Response{
		Status: herr.Status,
		Reason: herr.Reason,
		Headers: []headers.Field{
			{Name: "Content-Length", Value: strconv.Itoa(len(body))},
		},
		Body: body,
	})
}

// isPeerGone reports whether err means the client dropped the transport.
// No response is attempted in that case; there is nobody left to read it.
func isPeerGone(err error) bool {
	return errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EPIPE) ||
		errors.Is(err, net.ErrClosed)
}

package server

import (
	"github.com/SUPERKISA8BIIT/KSiS-5/internal/request"
	"github.com/SUPERKISA8BIIT/KSiS-5/internal/response"
)

// Handler turns one parsed request into a response. It may instead return a
// *httperr.Error to ask for a specific status/reason/body, or any other
// error, which the server maps to a 500. Handlers must not retain the
// request or read its body after returning; the connection is closed right
// after the response is written.
type Handler interface {
	ServeHTTP(req *request.Request) (*response.Response, error)
}

// HandlerFunc adapts a plain function to the Handler interface.
type HandlerFunc func(req *request.Request) (*response.Response, error)

func (f HandlerFunc) ServeHTTP(req *request.Request) (*response.Response, error) {
	return f(req)
}

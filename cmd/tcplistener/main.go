package main

import (
	"flag"
	"fmt"
	"log"
	"net"

	r "github.com/SUPERKISA8BIIT/KSiS-5/internal/request"
)

// Debug tool: accepts connections one at a time and dumps the parsed
// request to stdout. No response is sent.
func main() {
	addr := flag.String("addr", "localhost:8003", "address to listen on")
	flag.Parse()

	ln, err := net.Listen("tcp", *addr)
	if err != nil {
		log.Fatal(err)
	}

	log.Printf("Listening to TCP connections on %s ...\n", *addr)

	for {
		conn, err := ln.Accept()
		if err != nil {
			log.Printf("Could not accept conn: %s\n", err)
			continue
		}

		fmt.Println("Connection accepted!")

		req, err := r.ReadRequest(conn)
		if err != nil {
			log.Printf("Could not parse request: %s\n", err)
			conn.Close()
			continue
		}

		fmt.Printf("Request line:\n- Method: %v\n- Target: %v\n- Version: %v\n", req.Method, req.Target, req.Version)
		fmt.Printf("Headers:\n")
		for _, f := range req.Headers.All() {
			fmt.Printf("- %s: %s\n", f.Name, f.Value)
		}

		conn.Close()
		fmt.Println("Connection closed")
	}
}

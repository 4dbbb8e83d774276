package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"strings"
)

// Small client: PUTs a local file to a running server.
//
//	upsender -addr localhost:8003 notes.txt /backups/notes.txt
func main() {
	addr := flag.String("addr", "localhost:8003", "server address")
	flag.Parse()

	if flag.NArg() != 2 {
		log.Fatalf("usage: %s [-addr host:port] <local file> <remote path>", os.Args[0])
	}
	local, remote := flag.Arg(0), flag.Arg(1)

	body, err := os.ReadFile(local)
	if err != nil {
		log.Fatal(err)
	}

	conn, err := net.Dial("tcp", *addr)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	host, _, err := net.SplitHostPort(*addr)
	if err != nil {
		host = *addr
	}

	fmt.Fprintf(conn, "PUT %s HTTP/1.1\r\n", remote)
	fmt.Fprintf(conn, "Host: %s\r\n", host)
	fmt.Fprintf(conn, "Content-Length: %d\r\n", len(body))
	fmt.Fprintf(conn, "\r\n")
	if _, err := conn.Write(body); err != nil {
		log.Fatal(err)
	}

	statusLine, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(strings.TrimRight(statusLine, "\r\n"))
}

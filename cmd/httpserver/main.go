package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/SUPERKISA8BIIT/KSiS-5/internal/server"
)

type config struct {
	host string
	port int
	root string
}

func loadConfig() config {
	host := flag.String("host", envOr("FILESERVER_HOST", "localhost"), "address to listen on")
	port := flag.Int("port", envOrInt("FILESERVER_PORT", 8003), "port to listen on")
	root := flag.String("root", envOr("FILESERVER_ROOT", "."), "directory to serve")
	flag.Parse()

	return config{host: *host, port: *port, root: *root}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envOrInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func main() {
	cfg := loadConfig()

	srv, err := server.Serve(cfg.host, cfg.port, &fileHandler{root: cfg.root})
	if err != nil {
		log.Fatalf("Error starting the server: %v", err)
	}
	log.Printf("Serving %s on %s", cfg.root, srv.Addr())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	if err := srv.Close(); err != nil {
		log.Printf("Error closing listener: %v", err)
	}
	log.Println("Server gracefully stopped")
}

package main

import (
	"flag"
	"log"
	"os"

	"github.com/df07/go-lighting-preview/web/server"
)

func main() {
	port := flag.Int("port", 8080, "Port to serve on")
	staticDir := flag.String("static", "static/", "Directory with the web client")
	flag.Parse()

	webServer := server.NewServer(*port, *staticDir)

	log.Printf("Lighting Preview Web Server")
	log.Printf("Visit http://localhost:%d to start a preview", *port)

	if err := webServer.Start(); err != nil {
		log.Printf("Error starting server: %v", err)
		os.Exit(1)
	}
}

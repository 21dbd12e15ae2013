package main

import (
	"fmt"
	"log"
	"net"

	"github.com/horgh/relaycat/internal/config"
	"github.com/horgh/relaycat/internal/registry"
	"github.com/horgh/relaycat/internal/relay"
)

// messageSize is the byte-slice size the Participant Session reads into.
// It belongs here, in the bootstrap, rather than in the core engine: the
// core only ever sees whatever value relay.MessageSize holds when Accept
// is called. 512 matches the IRC line length limit the wire codec
// enforces when it serializes a reply.
const messageSize = 512

func main() {
	log.SetFlags(0)

	args, err := getArgs()
	if err != nil {
		log.Fatal(err)
	}

	cfg, err := config.Load(args.ConfigFile)
	if err != nil {
		log.Fatal(err)
	}

	relay.MessageSize = messageSize

	participants := registry.NewParticipants()
	channels := registry.NewChannels()

	ln, err := net.Listen("tcp", fmt.Sprintf("%s:%s", cfg.ListenHost, cfg.ListenPort))
	if err != nil {
		log.Fatalf("unable to listen: %s", err)
	}
	defer func() { _ = ln.Close() }()

	log.Printf("Listening on %s", ln.Addr())

	for {
		conn, err := ln.Accept()
		if err != nil {
			log.Printf("failed to accept connection: %s", err)
			continue
		}

		go func() {
			if err := relay.Accept(conn, participants, channels, cfg.ServerName); err != nil {
				log.Printf("session ended with error: %s", err)
			}
		}()
	}
}

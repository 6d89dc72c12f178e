// Command tinymq is an interactive MQTT 3.1.1 client. It connects to a
// broker over tcp or websocket, prints inbound messages, and reads
// publish/subscribe commands from stdin.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/xid"

	"github.com/tinymq/tinymq"
	"github.com/tinymq/tinymq/config"
	"github.com/tinymq/tinymq/transport"
)

// timerInterval is how often the keep-alive timer is driven.
const timerInterval = 100 * time.Millisecond

func main() {
	configFile := flag.String("config", "", "path to a json or yaml config file")
	server := flag.String("server", "localhost:1883", "broker address (host:port, or ws:// url)")
	trans := flag.String("transport", "tcp", "transport to use: tcp or ws")
	clientID := flag.String("id", "", "client identifier (generated if empty)")
	username := flag.String("user", "", "username")
	password := flag.String("pass", "", "password")
	keepalive := flag.Uint("keepalive", 60, "keepalive interval in seconds")
	clean := flag.Bool("clean", true, "request a clean session")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg := &config.Config{
		Server: config.ServerConfig{Address: *server, Transport: *trans},
		Client: config.ClientConfig{
			ClientID:     *clientID,
			Username:     *username,
			Password:     *password,
			Keepalive:    uint16(*keepalive),
			CleanSession: *clean,
		},
	}

	if *configFile != "" {
		b, err := os.ReadFile(*configFile)
		if err != nil {
			log.Error("failed to read config file", "error", err)
			os.Exit(1)
		}

		cfg, err = config.FromBytes(b)
		if err != nil {
			log.Error("failed to parse config file", "error", err)
			os.Exit(1)
		}
	}

	if cfg.Client.ClientID == "" {
		cfg.Client.ClientID = "tinymq-" + xid.New().String()
	}

	var tr transport.Transport
	switch cfg.Server.Transport {
	case "", "tcp":
		tr = transport.NewTCP(cfg.Server.Address)
	case "ws":
		tr = transport.NewWebsocket(cfg.Server.Address)
	default:
		log.Error("unknown transport", "transport", cfg.Server.Transport)
		os.Exit(1)
	}

	client, err := tinymq.New(tinymq.Options{
		ClientID:     cfg.Client.ClientID,
		Username:     cfg.Client.Username,
		Password:     cfg.Client.Password,
		Keepalive:    cfg.Client.Keepalive,
		CleanSession: cfg.Client.CleanSession,
		Logger:       log,
	}, tinymq.Hooks{
		Send: tr.Send,
		OnConnection: func(connected bool, reason byte) {
			if connected {
				fmt.Println("connected to broker")
			} else {
				fmt.Printf("disconnected from broker (reason %d)\n", reason)
			}
		},
		OnMessage: func(m tinymq.Message) {
			fmt.Printf("message on %s (%d bytes): %s\n", m.Topic, len(m.Payload), printable(m.Payload))
		},
		OnPublishAck: func(packetID uint16) {
			fmt.Printf("publish acknowledged, packet id %d\n", packetID)
		},
		OnSubscribeAck: func(packetID uint16, returnCodes []byte) {
			fmt.Printf("subscribe acknowledged, packet id %d, granted %v\n", packetID, returnCodes)
		},
		OnUnsubscribeAck: func(packetID uint16) {
			fmt.Printf("unsubscribe acknowledged, packet id %d\n", packetID)
		},
	})
	if err != nil {
		log.Error("failed to create client", "error", err)
		os.Exit(1)
	}

	if err := tr.Connect(); err != nil {
		log.Error("failed to connect transport", "error", err, "address", cfg.Server.Address)
		os.Exit(1)
	}

	done := make(chan struct{})

	go tr.Serve(func(b []byte) {
		if _, err := client.Input(b); err != nil {
			log.Error("failed to process inbound data", "error", err)
		}
	}, func(err error) {
		if err != nil {
			log.Warn("transport closed", "error", err)
		}
		close(done)
	})

	go func() {
		last := time.Now()
		ticker := time.NewTicker(timerInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case now := <-ticker.C:
				client.Timer(now.Sub(last))
				last = now
			}
		}
	}()

	if err := client.Connect(); err != nil {
		log.Error("failed to send connect", "error", err)
		tr.Close()
		os.Exit(1)
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		fmt.Println("\nshutting down...")
		_ = client.Disconnect()
		tr.Close()
		os.Exit(0)
	}()

	fmt.Printf("tinymq client %q, commands: pub <topic> <message>, sub <topic>, unsub <topic>, status, quit\n", cfg.Client.ClientID)

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		select {
		case <-done:
			fmt.Println("connection lost")
			return
		default:
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "pub":
			if len(fields) < 3 {
				fmt.Println("usage: pub <topic> <message>")
				continue
			}
			err := client.Publish(tinymq.Message{
				Topic:   fields[1],
				Payload: []byte(strings.Join(fields[2:], " ")),
			})
			if err != nil {
				fmt.Printf("publish failed: %v\n", err)
			}

		case "sub":
			if len(fields) != 2 {
				fmt.Println("usage: sub <topic>")
				continue
			}
			id, err := client.Subscribe([]string{fields[1]}, []byte{0})
			if err != nil {
				fmt.Printf("subscribe failed: %v\n", err)
			} else {
				fmt.Printf("subscribe sent, packet id %d\n", id)
			}

		case "unsub":
			if len(fields) != 2 {
				fmt.Println("usage: unsub <topic>")
				continue
			}
			id, err := client.Unsubscribe([]string{fields[1]})
			if err != nil {
				fmt.Printf("unsubscribe failed: %v\n", err)
			} else {
				fmt.Printf("unsubscribe sent, packet id %d\n", id)
			}

		case "status":
			fmt.Printf("state: %s\n", client.State())

		case "quit", "exit":
			_ = client.Disconnect()
			tr.Close()
			return

		default:
			fmt.Printf("unknown command %q\n", fields[0])
		}
	}
}

// printable renders a payload as text when it contains no control bytes,
// and as a truncated hex dump otherwise.
func printable(b []byte) string {
	text := true
	for _, c := range b {
		if c < 32 || c > 126 {
			text = false
			break
		}
	}

	if text {
		return string(b)
	}

	const max = 32
	if len(b) > max {
		return fmt.Sprintf("% x ...", b[:max])
	}
	return fmt.Sprintf("% x", b)
}

package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/fenwick-audio/sampler-core/pkg/config"
	"github.com/fenwick-audio/sampler-core/pkg/engine"
	"github.com/fenwick-audio/sampler-core/pkg/host"
	"github.com/fenwick-audio/sampler-core/pkg/midi"
	_ "github.com/fenwick-audio/sampler-core/pkg/midi/virtual"
)

func main() {
	backend := flag.String("backend", "virtual", "MIDI port backend name")
	channel := flag.String("channel", "127.0.0.1:9000", "backend-specific port channel (address, device name, ...)")
	configPath := flag.String("config", "", "path to sampler.ini")
	logLevel := flag.String("loglevel", "", "override the configured log level")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("failed to load config %q: %v\n", *configPath, err)
		os.Exit(1)
	}
	if *logLevel != "" {
		if lvl, err := log.ParseLevel(*logLevel); err == nil {
			cfg.LogLevel = lvl
		}
	}

	logger := log.New()
	logger.SetLevel(cfg.LogLevel)

	port, err := midi.NewPort(*backend, *channel)
	if err != nil {
		fmt.Printf("failed to construct port: %v\n", err)
		os.Exit(1)
	}
	if err := port.Open(); err != nil {
		fmt.Printf("failed to open port %q: %v\n", *channel, err)
		os.Exit(1)
	}
	defer port.Close()

	eng := engine.New(port, logger)

	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	if err := eng.Start(ctx); err != nil {
		fmt.Printf("failed to start engine: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		cancel()
		eng.Wait()
	}()

	h := host.New(eng, host.Timeouts{
		Default: cfg.DefaultTimeout,
		Bulk:    cfg.BulkTimeout,
		Sample:  cfg.SampleTimeout,
	}, logger)

	repl(ctx, h)
}

// repl runs the in-repo smoke-test shell standing in for the out-of-scope
// UI runtime, in the teacher's cmd/canopen style: simple line commands,
// printed results, no cobra/cli framework.
func repl(ctx context.Context, h *host.Host) {
	fmt.Println("samplerctl ready. commands: status, programs, samples, header <pn>, volume <n>, quit")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "quit", "exit":
			return
		case "status":
			sr, err := h.StatusReport()
			printResult(sr, err)
		case "programs":
			names, err := h.ResidentProgramNames()
			printResult(names, err)
		case "samples":
			names, err := h.ResidentSampleNames()
			printResult(names, err)
		case "header":
			if len(fields) < 2 {
				fmt.Println("usage: header <program number>")
				continue
			}
			pn, err := strconv.ParseUint(fields[1], 10, 16)
			if err != nil {
				fmt.Println("invalid program number:", err)
				continue
			}
			data, err := h.RequestProgramHeader(uint16(pn))
			printResult(data, err)
		case "volume":
			if len(fields) < 2 {
				fmt.Println("usage: volume <entry number>")
				continue
			}
			n, err := strconv.ParseUint(fields[1], 10, 16)
			if err != nil {
				fmt.Println("invalid entry number:", err)
				continue
			}
			entry, err := h.VolumeListEntry(uint16(n))
			printResult(entry, err)
		default:
			fmt.Println("unrecognized command:", fields[0])
		}
	}
}

func printResult(v any, err error) {
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Printf("%+v\n", v)
}

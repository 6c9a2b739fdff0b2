package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sensor-management-system/orchestration-sub007/common/logger"
	"github.com/sensor-management-system/orchestration-sub007/internal/client"
	"github.com/sensor-management-system/orchestration-sub007/internal/domain"

	"go.uber.org/zap"
)

const usage = `Usage: deployment-query [flags] <command> [args]

Commands:
  device-availability <ids>          ids: comma separated, requires -from
  platform-availability <ids>        ids: comma separated, requires -from
  hierarchy <configuration_id>       requires -at
  export <configuration_id> <file>   requires -at, writes xlsx
  parameters <configuration_id>      requires -at
  timepoints <configuration_id>
  archive <device|platform|configuration> <id>

Flags:
`

func main() {
	baseURL := flag.String("url", getEnv("DEPLOYMENT_URL", "http://localhost:8080"), "deployment service base URL")
	from := flag.String("from", "", "availability window start (RFC3339)")
	to := flag.String("to", "", "availability window end (RFC3339), open when empty")
	at := flag.String("at", "", "timepoint (RFC3339)")
	timeout := flag.Duration("timeout", 30*time.Second, "request timeout")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		flag.Usage()
		os.Exit(2)
	}

	log, err := logger.NewLogger(getEnv("LOG_LEVEL", "warn"), "console", "deployment-query")
	if err != nil {
		fatalf("failed to create logger: %v", err)
	}
	defer log.Sync()

	c := client.NewClient(*baseURL, *timeout, log)
	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	var out any
	switch cmd := args[0]; cmd {
	case "device-availability", "platform-availability":
		need(args, 2)
		start := mustTime("from", *from)
		var end *time.Time
		if *to != "" {
			t := mustTime("to", *to)
			end = &t
		}
		ids := strings.Split(args[1], ",")
		if cmd == "device-availability" {
			out, err = c.DeviceAvailabilities(ctx, ids, start, end)
		} else {
			out, err = c.PlatformAvailabilities(ctx, ids, start, end)
		}
	case "hierarchy":
		need(args, 2)
		out, err = c.MountingActions(ctx, args[1], mustTime("at", *at))
	case "export":
		need(args, 3)
		var data []byte
		data, err = c.ExportMountingActions(ctx, args[1], mustTime("at", *at))
		if err == nil {
			err = os.WriteFile(args[2], data, 0o644)
		}
		if err == nil {
			fmt.Printf("wrote %d bytes to %s\n", len(data), args[2])
			return
		}
	case "parameters":
		need(args, 2)
		out, err = c.ParameterValues(ctx, args[1], mustTime("at", *at))
	case "timepoints":
		need(args, 2)
		out, err = c.MountingActionTimepoints(ctx, args[1])
	case "archive":
		need(args, 3)
		err = c.Archive(ctx, domain.ArchiveEntity(args[1]), args[2])
		if err == nil {
			fmt.Printf("archived %s %s\n", args[1], args[2])
			return
		}
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		log.Debug("Request failed", zap.Error(err))
		fatalf("%v", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		fatalf("failed to encode output: %v", err)
	}
}

func need(args []string, n int) {
	if len(args) < n {
		flag.Usage()
		os.Exit(2)
	}
}

func mustTime(name, value string) time.Time {
	if value == "" {
		fatalf("-%s is required", name)
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		fatalf("invalid -%s %q: %v", name, value, err)
	}
	return t
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

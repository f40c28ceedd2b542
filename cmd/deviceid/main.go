// Command deviceid prints, creates, or serves the per-user device
// identifier.
//
//	deviceid          print the stored id, or a hint when none exists
//	deviceid -f       create the id if missing, then print it
//	deviceid serve    answer id queries from other local processes
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"devdeviceid/internal/config"
	"devdeviceid/internal/deviceid"
	"devdeviceid/internal/ipc"
	"devdeviceid/pkg/utils"
)

const version = "1.0.0"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	storage := deviceid.DefaultStorage()

	switch {
	case len(args) == 0:
		return cmdGet(storage)
	case len(args) == 1 && args[0] == "-f":
		return cmdGenerate(storage)
	case len(args) == 1 && args[0] == "serve":
		return cmdServe(storage)
	case len(args) == 1 && (args[0] == "-h" || args[0] == "--help" || args[0] == "-v" || args[0] == "--version"):
		printUsage(os.Stdout)
		return 0
	default:
		printUsage(os.Stderr)
		return 2
	}
}

func cmdGet(storage deviceid.Storage) int {
	id, ok, err := deviceid.Get(storage)
	if err != nil {
		fmt.Fprintf(os.Stderr, "deviceid: %v\n", err)
		return 1
	}
	if !ok {
		fmt.Fprintf(os.Stderr, "No Device ID found, generate a new one with '%s -f'\n", ownName())
		return 0
	}
	fmt.Printf("Device ID: %s\n", id)
	return 0
}

func cmdGenerate(storage deviceid.Storage) int {
	id, err := deviceid.GetOrGenerate(storage)
	if err != nil {
		fmt.Fprintf(os.Stderr, "deviceid: %v\n", err)
		return 1
	}
	fmt.Printf("Device ID: %s\n", id)
	return 0
}

func cmdServe(storage deviceid.Storage) int {
	cfg, err := config.Load(configPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "deviceid: load config: %v\n", err)
		return 1
	}

	logger, logCloser, err := utils.NewLogger(
		logPathOrFallback(cfg.Logging.File),
		cfg.Logging.MaxSizeMB,
		cfg.Logging.MaxBackups,
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "deviceid: init logger: %v\n", err)
		return 1
	}
	defer logCloser.Close()

	srv, err := ipc.StartServer(cfg.IPC.Socket, ipc.NewHandler(storage))
	if err != nil {
		fmt.Fprintf(os.Stderr, "deviceid: start server: %v\n", err)
		logger.Printf("server not started: %v", err)
		return 1
	}
	defer srv.Close()
	logger.Println("device id server started")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	<-ctx.Done()

	logger.Println("device id server stopped")
	return 0
}

func configPath() string {
	if p := os.Getenv("DEVICEID_CONFIG"); p != "" {
		return p
	}
	return "config.yaml"
}

func logPathOrFallback(path string) string {
	if path == "" {
		return "deviceid.log"
	}
	return path
}

func ownName() string {
	exe, err := os.Executable()
	if err != nil {
		return "deviceid"
	}
	return filepath.Base(exe)
}

func printUsage(w *os.File) {
	name := ownName()
	fmt.Fprintf(w, "Usage: %s [-f] [serve] [-h | --help] [-v | --version]\n", name)
	fmt.Fprintln(w, "Options:")
	fmt.Fprintln(w, "  -f               Generate a new Device ID, if one is not already set")
	fmt.Fprintln(w, "  serve            Answer Device ID queries from local processes")
	fmt.Fprintln(w, "  -h, --help       Show this help message")
	fmt.Fprintln(w, "  -v, --version    Show version information (v"+version+")")
}

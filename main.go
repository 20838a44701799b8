package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Project-Sylos/DriveLister/internal/browser"
	"github.com/Project-Sylos/DriveLister/internal/config"
	"github.com/Project-Sylos/DriveLister/internal/generator"
	"github.com/Project-Sylos/DriveLister/internal/lister"
	"github.com/Project-Sylos/DriveLister/internal/logging"
	"github.com/Project-Sylos/DriveLister/internal/render"
	"github.com/Project-Sylos/DriveLister/internal/tree"
	"github.com/Project-Sylos/DriveLister/sdk"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

const (
	demoFolderID = "demo-root"
	demoAPIKey   = "demo-api-key"
)

func main() {
	var (
		configPath = flag.String("config", "configs/default.json", "Configuration file path")
		browse     = flag.Bool("browse", false, "Browse the listing interactively")
		demo       = flag.Bool("demo", false, "List a generated folder served locally instead of Google Drive")
		paths      = flag.Bool("paths", false, "Print one path per entry")
		html       = flag.Bool("html", false, "Print the rendered HTML page")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		showHelp()
		return
	}

	if err := logging.Init(logging.Config{Level: "warn", Format: "console", OutputPath: "stderr"}); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logging: %v\n", err)
		os.Exit(1)
	}
	defer logging.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dl, cleanup, err := open(*configPath, *demo)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize DriveLister: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	if err := run(ctx, dl, *browse, *paths, *html); err != nil {
		fmt.Fprintln(os.Stderr, err)
		cleanup()
		os.Exit(1)
	}
}

// open creates the lister, backed by a local synthetic Drive in demo mode
func open(configPath string, demo bool) (*sdk.DriveLister, func(), error) {
	if !demo {
		dl, err := sdk.New(configPath)
		if err != nil {
			return nil, nil, err
		}
		return dl, func() { dl.Close() }, nil
	}

	drive := generator.NewServer(demoAPIKey)
	if err := drive.Populate(demoFolderID, generator.DefaultSeedConfig()); err != nil {
		return nil, nil, fmt.Errorf("failed to generate demo folder: %w", err)
	}
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to start demo drive: %w", err)
	}
	srv := &http.Server{Handler: drive}
	go srv.Serve(ln)

	cfg := config.DefaultConfig()
	cfg.Drive.FolderID = demoFolderID
	cfg.Drive.APIKey = demoAPIKey
	cfg.Drive.Endpoint = "http://" + ln.Addr().String() + "/"
	cfg.Store.DBPath = ":memory:"

	dl, err := sdk.NewWithConfig(&cfg)
	if err != nil {
		srv.Close()
		return nil, nil, err
	}
	logging.Info("Serving demo drive", zap.String("endpoint", cfg.Drive.Endpoint))

	var closed bool
	return dl, func() {
		if closed {
			return
		}
		closed = true
		dl.Close()
		srv.Close()
	}, nil
}

func run(ctx context.Context, dl *sdk.DriveLister, browse, paths, html bool) error {
	res, err := dl.Load(ctx)
	if err != nil {
		return err
	}

	if html {
		return res.Page.Render(os.Stdout)
	}

	if res.Err != nil {
		if errors.Is(res.Err, sdk.ErrConfigUnset) {
			fmt.Println(res.Page.Message().Text)
			return nil
		}
		return errors.New(res.Page.Message().Text)
	}

	for _, w := range res.Warnings {
		fmt.Fprintln(os.Stderr, w.String())
	}

	switch {
	case browse:
		return runBrowser(res.Listing)
	case paths:
		list, err := tree.Paths(dl.AsFS(res.Listing))
		if err != nil {
			return err
		}
		for _, p := range list {
			fmt.Println(p)
		}
		return nil
	default:
		if err := render.Text(os.Stdout, res.Listing.Entries); err != nil {
			return err
		}
		fmt.Printf("\n%d entries, max depth %d\n", res.Listing.TotalCount, res.Listing.MaxDepth)
		return nil
	}
}

func runBrowser(listing *sdk.Listing) error {
	final, err := tea.NewProgram(browser.New(lister.DefaultTitle, listing), tea.WithAltScreen()).Run()
	if err != nil {
		return fmt.Errorf("browser failed: %w", err)
	}
	if m, ok := final.(browser.Model); ok && m.Link() != "" {
		fmt.Println(m.Link())
	}
	return nil
}

func showHelp() {
	fmt.Println("DriveLister - Public Google Drive folder lister")
	fmt.Println("===============================================")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  go run main.go [options]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -config string")
	fmt.Println("        Configuration file path (default: configs/default.json)")
	fmt.Println("  -browse")
	fmt.Println("        Browse the listing interactively")
	fmt.Println("  -paths")
	fmt.Println("        Print one path per entry, folders ending in /")
	fmt.Println("  -html")
	fmt.Println("        Print the rendered HTML page")
	fmt.Println("  -demo")
	fmt.Println("        List a generated folder served locally instead of Google Drive")
	fmt.Println("  -help")
	fmt.Println("        Show this help message")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  go run main.go")
	fmt.Println("  go run main.go -demo -browse")
	fmt.Println("  go run main.go -config configs/custom.json -paths")
	fmt.Println()
	fmt.Println("API Server:")
	fmt.Println("  go run cmd/api/main.go [config-file]")
}

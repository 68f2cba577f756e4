package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/ironsheep/simpleimage/internal/imaging"
	"github.com/ironsheep/simpleimage/internal/script"
	"github.com/ironsheep/simpleimage/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func usage() {
	fmt.Println("simpleimage - image editing pipelines and MCP server")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  simpleimage                       Serve MCP over stdin/stdout")
	fmt.Println("  simpleimage run SCRIPT [-o FILE]  Run a pipeline script")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Println("  SIMPLEIMAGE_LOG_LEVEL=debug     Enable debug logging")
	fmt.Println("  SIMPLEIMAGE_QUALITY=1..100      Default encode quality (80)")
	fmt.Println("  SIMPLEIMAGE_AUTO_ORIENT=true    Apply EXIF orientation on load")
	fmt.Println("  SIMPLEIMAGE_RESAMPLE=lanczos    Resampling filter")
	fmt.Println("  SIMPLEIMAGE_FONT_DIR=/path      Directory for relative font paths")
	fmt.Println()
	fmt.Println("Without a command the server communicates via MCP protocol over")
	fmt.Println("stdin/stdout. Configure it in your MCP client.")
}

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("simpleimage %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			usage()
			return
		}
	}

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	cfg, err := imaging.ConfigFromEnv()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	debug := os.Getenv("SIMPLEIMAGE_LOG_LEVEL") == "debug"
	if debug {
		log.Printf("simpleimage v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
		log.Printf("Config: quality=%d auto_orient=%t resample=%s", cfg.Quality, cfg.AutoOrient, cfg.Resample)
	}

	if len(os.Args) > 1 && os.Args[1] == "run" {
		if err := runScript(cfg, os.Args[2:], debug); err != nil {
			log.Fatal(err)
		}
		return
	}

	srv := server.New(cfg, Version)
	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// runScript executes a script file and optionally saves the final document.
func runScript(cfg imaging.Config, args []string, debug bool) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	output := fs.String("o", "", "write the final image to `FILE`")
	format := fs.String("format", "", "output format for -o")
	quality := fs.Int("quality", 0, "encode quality for -o (1-100)")

	// Accept the script path before or after the flags.
	var path string
	if len(args) > 0 && len(args[0]) > 0 && args[0][0] != '-' {
		path, args = args[0], args[1:]
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if path == "" && fs.NArg() > 0 {
		path = fs.Arg(0)
	}
	if path == "" {
		return fmt.Errorf("usage: simpleimage run SCRIPT [-o FILE] [-format F] [-quality Q]")
	}

	runner := &script.Runner{Config: cfg}
	result, err := runner.RunFile(path)
	if err != nil {
		return err
	}
	defer result.Doc.Close()

	for _, saved := range result.Saved {
		if debug {
			log.Printf("Saved %s", saved)
		}
		fmt.Println(saved)
	}

	if *output != "" {
		if err := result.Doc.Save(*output, *format, *quality); err != nil {
			return fmt.Errorf("failed to save output: %w", err)
		}
		fmt.Println(*output)
	}
	return nil
}

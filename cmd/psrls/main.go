package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/psrlang/psr/internal/lsp"
)

const Version = "0.1.0"

func main() {
	showVersion := flag.Bool("version", false, "show version")
	showHelp := flag.Bool("help", false, "show help")
	logFile := flag.String("log", "", "log file path (set PSR_LSP_DEBUG=1 to enable logging)")

	flag.Parse()

	if *showVersion {
		fmt.Printf("PSR Language Server v%s\n", Version)
		os.Exit(0)
	}

	if *showHelp {
		printUsage()
		os.Exit(0)
	}

	server := lsp.NewServer(*logFile)
	if err := server.Run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "LSP server error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("PSR Language Server")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  psrls [options]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version    show version")
	fmt.Println("  --help       show help")
	fmt.Println("  --log <file> log file path")
	fmt.Println()
	fmt.Println("Environment:")
	fmt.Println("  PSR_LSP_DEBUG=1  enable debug logging (off by default)")
	fmt.Println()
	fmt.Println("The server communicates with the editor over stdio.")
}
